package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/wiggumlabs/ralphctl/internal/loop"
)

const timestampLayout = "2006-01-02 15:04:05"

// RenderState renders a loop snapshot for terminal display. Shared by the
// status command and the watch view.
func RenderState(state *loop.State) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Ralph Wiggum Loop"))
	sb.WriteString("\n\n")

	if !state.Active && state.Termination == loop.TerminationNone {
		sb.WriteString(mutedStyle.Render("No loop has been started."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(labelStyle.Render("State:      "))
	sb.WriteString(renderPhase(state))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Prompt:     "))
	sb.WriteString(truncate(state.Prompt, 72))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Promise:    "))
	sb.WriteString(state.CompletionPromise)
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Iteration:  "))
	sb.WriteString(renderIteration(state))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Directory:  "))
	sb.WriteString(state.WorkingDirectory)
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Started:    "))
	sb.WriteString(state.StartedAt.Format(timestampLayout))
	sb.WriteString("\n")

	if state.LastIterationAt != nil {
		sb.WriteString(labelStyle.Render("Last pass:  "))
		sb.WriteString(state.LastIterationAt.Format(timestampLayout))
		sb.WriteString(mutedStyle.Render(" (" + humanAgo(*state.LastIterationAt) + ")"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderPhase(state *loop.State) string {
	if state.Active {
		return activeStyle.Render("active")
	}
	switch state.Termination {
	case loop.TerminationCompleted:
		return completedStyle.Render("completed")
	case loop.TerminationMaxIterations:
		return cappedStyle.Render("stopped (max iterations reached)")
	case loop.TerminationUserCancelled:
		return cancelledStyle.Render("cancelled")
	default:
		return cancelledStyle.Render(string(state.Termination))
	}
}

func renderIteration(state *loop.State) string {
	if state.MaxIterations == nil {
		return fmt.Sprintf("%d (unbounded)", state.CurrentIteration)
	}
	return fmt.Sprintf("%d / %d", state.CurrentIteration, *state.MaxIterations)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func humanAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
