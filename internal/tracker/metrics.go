package tracker

import "time"

// Summary aggregates a run's event log into the numbers the stats command
// reports.
type Summary struct {
	RunID       string
	Prompt      string
	Iterations  int
	EventCounts map[EventType]int
	Duration    time.Duration
	Outcome     string
}

// Summarize computes a Summary from a run's events. Duration spans the first
// to the last event; Outcome reflects the terminal event if one was recorded,
// "in_progress" otherwise.
func Summarize(run *Run) Summary {
	s := Summary{
		RunID:       run.ID,
		Prompt:      run.Prompt,
		EventCounts: make(map[EventType]int),
		Outcome:     "in_progress",
	}

	for _, ev := range run.Events {
		s.EventCounts[ev.Type]++
		if ev.Type == EventIterationCompleted && ev.Iteration > s.Iterations {
			s.Iterations = ev.Iteration
		}
		switch ev.Type {
		case EventPromiseFound:
			s.Outcome = "completed"
		case EventMaxIterations:
			s.Outcome = "max_iterations_reached"
		case EventRunCancelled:
			s.Outcome = "cancelled"
		}
	}

	if len(run.Events) >= 2 {
		first := run.Events[0].Timestamp
		last := run.Events[len(run.Events)-1].Timestamp
		if last.After(first) {
			s.Duration = last.Sub(first)
		}
	}

	return s
}
