package driver

import (
	"fmt"

	"github.com/wiggumlabs/ralphctl/internal/loop"
)

// iterationPromptTemplate is the prompt fed to the generator each pass.
// The promise contract has to be spelled out verbatim: completion is
// recognized only by the exact marker, so the generator must be told the
// exact text to emit.
const iterationPromptTemplate = `## Task
%s

## Completion Promise

When you have FULLY completed the task, output the following to signal completion:

%s%s%s

**Rules:**
- Only output the promise when the task is COMPLETELY done
- If tests exist, they must pass before outputting the promise
- If you encounter errors, fix them before outputting the promise
- Each iteration, you can see your previous work in the files and git history

## Current Status

This is iteration %d of your work on this task.
%s

Continue working on the task. Review your previous changes, check for issues, and make progress.
When the task is fully complete with all requirements met, output the completion promise.`

// firstIterationExtra is appended to the first iteration
const firstIterationExtra = `
This is the FIRST iteration. Start by understanding the task and beginning implementation.`

// continueIterationExtra is appended to subsequent iterations
const continueIterationExtra = `
Review your previous work:
- Check git log for recent commits
- Review any test failures or errors
- Continue making progress toward completion`

// BuildIterationPrompt renders the prompt for the given 1-indexed iteration.
func BuildIterationPrompt(state *loop.State, iteration int) string {
	extra := continueIterationExtra
	if iteration <= 1 {
		extra = firstIterationExtra
	}
	return fmt.Sprintf(iterationPromptTemplate,
		state.Prompt,
		loop.PromiseOpenTag, state.CompletionPromise, loop.PromiseCloseTag,
		iteration,
		extra,
	)
}
