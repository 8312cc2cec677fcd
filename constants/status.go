package constants

// RunState is the canonical state for a validation run.
type RunState string

// Stable values (store these exact strings in the run journal).
const (
	RunStateIdle       RunState = "IDLE"       // not started
	RunStateExtracting RunState = "EXTRACTING" // stage 1: reading invoices
	RunStateVerifying  RunState = "VERIFYING"  // stage 2: matching against supporting docs
	RunStateConverting RunState = "CONVERTING" // stage 3: currency conversion
	RunStateDone       RunState = "DONE"       // terminal success
	RunStateAborted    RunState = "ABORTED"    // terminal failure (no usable input)
)
