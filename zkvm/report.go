package zkvm

// ExecutionReport aggregates statistics over the outer environment's own
// execution. These are the outer machine's numbers; the inner machine's
// cycle count travels separately, inside the public output record.
type ExecutionReport struct {
	instructionCount uint64
}

func (r *ExecutionReport) TotalInstructionCount() uint64 {
	return r.instructionCount
}
