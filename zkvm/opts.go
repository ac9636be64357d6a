package zkvm

// CoreOpts carries tuning options for the outer environment's execution and
// costing passes.
type CoreOpts struct {
	ShardSize uint64
}

func DefaultCoreOpts() CoreOpts {
	return CoreOpts{
		ShardSize: 1 << 22,
	}
}
