package zkvm

import (
	"fmt"

	"github.com/colorfulnotion/nestvm/log"
)

// Estimate is the aggregate result of one minimal-execution run.
type Estimate struct {
	Steps    uint64 // outer-machine steps
	Gas      uint64 // accumulated over every chunk
	Public   *PublicValues
	ExitCode int8 // the outer environment's exit code
}

type estimateConfig struct {
	chunkSize int
	stdin     *Stdin
	nonce     ProofNonce
	opts      CoreOpts
}

type EstimateOption func(*estimateConfig)

// WithChunkSize bounds each trace chunk to n outer steps.
func WithChunkSize(n int) EstimateOption {
	return func(cfg *estimateConfig) {
		cfg.chunkSize = n
	}
}

// WithStdin attaches an input stream to the estimated run.
func WithStdin(stdin *Stdin) EstimateOption {
	return func(cfg *estimateConfig) {
		cfg.stdin = stdin
	}
}

// EstimateGas runs the program through the minimal executor, feeding every
// trace chunk through the gas estimation pass and accumulating the total
// explicitly. It never touches the proving machinery. Any chunk production
// or costing failure aborts immediately; a non-success exit code is
// reported in the result, not raised mid-loop.
func EstimateGas(program *Program, options ...EstimateOption) (*Estimate, error) {
	cfg := estimateConfig{
		chunkSize: DefaultChunkSize,
		stdin:     NewStdin(),
		opts:      DefaultCoreOpts(),
	}
	for _, opt := range options {
		opt(&cfg)
	}

	exec := NewMinimalExecutor(program, cfg.chunkSize)
	exec.WithInput(cfg.stdin)

	var totalGas uint64
	var chunks int
	for !exec.IsDone() {
		chunk, err := exec.ExecuteChunk()
		if err != nil {
			exec.Abort()
			return nil, fmt.Errorf("estimate: chunk %d: %w", chunks, err)
		}
		gasVM := NewGasEstimatingVM(chunk, program, cfg.nonce, cfg.opts)
		gas, err := gasVM.Execute()
		if err != nil {
			exec.Abort()
			return nil, fmt.Errorf("estimate: costing chunk %d: %w", chunks, err)
		}
		totalGas += gas
		chunks++
		log.Trace(log.Estimator, "chunk costed", "chunk", chunks, "steps", chunk.Steps(), "gas", gas)
	}

	log.Debug(log.Estimator, "estimation complete",
		"chunks", chunks, "steps", exec.GlobalClk(), "gas", totalGas)

	return &Estimate{
		Steps:    exec.GlobalClk(),
		Gas:      totalGas,
		Public:   NewPublicValues(exec.PublicValuesStream()),
		ExitCode: exec.ExitCode(),
	}, nil
}
