package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/nestvm/common"
	"github.com/colorfulnotion/nestvm/guest/ecdsa"
	"github.com/colorfulnotion/nestvm/guest/interp"
	"github.com/colorfulnotion/nestvm/log"
	"github.com/colorfulnotion/nestvm/rvm/rvasm"
	"github.com/colorfulnotion/nestvm/zkvm"
)

// outerCyclesPerStep converts outer instruction counts to reported cycles.
const outerCyclesPerStep = 8

// exactlyOne reports whether precisely one mode flag is set.
func exactlyOne(flags ...bool) bool {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n == 1
}

// selectProgram maps --mode to a guest, its image and a human-readable
// description. In vm mode an --image path replaces the built-in image.
func selectProgram(mode, imagePath string) (*zkvm.Program, string, error) {
	switch mode {
	case "native":
		program, err := zkvm.NewProgram(ecdsa.New(), ecdsa.Image())
		if err != nil {
			return nil, "", err
		}
		return program, "native (secp256k1 verify runs directly on the outer machine)", nil
	case "vm":
		image := defaultVMImage()
		if imagePath != "" {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return nil, "", fmt.Errorf("read image %s: %w", imagePath, err)
			}
			image = data
		}
		program, err := zkvm.NewProgram(interp.New(image), image)
		if err != nil {
			return nil, "", err
		}
		return program, "vm (program image runs inside the inner machine on the outer machine)", nil
	default:
		return nil, "", fmt.Errorf("unknown mode %q (want native or vm)", mode)
	}
}

// defaultVMImage assembles the built-in vm-mode image: a counting loop that
// exits 0. Used when no --image is given, so every mode works out of the box.
func defaultVMImage() []byte {
	words := []uint32{
		rvasm.Addi(rvasm.T0, rvasm.X0, 0),
		rvasm.Addi(rvasm.T1, rvasm.X0, 1000),
		rvasm.Addi(rvasm.T0, rvasm.T0, 1), // loop body
		rvasm.Blt(rvasm.T0, rvasm.T1, -4),
	}
	words = append(words, rvasm.Exit(0)...)
	return rvasm.BuildELF(words)
}

func printRunHeader(modeDesc string, exitCode int8, mode string, public *zkvm.PublicValues) {
	fmt.Printf("Mode: %s\n", modeDesc)
	fmt.Printf("Exit code: %d\n", exitCode)
	if mode == "vm" && public.Remaining() >= 8 {
		fmt.Printf("Inner machine cycles: %d\n", public.ReadUint64())
	}
}

func printOuterStats(instructions uint64, digest common.Hash) {
	fmt.Printf("Outer instructions executed: %.2fM\n", float64(instructions)/1_000_000.0)
	fmt.Printf("Outer cycles: %.2fM\n", float64(instructions*outerCyclesPerStep)/1_000_000.0)
	fmt.Printf("Image blake2b: %s\n", digest.Hex())
}

func runExecute(mode, imagePath string) {
	program, modeDesc, err := selectProgram(mode, imagePath)
	if err != nil {
		panic(err)
	}

	client, err := zkvm.FromEnv()
	if err != nil {
		panic(err)
	}
	public, report, err := client.Execute(program, zkvm.NewStdin())
	if err != nil {
		panic(err)
	}

	exitCode := public.ReadInt8()
	printRunHeader(modeDesc, exitCode, mode, public)
	printOuterStats(report.TotalInstructionCount(), program.Digest())
	if exitCode != 0 {
		panic("exit code is not 0")
	}
}

func runProve(mode, imagePath string) {
	program, modeDesc, err := selectProgram(mode, imagePath)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Mode: %s\n", modeDesc)

	client, err := zkvm.FromEnv()
	if err != nil {
		panic(err)
	}
	pk, err := client.Setup(program)
	if err != nil {
		panic(fmt.Errorf("setup failed: %w", err))
	}
	proof, err := client.Prove(pk, zkvm.NewStdin(), zkvm.ProofCore)
	if err != nil {
		panic(fmt.Errorf("failed to generate proof: %w", err))
	}
	fmt.Println("Successfully generated proof!")

	if err := client.Verify(proof, pk.VerifyingKey()); err != nil {
		panic(fmt.Errorf("failed to verify proof: %w", err))
	}
	fmt.Println("Successfully verified proof!")
}

func runMinimalExecute(mode, imagePath string, chunkSize int) {
	program, modeDesc, err := selectProgram(mode, imagePath)
	if err != nil {
		panic(err)
	}
	log.Debug(log.Orchestrator, "minimal execution", "mode", mode, "chunkSize", chunkSize)

	estimate, err := zkvm.EstimateGas(program, zkvm.WithChunkSize(chunkSize))
	if err != nil {
		panic(err)
	}

	exitCode := estimate.Public.ReadInt8()
	printRunHeader(modeDesc, exitCode, mode, estimate.Public)
	printOuterStats(estimate.Steps, program.Digest())
	fmt.Printf("Gas: %d\n", estimate.Gas)

	if exitCode != 0 {
		panic("exit code is not 0")
	}
	if estimate.ExitCode != 0 {
		panic("outer exit code is not 0")
	}
}
