// evm-fixture proves a vm-mode run and writes the proof as a JSON fixture
// for the on-chain verifier tests.
//
//	evm-fixture --system groth16
//	evm-fixture --system plonk
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/nestvm/fixture"
	"github.com/colorfulnotion/nestvm/guest/interp"
	"github.com/colorfulnotion/nestvm/log"
	"github.com/colorfulnotion/nestvm/rvm/rvasm"
	"github.com/colorfulnotion/nestvm/zkvm"
)

// fixtureImage is the default program proved into the fixture: a counting
// loop that exits 0, the same image the orchestrator embeds for vm mode.
func fixtureImage() []byte {
	words := []uint32{
		rvasm.Addi(rvasm.T0, rvasm.X0, 0),
		rvasm.Addi(rvasm.T1, rvasm.X0, 1000),
		rvasm.Addi(rvasm.T0, rvasm.T0, 1),
		rvasm.Blt(rvasm.T0, rvasm.T1, -4),
	}
	words = append(words, rvasm.Exit(0)...)
	return rvasm.BuildELF(words)
}

func main() {
	var (
		n         uint32
		systemArg string
		imagePath string
		outDir    string
	)

	rootCmd := &cobra.Command{
		Use:   "evm-fixture",
		Short: "Generate an on-chain verification fixture",
		Run: func(cmd *cobra.Command, args []string) {
			log.InitLogger("info")

			system, err := zkvm.ParseProofSystem(systemArg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if system != zkvm.ProofPlonk && system != zkvm.ProofGroth16 {
				fmt.Fprintf(os.Stderr, "unsupported fixture system %q (want plonk or groth16)\n", systemArg)
				os.Exit(1)
			}

			image := fixtureImage()
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					panic(fmt.Errorf("read image %s: %w", imagePath, err))
				}
				image = data
			}
			program, err := zkvm.NewProgram(interp.New(image), image)
			if err != nil {
				panic(err)
			}

			client, err := zkvm.FromEnv()
			if err != nil {
				panic(err)
			}
			pk, err := client.Setup(program)
			if err != nil {
				panic(fmt.Errorf("setup failed: %w", err))
			}

			stdin := zkvm.NewStdin()
			stdin.WriteUint32(n)

			fmt.Printf("n: %d\n", n)
			fmt.Printf("Proof System: %s\n", system)

			proof, err := client.Prove(pk, stdin, system)
			if err != nil {
				panic(fmt.Errorf("failed to generate proof: %w", err))
			}

			fix := fixture.FromProof(proof, pk.VerifyingKey(), n)
			fmt.Printf("Verification Key: %s\n", fix.Vkey)
			fmt.Printf("Public Values: %s\n", fix.PublicValues)
			fmt.Printf("Proof Bytes: %s\n", fix.Proof)

			path, err := fixture.Write(outDir, system, fix)
			if err != nil {
				panic(err)
			}
			fmt.Printf("Fixture written to %s\n", path)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().Uint32Var(&n, "n", 20, "numeric input written to the guest's stdin")
	rootCmd.Flags().StringVar(&systemArg, "system", "groth16", "proof system: plonk or groth16")
	rootCmd.Flags().StringVar(&imagePath, "image", "", "path to a RISC-V ELF image")
	rootCmd.Flags().StringVar(&outDir, "out", fixture.DefaultDir, "fixture output directory")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
