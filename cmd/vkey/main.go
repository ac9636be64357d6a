// vkey prints the verifying key for a program image.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/nestvm/guest/ecdsa"
	"github.com/colorfulnotion/nestvm/guest/interp"
	"github.com/colorfulnotion/nestvm/zkvm"
)

func main() {
	var imagePath string

	rootCmd := &cobra.Command{
		Use:   "vkey",
		Short: "Print the verifying key of a program image",
		Run: func(cmd *cobra.Command, args []string) {
			var program *zkvm.Program
			var err error
			if imagePath != "" {
				data, rerr := os.ReadFile(imagePath)
				if rerr != nil {
					fmt.Fprintln(os.Stderr, rerr)
					os.Exit(1)
				}
				program, err = zkvm.NewProgram(interp.New(data), data)
			} else {
				program, err = zkvm.NewProgram(ecdsa.New(), ecdsa.Image())
			}
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
			fmt.Println(pk.VerifyingKey().Bytes32())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&imagePath, "image", "", "path to a RISC-V ELF image (defaults to the native guest)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
