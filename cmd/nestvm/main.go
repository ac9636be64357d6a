// nestvm - host orchestrator for the nested register machine.
// Runs a guest program under one of three modes:
//  1. --execute          full execution through the prover client, no proof
//  2. --prove            setup, prove and verify a core proof
//  3. --minimal-execute  chunked fast execution with gas estimation
//
// --mode selects the guest: "native" verifies a secp256k1 signature directly
// on the outer machine, "vm" runs a RISC-V image inside the inner machine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/nestvm/log"
)

func main() {
	var (
		execute        bool
		prove          bool
		minimalExecute bool
		mode           string
		imagePath      string
		chunkSize      int
		logLevel       string
		debug          string
	)

	rootCmd := &cobra.Command{
		Use:   "nestvm",
		Short: "Nested register machine orchestrator",
		Run: func(cmd *cobra.Command, args []string) {
			log.InitLogger(logLevel)
			log.EnableModules(debug)

			if !exactlyOne(execute, prove, minimalExecute) {
				fmt.Fprintln(os.Stderr, "Error: You must specify exactly one of --execute, --prove, or --minimal-execute")
				os.Exit(1)
			}

			switch {
			case minimalExecute:
				runMinimalExecute(mode, imagePath, chunkSize)
			case execute:
				runExecute(mode, imagePath)
			case prove:
				runProve(mode, imagePath)
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().BoolVar(&execute, "execute", false, "run the guest without proving")
	rootCmd.Flags().BoolVar(&prove, "prove", false, "generate and verify a core proof")
	rootCmd.Flags().BoolVar(&minimalExecute, "minimal-execute", false, "fast chunked execution with gas estimation")
	rootCmd.Flags().StringVar(&mode, "mode", "vm", "guest mode: native or vm")
	rootCmd.Flags().StringVar(&imagePath, "image", "", "path to a RISC-V ELF image (vm mode)")
	rootCmd.Flags().IntVar(&chunkSize, "chunk-size", 1000, "trace chunk size for minimal execution")
	rootCmd.Flags().StringVar(&logLevel, "loglevel", "info", "log level: trace, debug, info, warn, error")
	rootCmd.Flags().StringVar(&debug, "debug", "", "comma-separated log modules to enable")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
