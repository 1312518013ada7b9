package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedulectl",
		Short: "Surgery scheduler maintenance tool",
	}
	rootCmd.PersistentFlags().String("config", "config.toml", "Path to service config")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
