package main

import (
	"github.com/webrig/webrig/internal/log"
)

var Version = "dev"

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd, statusCmd, installCmd, pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
