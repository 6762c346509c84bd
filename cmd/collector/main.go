// Command collector gathers job offers from the configured sources and
// scores CVs against them from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "collector",
	Short:         "Collect job offers and match CVs against them",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var offersFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&offersFile, "offers", "", "JSON offers file used as the store when no database is configured")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
