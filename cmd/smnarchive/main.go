// Command smnarchive is the archive engine's build/test harness: a small
// CLI for exercising the core round-trip (`test core`), benchmarking
// concurrent read/write traffic against one archive (`test
// manyformsthreaded`), and scaffolding a new form variant
// (`gen formtype`). It is a collaborator around the core archive package,
// not part of it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SummonTheCat/smn-archive/internal/config"
	"github.com/SummonTheCat/smn-archive/internal/logger"
)

var cfg *config.Config

func main() {
	logger.Configure()
	cfg = config.Load()

	root := &cobra.Command{
		Use:   "smnarchive",
		Short: "Build and test harness for the smn-archive engine",
	}
	root.PersistentFlags().String("log-level", cfg.LogLevel, "log level: trace, debug, info, warn, error")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return logger.SetLevel(level)
	}

	root.AddCommand(newTestCmd())
	root.AddCommand(newGenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
