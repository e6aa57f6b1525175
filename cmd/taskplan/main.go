package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urbansched/taskplan/pkg/logging"
)

var version = "dev"

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "taskplan",
		Short:         "Dependency-aware execution planning for task graphs",
		Long:          "taskplan detects cyclic task groups, produces a valid execution order, and computes shortest/longest (critical-path) completion distances over task dependency graphs.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", logging.LogFormatConsole, "log format (console, json)")

	rootCmd.AddCommand(runCommand(ctx))
	rootCmd.AddCommand(runsCommand(ctx))

	return rootCmd.Execute()
}

func initLogger(ctx context.Context, cmd *cobra.Command) (context.Context, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return logging.Init(ctx,
		logging.WithLogLevel(level),
		logging.WithLogFormat(format),
	)
}
