package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/urbansched/taskplan/pkg/runstore"
)

func runsCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs from a run-history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, err := initLogger(ctx, cmd)
			if err != nil {
				return err
			}

			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			storePath := v.GetString("store")
			if storePath == "" {
				return fmt.Errorf("--store is required")
			}

			store, err := runstore.New(runCtx, storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(runCtx, v.GetString("dataset"))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tDATASET\tNODES\tEDGES\tCOMPONENTS\tDAG\tCRITICAL LENGTH\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\t%d\t%s\n",
					r.RunID, r.Dataset, r.NodeCount, r.EdgeCount,
					r.ComponentCount, r.IsDAG, r.CriticalPathLength,
					r.CreatedAt.Format(time.RFC3339),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("store", "", "path to a SQLite run-history database")
	cmd.Flags().String("dataset", "", "only list runs for this dataset")

	return cmd
}
