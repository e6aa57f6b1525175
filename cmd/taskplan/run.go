package main

import (
	"context"
	"os"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/urbansched/taskplan/pkg/export"
	"github.com/urbansched/taskplan/pkg/metrics"
	"github.com/urbansched/taskplan/pkg/report"
	"github.com/urbansched/taskplan/pkg/runner"
	"github.com/urbansched/taskplan/pkg/runstore"
)

func runCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <graph file> [graph file...]",
		Short: "Run the analysis pipeline over one or more graph descriptor files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, err := initLogger(ctx, cmd)
			if err != nil {
				return err
			}

			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := []runner.Option{}

			handler := metrics.NewNoOpHandler(runCtx)
			if v.GetBool("metrics") {
				exporter, err := stdoutmetric.New()
				if err != nil {
					return err
				}
				provider := sdkmetric.NewMeterProvider(
					sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
				)
				defer func() {
					if err := provider.Shutdown(runCtx); err != nil {
						ctxzap.Extract(runCtx).Warn("metrics shutdown failed", zap.Error(err))
					}
				}()
				handler = metrics.NewOtelHandler(runCtx, provider, "taskplan")
			}
			opts = append(opts, runner.WithMetricsHandler(handler))

			if v.GetBool("export") {
				exp, err := export.New(v.GetString("output-dir"))
				if err != nil {
					return err
				}
				opts = append(opts, runner.WithExporter(exp))
			}

			if storePath := v.GetString("store"); storePath != "" {
				store, err := runstore.New(runCtx, storePath)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, runner.WithStore(store))
			}

			if cmd.Flags().Changed("source") {
				opts = append(opts, runner.WithSourceNode(v.GetInt("source")))
			}

			r := runner.New(opts...)
			results, err := r.ProcessAll(runCtx, args)
			if err != nil {
				return err
			}

			if v.GetBool("report") {
				w := report.New(os.Stdout)
				for _, res := range results {
					w.WriteGraphReport(res)
				}
				w.WritePerformanceReport(results)
			}

			ctxzap.Extract(runCtx).Info("all graphs processed",
				zap.Int("processed", len(results)),
				zap.Int("requested", len(args)),
			)
			return nil
		},
	}

	cmd.Flags().Bool("export", false, "export results as JSON and CSV")
	cmd.Flags().String("output-dir", "results", "directory for exported results")
	cmd.Flags().String("store", "", "path to a SQLite run-history database")
	cmd.Flags().Bool("report", true, "print a human-readable report to stdout")
	cmd.Flags().Bool("metrics", false, "publish run counters via OpenTelemetry (stdout exporter)")
	cmd.Flags().Int("source", 0, "override the descriptor's designated source node")

	return cmd
}
