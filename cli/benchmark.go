package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/snowbench/snowbench/adapters"
	"github.com/snowbench/snowbench/bench"
	"github.com/snowbench/snowbench/core"
)

func newBenchmarkCommand(opts Options) *cobra.Command {
	var (
		configPath  string
		profileName string
		query       string
		client      string
		iterations  int
		shapeName   string
	)

	command := &cobra.Command{
		Use:   "benchmark",
		Short: "benchmark a query against one backend client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(configPath, profileName)
			if err != nil {
				return err
			}

			adapter, err := new(adapters.Mux).GetAdapter(client)
			if err != nil {
				return err
			}

			// shape defaults to what the backend supports; --shape declares
			// it explicitly instead of sniffing the SQL text
			shape := adapter.Shape()
			if shapeName != "" {
				parsed, ok := core.ResultShapeFromString(shapeName)
				if !ok {
					return fmt.Errorf("unknown result shape %q (supported: tabular, status)", shapeName)
				}
				shape = parsed
			}

			fmt.Fprintf(opts.Stdout, "Running benchmark with client: %s\n", client)
			fmt.Fprintf(opts.Stdout, "Query: %s\n", query)
			fmt.Fprintf(opts.Stdout, "Iterations: %d\n\n", iterations)

			runner := newBenchRunner(opts.Stdout)
			result, err := runner.Run(cmd.Context(), adapter, client, profile,
				core.QuerySpec{SQL: query, Shape: shape}, iterations)

			// a partial result is still worth reporting before failing
			if result != nil && result.Completed() > 0 {
				printBenchmarkResult(opts.Stdout, result)
			}
			if err != nil {
				return err
			}

			if result.Completed() == 0 {
				printBenchmarkResult(opts.Stdout, result)
			}
			return nil
		},
	}

	command.Flags().StringVarP(&configPath, "config", "c", "", "path to the profile config file")
	command.Flags().StringVarP(&profileName, "profile", "p", "", "profile name (default \""+defaultProfile+"\")")
	command.Flags().StringVarP(&query, "query", "q", "", "query to benchmark")
	command.Flags().StringVar(&client, "client", "adbc", "backend client (adbc, rest-arrow, rest-json)")
	command.Flags().IntVarP(&iterations, "iterations", "n", 1, "number of iterations")
	command.Flags().StringVar(&shapeName, "shape", "", "expected result shape (tabular, status); defaults to the backend's shape")
	_ = command.MarkFlagRequired("config")
	_ = command.MarkFlagRequired("query")

	return command
}

func printBenchmarkResult(out io.Writer, result *bench.Result) {
	fmt.Fprintf(out, "\n=== Benchmark Results: %s ===\n", result.Backend)
	fmt.Fprintf(out, "Iterations: %d/%d\n", result.Completed(), result.Iterations)
	fmt.Fprintf(out, "Total rows: %d\n", result.Rows)
	fmt.Fprintf(out, "Total bytes: %d\n", result.Bytes)
	fmt.Fprintf(out, "Connect time: %s (excluded from samples)\n", bench.FmtDur(result.ConnectTime))
	fmt.Fprintf(out, "Total time: %s\n", bench.FmtDur(result.Stats.Total))
	fmt.Fprintf(out, "Average time: %s\n", bench.FmtDur(result.Stats.Mean))
	fmt.Fprintf(out, "Std deviation: %s\n", bench.FmtDur(result.Stats.StdDev))
	fmt.Fprintf(out, "Min time: %s\n", bench.FmtDur(result.Stats.Min))
	fmt.Fprintf(out, "Max time: %s\n", bench.FmtDur(result.Stats.Max))
	fmt.Fprintln(out)
}
