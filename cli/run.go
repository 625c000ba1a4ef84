package cli

import (
	"github.com/spf13/cobra"

	"github.com/snowbench/snowbench/adapters"
)

func newRunCommand(opts Options) *cobra.Command {
	var (
		configPath  string
		profileName string
		query       string
		client      string
		outFormat   string
	)

	command := &cobra.Command{
		Use:   "run",
		Short: "execute a single query or start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := resolveProfile(configPath, profileName)
			if err != nil {
				return err
			}

			formatter, err := newFormatter(outFormat)
			if err != nil {
				return err
			}

			conn, err := adapters.NewConnection(client, profile)
			if err != nil {
				return err
			}
			defer conn.Close()

			session := NewSession(conn, formatter, opts.Stdout)

			if query != "" {
				return session.RunOnce(cmd.Context(), query)
			}
			return session.REPL(cmd.Context(), opts.Stdin, opts.Stderr)
		},
	}

	command.Flags().StringVarP(&configPath, "config", "c", "", "path to the profile config file")
	command.Flags().StringVarP(&profileName, "profile", "p", "", "profile name (default \""+defaultProfile+"\")")
	command.Flags().StringVarP(&query, "query", "q", "", "query to execute; omit for interactive mode")
	command.Flags().StringVar(&client, "client", "adbc", "backend client (adbc, rest-arrow, rest-json)")
	command.Flags().StringVar(&outFormat, "format", "table", "output format (table, csv, json)")
	_ = command.MarkFlagRequired("config")

	return command
}
