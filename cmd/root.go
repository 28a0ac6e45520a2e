// Package cmd wires the updatejoin command line.
package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexwohletz/pandas-utils/internal/config"
	"github.com/alexwohletz/pandas-utils/internal/ctl"
)

// Updater is the command run by the root command, exposed for tests.
var Updater *ctl.UpdateCommand

// NewRootCommand returns the updatejoin command.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	Updater = ctl.NewUpdateCommand(stdin, stdout, stderr)
	rc := &cobra.Command{
		Use:   "updatejoin",
		Short: "Update a column of one table from another table by joining them.",
		Long: `
Runs the equivalent of

	UPDATE left SET update_col = right.source_col
	FROM left JOIN right USING (on...)

over two tables read from CSV, JSON, Parquet, Excel or Arrow files, or from
sqlite queries. Rows are matched to left by the target key. Without
--overwrite only null values of update_col are filled.

Every option can also be set in the TOML file given by --config, or through
an environment variable named PANDAS_UTILS_ followed by the upper-cased flag
name with dashes replaced by underscores.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.SetAll(viper.New(), cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return Updater.Run(ctx)
		},
	}
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from.")
	Updater.Config.BindFlags(rc.Flags())

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}
