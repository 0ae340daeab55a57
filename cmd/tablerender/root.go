package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bjaus/tablerender"
	"github.com/bjaus/tablerender/internal/dataset"
	"github.com/bjaus/tablerender/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	config string
	data   string
	format string
	output string
	border string
}

var borders = map[string]tablerender.BorderStyle{
	"rounded": tablerender.BorderRounded,
	"none":    tablerender.BorderNone,
	"ascii":   tablerender.BorderASCII,
	"heavy":   tablerender.BorderHeavy,
	"double":  tablerender.BorderDouble,
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var verbosity int
	root := &cobra.Command{
		Use:   "tablerender",
		Short: "Render data sets as tables",
		Long: `tablerender renders rows from a JSON, JSONL, YAML, CSV or TSV file as
an HTML, XML or text table described by a YAML or TOML table definition.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(cmd.ErrOrStderr(), verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newFormatsCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a data set as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "table definition (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "data file (.json, .jsonl, .yaml, .csv or .tsv)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(tablerender.HTML), "output format")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.border, "border", "rounded", "text border style: rounded, none, ascii, heavy, double")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range tablerender.Formats() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), f); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runRender(stdout io.Writer, opts renderOptions) error {
	logger := logging.GetLogger("render")

	format, err := tablerender.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	border, ok := borders[opts.border]
	if !ok {
		return fmt.Errorf("unknown border style %q", opts.border)
	}
	cfg, err := tablerender.LoadConfig(opts.config)
	if err != nil {
		return err
	}
	rows, err := dataset.Load(opts.data)
	if err != nil {
		return err
	}
	logger.Info().Str("data", opts.data).Int("rows", len(rows)).Msg("Loaded data set")

	table, err := tablerender.BuildTable(cfg, tablerender.NewSlice(rows))
	if err != nil {
		return err
	}

	if opts.output == "" {
		return renderTo(stdout, table, format, border, logger)
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	return closeAfter(f, renderTo(f, table, format, border, logger))
}

func renderTo(w io.Writer, table *tablerender.Table, format tablerender.Format, border tablerender.BorderStyle, logger zerolog.Logger) error {
	var out tablerender.Output
	if format == tablerender.TextTable {
		out = tablerender.NewTextOutput(w, border)
	} else {
		var err error
		if out, err = tablerender.NewOutput(w, format); err != nil {
			return err
		}
	}

	r := tablerender.New(tablerender.WithLogger(logger))
	if err := r.Render(table, out); err != nil {
		return err
	}
	return out.Close()
}

// closeAfter closes c and returns err, or the close error when err is nil.
func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		return cerr
	}
	return err
}
