// Command request reads a JSON tabulation request from a file or stdin and
// runs it (spec.md §6 "request [file] — reads a JSON request from the given
// file or stdin").
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"microtab/config"
	"microtab/output"
	"microtab/request"
	"microtab/tabulate"
)

func main() {
	cmd := &cobra.Command{
		Use:           "request [file]",
		Short:         "Run a JSON tabulation request",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return run(path)
		},
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}

	req, err := request.ParseRequest(data)
	if err != nil {
		return err
	}

	defaults, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	dataRoot := defaults.DataRoot
	if req.DataRoot != nil && *req.DataRoot != "" {
		dataRoot = *req.DataRoot
	}

	ctx, err := tabulate.NewContext(dataRoot)
	if err != nil {
		return err
	}
	defer ctx.Close()

	tables, err := ctx.Tabulate(context.Background(), req)
	if err != nil {
		return err
	}

	format := req.OutputFormat
	if format == "" {
		format = defaults.OutputFormat
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}
	rendered, err := formatter.Format(tables)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open request file: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
