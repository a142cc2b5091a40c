// Command tab runs a SimpleRequest: tabulate one or more variables from a
// single product/sample against built-in or configured conventions
// (spec.md §6 "tab <product> <sample> <VAR>+ [-d data_root] [-f
// text|json|csv]").
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"microtab/config"
	"microtab/output"
	"microtab/request"
	"microtab/tabulate"
)

func main() {
	var dataRoot, format string

	cmd := &cobra.Command{
		Use:   "tab <product> <sample> <VAR>...",
		Short: "Tabulate one or more variables from a single sample",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], args[1], args[2:], dataRoot, format)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&dataRoot, "data-root", "d", "", "data root (overrides the config file default)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, or csv")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(product, sample string, variables []string, dataRoot, format string) error {
	defaults, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	if dataRoot == "" {
		dataRoot = defaults.DataRoot
	}
	if format == "" {
		format = defaults.OutputFormat
	}

	req := request.SimpleRequest(product, dataRoot, sample, variables, format)

	ctx, err := tabulate.NewContext(dataRoot)
	if err != nil {
		return err
	}
	defer ctx.Close()

	tables, err := ctx.Tabulate(context.Background(), req)
	if err != nil {
		return err
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
