package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/output"
	"github.com/gaurav-prasanna/pagequery/core/scrape"
)

// newFindCmd exposes a registered operation as `pagequery <name> [args]`.
func newFindCmd(opts *options, op scrape.Operation) *cobra.Command {
	use := op.Name
	for _, a := range op.Args {
		use += " <" + a + ">"
	}
	return &cobra.Command{
		Use:   use,
		Short: op.Description,
		Args:  cobra.ExactArgs(len(op.Args)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runFind(cmd, op, args)
		},
	}
}

func (o *options) runFind(cmd *cobra.Command, op scrape.Operation, args []string) error {
	format, err := recordFormat(o.format)
	if err != nil {
		return err
	}
	criteria, err := op.Build(args)
	if err != nil {
		return err
	}
	in, err := o.inputs(cmd)
	if err != nil {
		return err
	}
	w, err := o.writer(cmd)
	if err != nil {
		return err
	}

	s := o.scraper()
	results, err := fanOut(cmd.Context(), in, o.parallel, func(ctx context.Context, item input) ([]core.Record, error) {
		return s.Find(ctx, item.src, criteria)
	})
	if err != nil {
		return err
	}
	for i, records := range results {
		path, err := w.WriteRecords(in[i].label, records, format)
		if err != nil {
			return err
		}
		written(path)
	}
	return nil
}

func recordFormat(f string) (string, error) {
	switch strings.ToLower(f) {
	case "", output.FormatJSON:
		return output.FormatJSON, nil
	case output.FormatJSONL:
		return output.FormatJSONL, nil
	}
	return "", fmt.Errorf("%w: record format %q (want json or jsonl)", core.ErrInvalidArgument, f)
}
