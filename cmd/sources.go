package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/scrape"
)

var errNoSource = errors.New("no source: pass --url, --html or --html-file")

// input is one source with the label its output is written under.
type input struct {
	label string
	src   scrape.Source
}

// inputs collects the sources named by the flags, URLs first.
func (o *options) inputs(cmd *cobra.Command) ([]input, error) {
	var in []input
	for _, u := range o.urls {
		in = append(in, input{label: u, src: scrape.URL(u)})
	}
	if o.html != "" {
		in = append(in, input{label: fmt.Sprintf("fragment-%d", len(in)+1), src: scrape.HTML(o.html)})
	}
	if o.htmlFile != "" {
		body, err := readHTMLFile(cmd.InOrStdin(), o.htmlFile)
		if err != nil {
			return nil, err
		}
		in = append(in, input{label: fmt.Sprintf("fragment-%d", len(in)+1), src: scrape.HTML(body)})
	}
	if len(in) == 0 {
		return nil, errNoSource
	}
	return in, nil
}

func readHTMLFile(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

// fanOut runs fn over every input with at most parallel calls in flight.
// Results keep input order. The first error cancels the rest.
func fanOut[T any](ctx context.Context, in []input, parallel int, fn func(context.Context, input) (T, error)) ([]T, error) {
	results := make([]T, len(in))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, item := range in {
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return fmt.Errorf("%s: %w", item.label, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func meta(in input, operation string) core.OutputMeta {
	return core.OutputMeta{
		Source:    in.label,
		Operation: operation,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
