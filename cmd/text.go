package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagequery/core"
	"github.com/gaurav-prasanna/pagequery/core/render"
)

type textResult struct {
	text core.TextResult
	meta core.OutputMeta
}

func newTextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "text [selector]",
		Short: "Render the page, or the elements matching selector, as plain text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := textRenderer(opts.format, false)
			if err != nil {
				return err
			}
			s := opts.scraper()
			return opts.runText(cmd, "text", r, func(ctx context.Context, item input) (core.TextResult, error) {
				return s.PlainText(ctx, item.src, firstArg(args))
			})
		},
	}
}

func newMarkdownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "markdown [selector]",
		Short: "Render the page, or the elements matching selector, as Markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := textRenderer(opts.format, true)
			if err != nil {
				return err
			}
			s := opts.scraper()
			return opts.runText(cmd, "markdown", r, func(ctx context.Context, item input) (core.TextResult, error) {
				return s.Markdown(ctx, item.src, firstArg(args))
			})
		},
	}
}

func newDocumentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "document",
		Short: "Print the raw body of each --url",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(opts.urls) == 0 {
				return fmt.Errorf("%w: document needs --url", core.ErrInvalidArgument)
			}
			if opts.html != "" || opts.htmlFile != "" {
				return fmt.Errorf("%w: document only reads URLs", core.ErrInvalidArgument)
			}
			r, err := textRenderer(opts.format, false)
			if err != nil {
				return err
			}
			s := opts.scraper()
			return opts.runText(cmd, "document", r, func(ctx context.Context, item input) (core.TextResult, error) {
				return s.Document(ctx, item.src.Value)
			})
		},
	}
}

func (o *options) runText(cmd *cobra.Command, operation string, r core.Renderer, fn func(context.Context, input) (core.TextResult, error)) error {
	in, err := o.inputs(cmd)
	if err != nil {
		return err
	}
	w, err := o.writer(cmd)
	if err != nil {
		return err
	}

	results, err := fanOut(cmd.Context(), in, o.parallel, func(ctx context.Context, item input) (textResult, error) {
		text, err := fn(ctx, item)
		if err != nil {
			return textResult{}, err
		}
		return textResult{text: text, meta: meta(item, operation)}, nil
	})
	if err != nil {
		return err
	}
	for i, res := range results {
		path, err := w.WriteText(in[i].label, res.text, res.meta, r)
		if err != nil {
			return err
		}
		written(path)
	}
	return nil
}

// textRenderer picks the renderer for format. markdown selects the .md
// text renderer and Markdown-aware PDF layout.
func textRenderer(format string, markdown bool) (core.Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		if markdown {
			return render.NewMarkdownRenderer(), nil
		}
		return render.NewTextRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "pdf":
		return render.NewPDFRenderer(markdown), nil
	}
	return nil, fmt.Errorf("%w: text format %q (want text, json or pdf)", core.ErrInvalidArgument, format)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
