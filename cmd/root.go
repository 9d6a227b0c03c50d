// Package cmd implements the CLI commands for PageQuery using Cobra.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagequery/config"
	"github.com/gaurav-prasanna/pagequery/core/fetch"
	"github.com/gaurav-prasanna/pagequery/core/output"
	"github.com/gaurav-prasanna/pagequery/core/scrape"
)

const defaultParallel = 4

// options holds the persistent flags and the config they resolve to.
type options struct {
	configPath string
	verbose    bool
	outputDir  string
	format     string
	urls       []string
	html       string
	htmlFile   string
	parallel   int

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pagequery",
		Short: "PageQuery: query HTML documents by structure",
		Long: `PageQuery fetches a page (or parses an HTML fragment) and runs a
structural query over it: CSS selectors, tag, class, id, attribute, sibling
index, text and XPath finders. Matches are returned as flat JSON records.
It can also render a page as plain text or Markdown.

Usage:
  pagequery <operation> [args] --url <url> [flags]
  pagequery text [selector] --url <url>
  pagequery serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: ./.pagequery.yaml or $XDG_CONFIG_HOME/pagequery/config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	flags.StringVar(&opts.outputDir, "output_dir", "", "Output directory (default: stdout)")
	flags.StringVar(&opts.format, "format", "", "Output format: json|jsonl for records, text|json|pdf for text")
	flags.StringArrayVar(&opts.urls, "url", nil, "URL to fetch (repeatable)")
	flags.StringVar(&opts.html, "html", "", "Inline HTML fragment to parse")
	flags.StringVar(&opts.htmlFile, "html-file", "", "File holding an HTML fragment (- for stdin)")
	flags.IntVar(&opts.parallel, "parallel", defaultParallel, "Maximum URLs fetched concurrently")

	for _, op := range scrape.Operations() {
		root.AddCommand(newFindCmd(opts, op))
	}
	root.AddCommand(
		newTextCmd(opts),
		newMarkdownCmd(opts),
		newDocumentCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup configures logging and loads the config.
func (o *options) setup(stderr io.Writer) error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	if o.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(cfg.LogLevel())
	}
	if o.parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", o.parallel)
	}
	return nil
}

func (o *options) fetcher() *fetch.HTTPFetcher {
	return fetch.New(o.cfg.FetchOptions())
}

func (o *options) scraper() *scrape.Scraper {
	return scrape.New(o.fetcher())
}

func (o *options) writer(cmd *cobra.Command) (*output.Writer, error) {
	w, err := output.New(o.outputDir, cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf("initializing output writer: %w", err)
	}
	return w, nil
}

// written logs a file path; stdout writes return "".
func written(path string) {
	if path != "" {
		log.Info().Str("path", path).Msg("written")
	}
}
