package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagequery/core/scrape"
	"github.com/gaurav-prasanna/pagequery/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query operations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			f := opts.fetcher()
			fo := f.Options()
			log.Info().
				Str("user_agent", fo.UserAgent).
				Dur("timeout", fo.Timeout).
				Bool("ignore_http_errors", fo.IgnoreHTTPErrors).
				Bool("ignore_content_type", fo.IgnoreContentType).
				Int64("max_body_size", fo.MaxBodySize).
				Msg("fetch options")
			return server.New(scrape.New(f), cfg).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
