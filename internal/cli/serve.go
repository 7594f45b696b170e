package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/ReviewRAG/internal/server"
)

func newServeCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve answers over HTTP",
		Long: `Run an HTTP server exposing the pipeline.

POST /v1/answer accepts {"query_text": "...", "k": 5} and responds with
the generated answer. GET /healthz reports liveness.

Examples:
  reviewrag serve
  reviewrag serve --listen 0.0.0.0:9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := GetGlobalConfig()
			if err != nil {
				return err
			}

			addr := cfg.Server.Listen
			if listen != "" {
				addr = listen
			}

			components, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer components.close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(components.orchestrator, GetLogger("server"))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")

	return cmd
}
