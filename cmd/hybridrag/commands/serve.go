package commands

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/0xcro3dile/hybridrag-go/internal/infrastructure/http"
)

var (
	serveAddr  string
	serveWatch bool
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Endpoints:
  POST   /api/ask                  answer a question
  GET    /api/health               index status
  POST   /api/reload               rebuild the index
  GET    /api/conversations/{id}   conversation log
  DELETE /api/conversations/{id}   delete a conversation

With --watch, files added, changed or removed in the data folder are
re-indexed as they change.`,
		Example: `  hybridrag serve
  hybridrag serve --addr :9000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.Config.Server.Addr
			if serveAddr != "" {
				addr = serveAddr
			}

			if serveWatch {
				go func() {
					if err := a.Watch(ctx); err != nil {
						log.Printf("[ERROR] File watcher stopped: %v", err)
					}
				}()
			}

			srv := httpserver.NewServer(a.Hybrid, a.Ingest, a.Store, a.Config.Index.DataDir, addr)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Re-index the data folder on file changes")

	return cmd
}
