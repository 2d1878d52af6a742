// Package serve runs the HTTP API
package serve

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/api"
	"fjacquet/finance-sync/internal/container"
	"fjacquet/finance-sync/internal/logging"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve classification, sync, import and budget operations over HTTP.
Sync routes answer 503 when no bank data provider is configured.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	listen := addr
	if listen == "" {
		listen = c.GetConfig().Server.Addr
	}

	server := &http.Server{
		Addr:              listen,
		Handler:           NewHandler(c).Router(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, server, c.GetLogger())
}

// NewHandler wires the API handler to the container's services.
func NewHandler(c *container.Container) *api.Handler {
	opts := []api.Option{
		api.WithBudgets(c.GetBudgetSynchronizer()),
		api.WithImporter(c.GetImporter()),
		api.WithDefaultCredential(c.GetConfig().Provider.Credential),
	}
	if orchestrator, err := c.GetOrchestrator(); err == nil {
		opts = append(opts, api.WithSyncer(orchestrator))
	} else {
		c.GetLogger().Warn("Sync routes disabled", logging.Field{Key: logging.FieldReason, Value: err.Error()})
	}
	return api.NewHandler(c.GetClassifier(), c.GetLogger(), opts...)
}

// run serves until ctx is done, then shuts the server down gracefully.
func run(ctx context.Context, server *http.Server, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", logging.Field{Key: "addr", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
