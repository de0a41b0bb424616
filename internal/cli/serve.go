package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beer/pkg/registry"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve DIR",
		Short: "Serve a formula directory as an HTTP registry",
		Long: `Serve exposes the manifests in DIR over HTTP in the layout install expects:

  GET /<name>/beer_package.toml

DIR holds either <name>/beer_package.toml or <name>.toml files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir, addr string) error {
	src, err := registry.NewDirSource(dir)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           registry.NewServer(src, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printSuccess("Serving %s", StyleValue.Render(dir))
	printKeyValue("Registry", StyleLink.Render("http://"+addr))
	printNextStep("Install from it", appName+" install NAME --registry http://"+addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("registry stopped")
	return nil
}
