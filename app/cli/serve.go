package cli

import (
	"innervoice/app/api"
	"innervoice/app/service/speech"
	"log/slog"

	"github.com/samber/do"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	di, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		slog.Info("Waiting for services to finish...")
		_ = di.Shutdown()
	}()

	server, err := do.Invoke[*api.Server](di)
	if err != nil {
		return err
	}

	go do.MustInvoke[*speech.Service](di).Run(ctx)

	slog.Info("Service started")

	return server.Run(ctx)
}
