// Package cli implements the innervoice commands.
package cli

import (
	"context"
	"innervoice/app/api"
	"innervoice/app/client/docstore"
	"innervoice/app/client/speechkit"
	"innervoice/app/config"
	"innervoice/app/service/conversation"
	"innervoice/app/service/metrics"
	"innervoice/app/service/mood"
	"innervoice/app/service/peer"
	"innervoice/app/service/privacy"
	"innervoice/app/service/sentiment"
	"innervoice/app/service/session"
	"innervoice/app/service/speech"
	"innervoice/app/service/transcribe"
	"innervoice/app/util/mylog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

var configPath string

var RootCmd = &cobra.Command{
	Use:          "innervoice",
	Short:        "Mental wellness chat companion",
	Long:         "Innervoice listens, remembers what you share during a session and replies with support.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
}

// signalContext is cancelled on the first interrupt or terminate signal.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func bootstrap(ctx context.Context) (*do.Injector, error) {
	mylog.Preinit()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, oops.In("cli").With("path", configPath).Wrapf(err, "config load failed")
	}

	if err = mylog.Init(cfg); err != nil {
		return nil, oops.In("cli").Wrapf(err, "logging init failed")
	}

	di := do.New()
	do.ProvideValue(di, ctx)
	do.ProvideValue(di, cfg)

	do.Provide(di, metrics.New)
	do.Provide(di, docstore.New)
	do.Provide(di, func(_ *do.Injector) (*sentiment.Analyzer, error) {
		return sentiment.New()
	})
	do.Provide(di, speech.New)
	do.Provide(di, speechkit.NewClient)
	do.Provide(di, transcribe.New)
	do.Provide(di, mood.New)
	do.Provide(di, peer.New)
	do.Provide(di, conversation.New)
	do.Provide(di, session.New)
	do.Provide(di, privacy.New)
	do.Provide(di, api.New)

	return di, nil
}
