package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the bot and the quota audit scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, errApp := NewDutyMeter()
			if errApp != nil {
				return errApp
			}

			defer func() {
				if errClose := app.Close(ctx); errClose != nil {
					slog.Error("Error closing", log.ErrAttr(errClose))
				}
			}()

			if errInit := app.Init(ctx); errInit != nil {
				return errInit
			}

			if errBot := app.startBot(); errBot != nil {
				return errBot
			}

			app.StartBackground(ctx)

			<-ctx.Done()
			slog.Info("Shutting down")

			return nil
		},
	}
}
