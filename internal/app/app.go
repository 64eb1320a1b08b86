package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/config"
	httpx "github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/internal/http"
)

// Run wires the application and serves the webhook until SIGINT/SIGTERM.
func Run(cfg *config.Config, log *logrus.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go c.Scheduler.Run(ctx)

	wh := httpx.NewWebhookHandler(c.Engine, c.Gateway, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpx.BuildRouter(wh, cfg.WebhookSecret),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
