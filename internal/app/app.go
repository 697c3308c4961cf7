package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/config"
	"github.com/ykvlv/homework-bot/internal/poller"
	"github.com/ykvlv/homework-bot/internal/practicum"
	"github.com/ykvlv/homework-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	httpSrv *http.Server
	poller  *poller.Poller
}

// New wires the API client, the Telegram notifier and the poller.
// cfg must already be validated.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPI, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	// Only a rejected token stops startup; an unreachable API is retried by polling.
	if err := telegram.Authorize(bot, log.Named("telegram")); err != nil {
		return nil, err
	}

	notifier := telegram.NewNotifier(bot, cfg.TelegramToken, cfg.TelegramChatID, log.Named("telegram"))
	client := practicum.New(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout, log.Named("practicum"))
	return newApp(cfg, log, client, notifier), nil
}

func newApp(cfg config.Config, log *zap.Logger, api poller.APIClient, sender poller.Sender) *App {
	p := poller.New(api, sender, log.Named("poller"), cfg.RetryPeriod, time.Now().Unix(),
		poller.WithSuppressRepeatedErrors(cfg.SuppressRepeatedErrors),
	)

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		srv = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      newMux(),
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}
	return &App{cfg: cfg, log: log, httpSrv: srv, poller: p}
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run polls until SIGINT/SIGTERM or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting homework-bot",
		zap.String("endpoint", a.cfg.Endpoint),
		zap.Duration("retry_period", a.cfg.RetryPeriod),
		zap.String("http", a.cfg.HTTPAddr),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.httpSrv != nil {
		go func() {
			if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("http server error", zap.Error(err))
			}
		}()
	}

	a.poller.Run(ctx)
	a.log.Info("shutdown signal received")

	if a.httpSrv != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := a.httpSrv.Shutdown(shCtx)
		cancel()
		if err != nil {
			a.log.Warn("http server shutdown error", zap.Error(err))
		}
	}
	return nil
}
