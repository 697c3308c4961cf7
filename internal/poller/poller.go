package poller

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/domain"
	"github.com/ykvlv/homework-bot/internal/metrics"
)

const failurePrefix = "Сбой в работе программы: "

// APIClient fetches the raw homework statuses answer.
// practicum.Client implements this.
type APIClient interface {
	GetAPIAnswer(ctx context.Context, cursor int64) (map[string]any, error)
}

// Sender delivers a text message to the configured chat.
// telegram.Notifier implements this.
type Sender interface {
	SendMessage(text string) error
}

// Poller periodically checks the latest homework and reports status changes.
// All state lives in memory and is touched only from Run.
type Poller struct {
	api      APIClient
	sender   Sender
	log      *zap.Logger
	interval time.Duration

	suppressRepeated bool

	cursor     int64
	last       *domain.Record
	lastReport string

	sleep func(ctx context.Context, d time.Duration) bool
}

// Option customizes a Poller.
type Option func(*Poller)

// WithSuppressRepeatedErrors skips a failure report identical to the previous one.
func WithSuppressRepeatedErrors(on bool) Option {
	return func(p *Poller) { p.suppressRepeated = on }
}

// New creates a Poller starting at cursor (unix seconds).
func New(api APIClient, sender Sender, log *zap.Logger, interval time.Duration, cursor int64, opts ...Option) *Poller {
	p := &Poller{
		api:      api,
		sender:   sender,
		log:      log,
		interval: interval,
		cursor:   cursor,
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(p)
	}
	metrics.Cursor.Set(float64(cursor))
	return p
}

// Run polls until ctx is canceled. The first poll happens immediately; every
// poll, failed or not, is followed by a full interval of sleep.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("poller started",
		zap.Duration("interval", p.interval),
		zap.Int64("from_date", p.cursor),
	)
	for {
		p.tick(ctx)
		if !p.sleep(ctx, p.interval) {
			p.log.Info("poller stopping")
			return
		}
	}
}

// tick performs one cycle and turns any failure into a chat report.
// It never panics, so Run always reaches the sleep.
func (p *Poller) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("poll cycle panicked", zap.Any("panic", r))
		}
	}()
	err := p.safePoll(ctx)
	if err == nil {
		p.lastReport = ""
		metrics.LastSuccess.SetToCurrentTime()
		return
	}
	if ctx.Err() != nil {
		p.log.Info("poll interrupted", zap.Error(err))
		return
	}
	metrics.PollsTotal.WithLabelValues(metrics.ResultError).Inc()
	p.log.Error("poll failed", zap.Error(err), zap.Int64("from_date", p.cursor))
	p.report(err)
}

func (p *Poller) safePoll(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.poll(ctx)
}

func (p *Poller) poll(ctx context.Context) error {
	resp, err := p.api.GetAPIAnswer(ctx, p.cursor)
	if err != nil {
		return fmt.Errorf("get api answer: %w", err)
	}
	homeworks, err := domain.CheckResponse(resp)
	if err != nil {
		return fmt.Errorf("check response: %w", err)
	}
	result, err := p.handle(homeworks)
	if err != nil {
		return err
	}
	p.advance(resp)
	metrics.PollsTotal.WithLabelValues(result).Inc()
	return nil
}

// handle notifies about the first homework if it differs from the tracked one.
func (p *Poller) handle(homeworks []any) (string, error) {
	if len(homeworks) == 0 {
		p.log.Info("no homework updates", zap.Int64("from_date", p.cursor))
		return metrics.ResultEmpty, nil
	}
	rec, err := domain.RecordFrom(homeworks[0])
	if err != nil {
		return "", fmt.Errorf("parse homework: %w", err)
	}
	if p.last != nil && *p.last == rec {
		p.log.Debug("homework status unchanged",
			zap.String("homework", rec.Name),
			zap.String("status", string(rec.Status)),
		)
		return metrics.ResultUnchanged, nil
	}
	msg, err := domain.ParseStatus(homeworks[0])
	if err != nil {
		return "", fmt.Errorf("parse status: %w", err)
	}
	p.notify(metrics.KindStatus, msg)
	p.last = &rec
	return metrics.ResultChanged, nil
}

// advance moves the cursor to the server time; a missing value keeps it.
func (p *Poller) advance(resp map[string]any) {
	ts, ok := domain.CurrentDate(resp)
	if !ok {
		p.log.Warn("current_date missing or invalid, cursor kept", zap.Int64("from_date", p.cursor))
		return
	}
	p.cursor = ts
	metrics.Cursor.Set(float64(ts))
}

func (p *Poller) report(err error) {
	text := failurePrefix + err.Error()
	if p.suppressRepeated && text == p.lastReport {
		p.log.Info("repeated failure report skipped")
		return
	}
	p.lastReport = text
	p.notify(metrics.KindFailure, text)
}

// notify sends text. A delivery error is logged and dropped here so that it
// can never stop the loop.
func (p *Poller) notify(kind, text string) {
	if err := p.sender.SendMessage(text); err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		p.log.Warn("notification dropped", zap.String("kind", kind), zap.Error(err))
		return
	}
	metrics.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
