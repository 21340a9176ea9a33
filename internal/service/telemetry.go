package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatsWriter is the hit-recording slice of the stats collector.
type StatsWriter interface {
	RecordHit(ctx context.Context, app, uri, ip string, ts time.Time) error
}

// TelemetryService dispatches hit records off the request path. A failed or
// slow collector must never fail a public read, so Record returns immediately
// and the delivery attempt runs behind a bounded timeout.
type TelemetryService struct {
	Stats   StatsWriter
	Flags   *SystemSettingsService
	Logger  *zap.Logger
	App     string
	Timeout time.Duration
}

func (t *TelemetryService) Record(uri, ip string) {
	if t == nil || t.Stats == nil {
		return
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ts := time.Now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if t.Flags != nil && !t.Flags.IsEnabled(ctx, FeatureHitRecording, true) {
			return
		}
		if err := t.Stats.RecordHit(ctx, t.App, uri, ip, ts); err != nil && t.Logger != nil {
			t.Logger.Warn("hit recording failed", zap.String("uri", uri), zap.Error(err))
		}
	}()
}
