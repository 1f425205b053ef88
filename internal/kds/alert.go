package kds

import (
	"context"

	"comanda/internal/logger"
)

// AlertSink is the fire-and-forget "new order" sound. Failures (an
// autoplay-blocked sink, a dead speaker) are swallowed by the caller and
// never reach the order pipeline.
type AlertSink interface {
	Play(ctx context.Context) error
}

// LogSink stands in for an audio device on headless terminals.
type LogSink struct{ lg *logger.Logger }

func NewLogSink(lg *logger.Logger) *LogSink { return &LogSink{lg: lg} }

func (s *LogSink) Play(context.Context) error {
	s.lg.Info("new_order_chime", nil)
	return nil
}
