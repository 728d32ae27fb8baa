package connector

import (
	"io"
	"log/slog"
	"time"

	"github.com/driftsql/driftsql/pkg/core"
)

// Recorder receives one record per engine-touching operation. It must
// not alter the operation's outcome.
type Recorder interface {
	Record(op, sql string, params []core.Value, elapsed time.Duration, err error)
}

// NewLogRecorder returns a Recorder that emits one slog entry per
// operation. A nil logger records to a discard handler.
func NewLogRecorder(logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &logRecorder{logger: logger}
}

type logRecorder struct {
	logger *slog.Logger
}

func (r *logRecorder) Record(op, sql string, params []core.Value, elapsed time.Duration, err error) {
	attrs := []any{
		slog.String("op", op),
		slog.String("sql", sql),
		slog.Int("params", len(params)),
		slog.Duration("elapsed", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		r.logger.Debug("query failed", attrs...)
		return
	}
	r.logger.Debug("query", attrs...)
}

// Observe wraps one engine-touching call: it runs fn, reports the
// operation name, SQL text, parameters, latency, and outcome to the
// recorder, and forwards fn's result unchanged. A nil recorder skips
// reporting.
func Observe[T any](r Recorder, op, sql string, params []core.Value, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	if r != nil {
		r.Record(op, sql, params, time.Since(start), err)
	}
	return v, err
}
