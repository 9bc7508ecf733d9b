package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

// queryLogger sends gorm's output through the service logger. Failed and slow
// statements are warnings; everything else is debug and only at gorm's Info level.
type queryLogger struct {
	logg  *logger.Logger
	slow  time.Duration
	level gormlogger.LogLevel
}

func newQueryLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	return &queryLogger{logg: logg, slow: slow, level: gormlogger.Warn}
}

func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Info {
		q.logg.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Warn {
		q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Error {
		q.logg.Error(ctx, "db.error", errors.New(fmt.Sprintf(msg, args...)))
	}
}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slow > 0 && elapsed > q.slow

	switch {
	case failed && q.level >= gormlogger.Error:
		q.logg.Warn(q.fields(ctx, fc, elapsed, err), "db.query_failed")
	case slow && q.level >= gormlogger.Warn:
		q.logg.Warn(q.fields(ctx, fc, elapsed, nil), "db.slow_query")
	case q.level >= gormlogger.Info:
		q.logg.Debug(q.fields(ctx, fc, elapsed, nil), "db.query")
	}
}

func (q *queryLogger) fields(ctx context.Context, fc func() (string, int64), elapsed time.Duration, err error) context.Context {
	stmt, rows := fc()
	fields := map[string]any{
		"sql":        stmt,
		"rows":       rows,
		"elapsed_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return q.logg.WithFields(ctx, fields)
}
