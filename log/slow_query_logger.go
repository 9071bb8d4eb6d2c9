package log

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryLogger gorm 日志接口实现，输出到 logrus，超过阈值的 SQL 记为 warn
type SlowQueryLogger struct {
	Threshold time.Duration // 慢查询阈值
	Level     logger.LogLevel
}

func NewSlowQueryLogger(threshold time.Duration, level logger.LogLevel) *SlowQueryLogger {
	return &SlowQueryLogger{Threshold: threshold, Level: level}
}

func (l *SlowQueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	nl := *l
	nl.Level = level
	return &nl
}

func (l *SlowQueryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.Level >= logger.Info {
		Infof(msg, data...)
	}
}

func (l *SlowQueryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.Level >= logger.Warn {
		Warnf(msg, data...)
	}
}

func (l *SlowQueryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.Level >= logger.Error {
		Errorf(msg, data...)
	}
}

func (l *SlowQueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.Level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		WithFields(map[string]interface{}{"elapsed": elapsed.String(), "rows": rows}).
			Errorf("sql error: %v | %s", err, sql)
	case l.Threshold > 0 && elapsed > l.Threshold && l.Level >= logger.Warn:
		sql, rows := fc()
		WithFields(map[string]interface{}{"elapsed": elapsed.String(), "rows": rows}).
			Warn(fmt.Sprintf("SLOW QUERY >= %v: %s", l.Threshold, sql))
	case l.Level >= logger.Info:
		sql, rows := fc()
		WithFields(map[string]interface{}{"elapsed": elapsed.String(), "rows": rows}).Debug(sql)
	}
}
