package log

import (
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var std = logrus.NewEntry(logrus.StandardLogger())

// Options 日志初始化参数，File 为空时只输出到标准输出
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init 设置JSON格式、日志级别，并给每条日志带上 service 字段
func Init(serviceName string, opts ...Options) {
	opt := Options{Level: "info", MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 30}
	if len(opts) > 0 {
		opt = mergeOptions(opt, opts[0])
	}
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	level, err := logrus.ParseLevel(opt.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	var out io.Writer = os.Stdout
	if opt.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opt.File,
			MaxSize:    opt.MaxSizeMB,
			MaxBackups: opt.MaxBackups,
			MaxAge:     opt.MaxAgeDays,
			Compress:   true,
		})
	}
	logger.SetOutput(out)
	std = logger.WithField("service", serviceName)
	if err != nil && opt.Level != "" {
		std.Warnf("unknown log level %q, fallback to info", opt.Level)
	}
}

func mergeOptions(base, in Options) Options {
	if in.Level != "" {
		base.Level = in.Level
	}
	base.File = in.File
	if in.MaxSizeMB > 0 {
		base.MaxSizeMB = in.MaxSizeMB
	}
	if in.MaxBackups > 0 {
		base.MaxBackups = in.MaxBackups
	}
	if in.MaxAgeDays > 0 {
		base.MaxAgeDays = in.MaxAgeDays
	}
	return base
}

// WithFields 结构化字段
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return std.WithFields(fields)
}

func LoadPrintProjectName(projectName string) {
	// 字体可选："slant"、"small"、"doom"、"big"、"colossal" 等
	myFigure := figure.NewFigure(projectName, "slant", true)
	fmt.Println("\n" + myFigure.String())
}

func Debug(args ...interface{}) {
	std.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

func Info(args ...interface{}) {
	std.Info(args...)
}

func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

func Warn(args ...interface{}) {
	std.Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

func Error(args ...interface{}) {
	std.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

func Panic(args ...interface{}) {
	std.Panic(args...)
}

func Panicf(format string, args ...interface{}) {
	std.Panicf(format, args...)
}

func Fatal(args ...interface{}) {
	std.Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	std.Fatalf(format, args...)
}
