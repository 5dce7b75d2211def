// Package logger configures the zerolog based process logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes log events to different sinks depending on level.
// Warnings and up go to the error writer, everything else to the info
// writer.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	w := lw.InfoWriter
	if l >= zerolog.WarnLevel {
		w = lw.ErrorWriter
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global zerolog logger from config. At least one
// sink must be enabled for any output to appear.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	var (
		writers []io.Writer
		stack   bool
	)

	// use zerolog stack marshal func if trace level is set
	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)

	ph := NewPrometheusHook(cfg.ServiceName)

	if cfg.Console.Enabled {
		writers = append(writers, newConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		writers = append(writers, newRollingFileWriter(cfg))
	}

	mw := zerolog.MultiLevelWriter(writers...)

	switch {
	case cfg.ReportCaller && stack:
		log.Logger = zerolog.New(mw).Hook(ph).With().Timestamp().Stack().Logger()
	case cfg.ReportCaller:
		log.Logger = zerolog.New(mw).Hook(ph).With().Timestamp().Caller().Logger()
	default:
		log.Logger = zerolog.New(mw).Hook(ph).With().Timestamp().Logger()
	}

	return nil
}

// newRollingFileWriter builds a LevelWriter backed by lumberjack rolling
// files, one for info and below, one for warnings and errors.
func newRollingFileWriter(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil {
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	return &LevelWriter{
		ErrorWriter: &lumberjack.Logger{
			Filename:   path.Join(cfg.File.Path, cfg.File.ErrorLog),
			MaxSize:    cfg.File.ErrorMaxSize,
			MaxAge:     cfg.File.ErrorMaxAge,
			MaxBackups: cfg.File.ErrorMaxBackups,
		},
		InfoWriter: &lumberjack.Logger{
			Filename:   path.Join(cfg.File.Path, cfg.File.InfoLog),
			MaxSize:    cfg.File.InfoMaxSize,
			MaxAge:     cfg.File.InfoMaxAge,
			MaxBackups: cfg.File.InfoMaxBackups,
		},
	}
}

func newConsoleWriter(cfg Log) io.Writer {
	lw := &LevelWriter{
		ErrorWriter: os.Stderr,
		InfoWriter:  os.Stdout,
	}

	if cfg.Console.UseConsoleWriter {
		lw.ErrorWriter = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: zerolog.TimeFieldFormat,
		}
		lw.InfoWriter = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	return lw
}
