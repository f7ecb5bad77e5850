package logger

import (
	"io"
	"os"
	"time"

	"piccomarr/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Log() *zerolog.Event
	Fatal() *zerolog.Event
	Err(err error) *zerolog.Event
	Error() *zerolog.Event
	Warn() *zerolog.Event
	Info() *zerolog.Event
	Debug() *zerolog.Event
	Trace() *zerolog.Event
	With() zerolog.Context
	SetLogLevel(level string)
}

type DefaultLogger struct {
	log     zerolog.Logger
	level   zerolog.Level
	writers []io.Writer
}

func New(cfg *domain.Config) Logger {
	l := &DefaultLogger{
		writers: make([]io.Writer, 0),
		level:   zerolog.DebugLevel,
	}

	if cfg.LogPath != "" {
		l.writers = append(l.writers, &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
			Compress:   false,
		})
	} else {
		l.writers = append(l.writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	l.SetLogLevel(cfg.LogLevel)
	l.log = zerolog.New(io.MultiWriter(l.writers...)).Level(l.level).With().Stack().Logger()

	return l
}

func (l *DefaultLogger) SetLogLevel(level string) {
	switch level {
	case "TRACE":
		l.level = zerolog.TraceLevel
	case "DEBUG":
		l.level = zerolog.DebugLevel
	case "INFO":
		l.level = zerolog.InfoLevel
	case "WARN":
		l.level = zerolog.WarnLevel
	case "ERROR":
		l.level = zerolog.ErrorLevel
	default:
		l.level = zerolog.DebugLevel
	}

	l.log = l.log.Level(l.level)
	log.Logger = log.Level(l.level)
}

// Log log something at fatal level.
func (l *DefaultLogger) Fatal() *zerolog.Event {
	return l.log.Fatal().Timestamp()
}

// Log log something at log level.
func (l *DefaultLogger) Log() *zerolog.Event {
	return l.log.Log().Timestamp()
}

// Error log something at error level.
func (l *DefaultLogger) Error() *zerolog.Event {
	return l.log.Error().Timestamp()
}

// Err log something at error level with error.
func (l *DefaultLogger) Err(err error) *zerolog.Event {
	return l.log.Err(err).Timestamp()
}

// Warn log something at warning level.
func (l *DefaultLogger) Warn() *zerolog.Event {
	return l.log.Warn().Timestamp()
}

// Info log something at info level.
func (l *DefaultLogger) Info() *zerolog.Event {
	return l.log.Info().Timestamp()
}

// Debug log something at debug level.
func (l *DefaultLogger) Debug() *zerolog.Event {
	return l.log.Debug().Timestamp()
}

// Trace log something at trace level.
func (l *DefaultLogger) Trace() *zerolog.Event {
	return l.log.Trace().Timestamp()
}

// With log with context.
func (l *DefaultLogger) With() zerolog.Context {
	return l.log.With().Timestamp()
}
