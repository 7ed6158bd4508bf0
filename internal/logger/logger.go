package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It is usable before Init with logrus defaults.
var Logger = logrus.New()

// Init configures the structured JSON logger and tags every entry with the service name.
func Init(serviceName, level string) *logrus.Logger {
	return New(os.Stdout, serviceName, level)
}

// New builds a logger writing to out. Init uses it for the global logger; tests use it
// directly to capture output.
func New(out io.Writer, serviceName, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	l.AddHook(serviceHook{service: serviceName})

	Logger = l
	return l
}

// WithRequestID adds request_id to the entry when it is known.
func WithRequestID(l logrus.FieldLogger, requestID string) logrus.FieldLogger {
	if requestID == "" {
		return l
	}
	return l.WithField("request_id", requestID)
}

type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = h.service
	}
	return nil
}
