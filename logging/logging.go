package logging

import (
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// New builds a logger writing to out. format is "text" or "json".
func New(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return logger, nil
}

func RequestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency.String(),
				"remote_ip": v.RemoteIP,
			})

			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}

			entry.Info("request")

			return nil
		},
	})
}
