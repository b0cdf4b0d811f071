package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	type TC struct {
		name    string
		level   string
		format  string
		wantErr bool
	}

	tcs := []TC{
		{name: "text info", level: "info", format: "text"},
		{name: "json debug", level: "debug", format: "json"},
		{name: "bad level", level: "loud", format: "text", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(io.Discard, tc.level, tc.format)

			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.level, logger.GetLevel().String())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?q=1", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, http.MethodGet, entry["method"])
	assert.Equal(t, "/?q=1", entry["uri"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, logrus.InfoLevel.String(), entry["level"])
}
