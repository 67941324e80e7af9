package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestNewLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		path          string
		status        int
		expectedLevel string
		expectLine    bool
	}{
		{name: "success", path: "/recipients/r-1/files?token=secret", status: http.StatusCreated, expectedLevel: "INFO", expectLine: true},
		{name: "client error", path: "/recipients/r-1/files", status: http.StatusRequestEntityTooLarge, expectedLevel: "WARN", expectLine: true},
		{name: "server error", path: "/recipients/r-1/files", status: http.StatusBadGateway, expectedLevel: "ERROR", expectLine: true},
		{name: "ignored path", path: "/liveness", status: http.StatusOK, expectLine: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			logger := slog.New(slog.NewJSONHandler(buf, nil))

			r := gin.New()
			r.Use(NewLogging(logger, WithIgnorePath([]string{"/liveness"})))
			r.POST("/recipients/:recipient_id/files", func(c *gin.Context) { c.Status(tt.status) })
			r.GET("/liveness", func(c *gin.Context) { c.Status(tt.status) })

			method := http.MethodPost
			if tt.path == "/liveness" {
				method = http.MethodGet
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(method, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if !tt.expectLine {
				assert.Empty(t, buf.String())
				return
			}
			line := gjson.Parse(buf.String())
			assert.Equal(t, tt.expectedLevel, line.Get("level").String())
			assert.Equal(t, "/recipients/:recipient_id/files", line.Get("route").String())
			assert.Equal(t, int64(tt.status), line.Get("status").Int())
			assert.NotContains(t, buf.String(), "secret")
			assert.NotContains(t, buf.String(), "r-1")
		})
	}
}
