package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"

	"github.com/checkmarble/caregiver-uploads/models"
)

// multipart framing on top of the file itself
const multipartOverheadBytes = 1024 * 1024

// requestSizeLimiter caps the request body. Bodies announcing a larger Content-Length are
// refused before anything is read. Streamed bodies are cut by the size limiter, whose plain
// text answer is replaced by the usual error payload.
func requestSizeLimiter(limit int64) gin.HandlerFunc {
	limiter := limits.RequestSizeLimiter(limit)
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.Header("connection", "close")
			presentError(c.Request.Context(), c, errors.Wrapf(models.ErrPayloadTooLarge,
				"request body of %d bytes over the %d bytes limit", c.Request.ContentLength, limit))
			c.Abort()
			return
		}

		c.Writer = &payloadTooLargeWriter{ResponseWriter: c.Writer}
		limiter(c)
	}
}

type payloadTooLargeWriter struct {
	gin.ResponseWriter
	replaced bool
}

func (w *payloadTooLargeWriter) Write(data []byte) (int, error) {
	if w.Status() != http.StatusRequestEntityTooLarge ||
		!strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		return w.ResponseWriter.Write(data)
	}
	if w.replaced {
		return len(data), nil
	}
	w.replaced = true

	body, err := json.Marshal(payloadTooLargeResponse)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.ResponseWriter.Write(body); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (w *payloadTooLargeWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
