package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"manager-account-api/internal/infrastructure/metrics"
)

const (
	maxLogBodySize = 1 << 12 // 4 KB
	masked         = "***"
)

var sensitiveKeys = map[string]struct{}{
	"password":        {},
	"currentPassword": {},
	"newPassword":     {},
	"confirmPassword": {},
	"token":           {},
}

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request != nil && c.Request.Body != nil {
			ct := c.GetHeader("Content-Type")
			if strings.HasPrefix(ct, "multipart/form-data") {
				body = "<multipart/form-data omitted>"
			} else {
				raw, _ := io.ReadAll(c.Request.Body)
				_ = c.Request.Body.Close()
				c.Request.Body = io.NopCloser(bytes.NewReader(raw))
				body = maskBody(raw)
			}
		}

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues(metrics.AppRequests).Inc()
		}

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// maskBody hides credential fields of a JSON body. Bodies that are not JSON
// objects are dropped, since form encoded credentials cannot be told apart.
func maskBody(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "<non-json body omitted>"
	}
	maskValue(doc)

	b, err := json.Marshal(doc)
	if err != nil {
		return "<non-json body omitted>"
	}
	if len(b) > maxLogBodySize {
		b = b[:maxLogBodySize]
	}
	return string(b)
}

func maskValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := sensitiveKeys[k]; ok {
				t[k] = masked
				continue
			}
			maskValue(val)
		}
	case []any:
		for _, val := range t {
			maskValue(val)
		}
	}
}
