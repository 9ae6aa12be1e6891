package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	ua "github.com/mileusna/useragent"
	"github.com/prometheus/client_golang/prometheus"
)

var metricLabels = []string{"method", "path", "status", "response_code", "user_agent"}

// HTTPMetrics 请求计数与耗时
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTPMetrics 创建并注册 HTTP 指标
func NewHTTPMetrics(reg prometheus.Registerer, namespace string) *HTTPMetrics {
	m := &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests handled",
		}, metricLabels),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time taken to handle HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, metricLabels),
	}
	reg.MustRegister(m.Requests, m.Duration)
	return m
}

// Metrics 记录请求指标，path 使用路由模板避免 ID 造成标签爆炸
func Metrics(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()

		label := prometheus.Labels{
			"method":        c.Request.Method,
			"path":          path,
			"status":        statusClass(code),
			"response_code": strconv.Itoa(code),
			"user_agent":    UserAgent(c.Request.UserAgent()),
		}
		m.Duration.With(label).Observe(time.Since(start).Seconds())
		m.Requests.With(label).Inc()
	}
}

// UserAgent 返回客户端名称，未携带时为 unknown
func UserAgent(header string) string {
	if header == "" {
		return "unknown"
	}
	if name := ua.Parse(header).Name; name != "" {
		return name
	}
	return "unknown"
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5XX"
	case code >= 400:
		return "4XX"
	case code >= 300:
		return "3XX"
	case code >= 200:
		return "2XX"
	default:
		return "1XX"
	}
}
