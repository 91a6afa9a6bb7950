package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 课时块引擎指标，统一注册到默认 Registry，由 /metrics 暴露
var (
	LessonBlocksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_lesson_blocks_created_total",
		Help: "Number of lesson block rows persisted by create requests.",
	})

	LessonBlocksUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_lesson_blocks_updated_total",
		Help: "Number of lesson block rows modified by update requests.",
	})

	LessonBlocksDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_lesson_blocks_deleted_total",
		Help: "Number of lesson block rows removed by delete requests.",
	})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_engine_validation_failures_total",
		Help: "Requests rejected by lesson block validation, by operation.",
	}, []string{"op"})
)

// HTTP 层指标，route 取 gin 路由模板，未匹配路由记为 "unmatched"
var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_http_requests_total",
		Help: "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
