package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Server Metrics

	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Document Metrics

	// DocumentEmissionsTotal 文档发放次数，result: success / validation / not_found / persistence / unexpected
	DocumentEmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pnccp_document_emissions_total",
			Help: "Total number of document emission requests by entity kind and result",
		},
		[]string{"entidad_origen", "result"},
	)

	// DocumentEmissionDuration 文档生成耗时
	DocumentEmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pnccp_document_emission_duration_seconds",
			Help:    "Document emission pipeline duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"entidad_origen"},
	)

	// TemplateActivationsTotal 模板激活次数
	TemplateActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pnccp_template_activations_total",
			Help: "Total number of template activations by result",
		},
		[]string{"result"},
	)

	// EmissionTransitionsTotal 发放状态变更次数
	EmissionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pnccp_emission_transitions_total",
			Help: "Total number of emission status transitions by target status",
		},
		[]string{"estado"},
	)
)
