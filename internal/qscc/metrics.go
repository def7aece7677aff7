package qscc

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/fabexplorer/internal/custompromauto"
)

var queryDuration = custompromauto.Auto().NewHistogramVec(prometheus.HistogramOpts{
	Namespace: custompromauto.Namespace,
	Name:      "qscc_query_duration_seconds",
	Help:      "Duration of qscc queries including retries",
	Buckets:   prometheus.DefBuckets,
}, []string{"function"})

var failedQueries = custompromauto.Auto().NewCounterVec(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "qscc_failed_queries_total",
	Help:      "Number of qscc queries that failed after retries",
}, []string{"function"})

var openSessions = custompromauto.Auto().NewGauge(prometheus.GaugeOpts{
	Namespace: custompromauto.Namespace,
	Name:      "qscc_open_sessions",
	Help:      "Number of open organization sessions",
})
