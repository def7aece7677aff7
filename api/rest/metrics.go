package rest

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/fabexplorer/internal/custompromauto"
)

var requestDuration = custompromauto.Auto().NewHistogramVec(prometheus.HistogramOpts{
	Namespace: custompromauto.Namespace,
	Name:      "http_request_duration_seconds",
	Help:      "Duration of API requests by route and status code",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "code"})
