package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var valueQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "iwfm",
	Subsystem: "hydrograph",
	Name:      "value_queries_total",
	Help:      "Interpolated value queries served, by outcome.",
}, []string{"outcome"})
