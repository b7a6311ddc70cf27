package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samuelgr/pathwinder/internal/logger"
	"github.com/samuelgr/pathwinder/internal/pwmetrics"
)

var (
	metricsAddr       string
	metricsCollectors *pwmetrics.Collectors
)

func initMetrics() {
	registry := prometheus.NewRegistry()
	metricsCollectors = pwmetrics.NewCollectors(registry)

	if metricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Errorf("metrics: server stopped: %v", err)
		}
	}()
}
