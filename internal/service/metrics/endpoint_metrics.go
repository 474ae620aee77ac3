package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    EndpointLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "stockcast",
            Subsystem: "api",
            Name:      "latency_seconds",
            Help:      "Latency of prediction endpoints",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"endpoint"},
    )

    EndpointErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "stockcast",
            Subsystem: "api",
            Name:      "errors_total",
            Help:      "Errors by endpoint and error code",
        },
        []string{"endpoint", "code"},
    )

    RateLimited = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "stockcast",
            Subsystem: "api",
            Name:      "rate_limited_total",
            Help:      "Requests rejected by the per-client limiter",
        },
        []string{"endpoint"},
    )

    StreamSessions = prometheus.NewGauge(
        prometheus.GaugeOpts{
            Namespace: "stockcast",
            Subsystem: "ws",
            Name:      "sessions",
            Help:      "Open websocket prediction sessions",
        },
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(EndpointLatency, EndpointErrors, RateLimited, StreamSessions)
    })
}
