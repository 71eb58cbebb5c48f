// Package metrics defines the Prometheus collectors exported by splitbill.
package metrics

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/splitbill/internal/calculator"
)

// Metrics holds the collectors. Create one per registry with New.
type Metrics struct {
	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	diagnostics   *prometheus.CounterVec
	transfers     prometheus.Gauge
	totalExpenses prometheus.Gauge
}

// New registers the splitbill collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rpcRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs handled, by procedure and code.",
		}, []string{"procedure", "code"}),
		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitbill",
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "settlement_diagnostics_total",
			Help:      "Data-integrity warnings raised while computing settlements, by kind.",
		}, []string{"kind"}),
		transfers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "splitbill",
			Name:      "settlement_transfers",
			Help:      "Number of transfers in the most recent settlement.",
		}),
		totalExpenses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "splitbill",
			Name:      "settlement_total_expenses",
			Help:      "Total amount fronted in the most recent settlement.",
		}),
	}
}

// ObserveSettlement records the outcome of one settlement computation.
func (m *Metrics) ObserveSettlement(res calculator.Result) {
	if m == nil {
		return
	}
	for _, d := range res.Diagnostics {
		m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
	m.transfers.Set(float64(len(res.Settlements)))
	m.totalExpenses.Set(res.TotalExpenses)
}

// Interceptor returns a Connect interceptor counting and timing every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeUnknown.String()
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
				}
			}
			m.rpcRequests.WithLabelValues(procedure, code).Inc()
			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
