// Package telemetry exposes Prometheus metrics for the billing backend.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module wires telemetry components via Fx.
var Module = fx.Options(
	fx.Provide(NewMetrics),
)

// Metrics exposes Prometheus observability primitives. All record
// methods are safe on a nil receiver so callers never guard.
type Metrics struct {
	apiRequests      *prometheus.CounterVec
	apiDuration      *prometheus.HistogramVec
	billsCreated     *prometheus.CounterVec
	billsDeleted     *prometheus.CounterVec
	billAmount       *prometheus.HistogramVec
	stockAdjustments *prometheus.CounterVec
	lowStockProducts prometheus.Gauge
	overdueBills     prometheus.Gauge
}

// NewMetrics registers and returns Prometheus metrics.
func NewMetrics() *Metrics {
	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bizbook_api_requests_total",
		Help: "Counts API requests by method, route and status.",
	}, []string{"method", "route", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bizbook_api_duration_seconds",
		Help:    "API request latency per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	billsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bizbook_bills_created_total",
		Help: "Bills created by type.",
	}, []string{"type"})

	billsDeleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bizbook_bills_deleted_total",
		Help: "Bills deleted by type.",
	}, []string{"type"})

	billAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bizbook_bill_amount",
		Help:    "Bill total amount distribution by type.",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
	}, []string{"type"})

	stockAdjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bizbook_stock_adjustments_total",
		Help: "Stock delta applications by outcome.",
	}, []string{"outcome"})

	lowStockProducts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bizbook_low_stock_products",
		Help: "Products at or below their low stock threshold, from the last scan.",
	})

	overdueBills := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bizbook_overdue_bills",
		Help: "Unpaid bills past their due date, from the last scan.",
	})

	prometheus.MustRegister(
		apiRequests,
		apiDuration,
		billsCreated,
		billsDeleted,
		billAmount,
		stockAdjustments,
		lowStockProducts,
		overdueBills,
	)

	return &Metrics{
		apiRequests:      apiRequests,
		apiDuration:      apiDuration,
		billsCreated:     billsCreated,
		billsDeleted:     billsDeleted,
		billAmount:       billAmount,
		stockAdjustments: stockAdjustments,
		lowStockProducts: lowStockProducts,
		overdueBills:     overdueBills,
	}
}

// ObserveAPIRequest records an API request and latency.
func (m *Metrics) ObserveAPIRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveBillCreated records a created bill and its total amount.
func (m *Metrics) ObserveBillCreated(billType string, amount float64) {
	if m == nil {
		return
	}
	m.billsCreated.WithLabelValues(billType).Inc()
	m.billAmount.WithLabelValues(billType).Observe(amount)
}

// ObserveBillDeleted records a deleted bill.
func (m *Metrics) ObserveBillDeleted(billType string) {
	if m == nil {
		return
	}
	m.billsDeleted.WithLabelValues(billType).Inc()
}

// ObserveStockAdjustment records a stock delta application outcome.
func (m *Metrics) ObserveStockAdjustment(outcome string) {
	if m == nil {
		return
	}
	m.stockAdjustments.WithLabelValues(outcome).Inc()
}

// SetLowStockProducts records the size of the last low stock scan.
func (m *Metrics) SetLowStockProducts(count int) {
	if m == nil {
		return
	}
	m.lowStockProducts.Set(float64(count))
}

// SetOverdueBills records the size of the last overdue bill scan.
func (m *Metrics) SetOverdueBills(count int) {
	if m == nil {
		return
	}
	m.overdueBills.Set(float64(count))
}
