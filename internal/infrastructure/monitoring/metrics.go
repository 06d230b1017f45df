package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type RegistryMetrics struct {
	CustomersTotal  prometheus.Gauge
	CustomerCreated prometheus.Counter
	CustomerDeleted prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_registry_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Registry = RegistryMetrics{
		CustomersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "customer_registry_customers_total",
				Help: "Number of customers currently in the registry.",
			},
		),
		CustomerCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_registry_customers_created_total",
				Help: "Total number of customers successfully created.",
			},
		),
		CustomerDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_registry_customers_deleted_total",
				Help: "Total number of customers successfully deleted.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerCreated() {
	Registry.CustomerCreated.Inc()
}

func RecordCustomerDeleted() {
	Registry.CustomerDeleted.Inc()
}

func SetCustomersTotal(n float64) {
	Registry.CustomersTotal.Set(n)
}
