package metrics

import (
	"autobay/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the shop metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	WorkOrdersCreated   *prometheus.CounterVec
	WorkOrdersCompleted prometheus.Counter
	AllocationWarnings  prometheus.Counter
	PredictedHours      prometheus.Histogram
	BilledAmount        prometheus.Counter

	LiveWorkOrders   prometheus.Gauge
	QueuedWorkOrders prometheus.Gauge
	TechnicianLoad   *prometheus.GaugeVec
	BayLoad          *prometheus.GaugeVec
	StockQuantity    *prometheus.GaugeVec
	LowStockItems    prometheus.Gauge
}

type Config struct {
	ServiceName string
	Namespace   string
}

func DefaultConfig(serviceName string) *Config {
	return &Config{ServiceName: serviceName, Namespace: serviceName}
}

func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	constLabels := prometheus.Labels{"service": config.ServiceName}
	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace, Name: "http_requests_total",
		Help: "Total number of HTTP requests", ConstLabels: constLabels,
	}, []string{"method", "path", "status"})
	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace, Name: "http_request_duration_seconds",
		Help: "HTTP request duration in seconds", ConstLabels: constLabels,
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"method", "path"})

	m.WorkOrdersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace, Name: "work_orders_created_total",
		Help: "Work orders created, by initial status", ConstLabels: constLabels,
	}, []string{"status"})
	m.WorkOrdersCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace, Name: "work_orders_completed_total",
		Help: "Work orders completed", ConstLabels: constLabels,
	})
	m.AllocationWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace, Name: "allocation_warnings_total",
		Help: "Warnings attached to intake results", ConstLabels: constLabels,
	})
	m.PredictedHours = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: config.Namespace, Name: "work_order_predicted_hours",
		Help: "Predicted duration of created work orders", ConstLabels: constLabels,
		Buckets: []float64{0.5, 1, 2, 3, 4, 6, 8, 12, 16, 24},
	})
	m.BilledAmount = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace, Name: "billed_amount_total",
		Help: "Sum of billed amounts of completed work orders", ConstLabels: constLabels,
	})

	m.LiveWorkOrders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace, Name: "live_work_orders",
		Help: "Work orders not yet completed", ConstLabels: constLabels,
	})
	m.QueuedWorkOrders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace, Name: "queued_work_orders",
		Help: "Work orders waiting for resources", ConstLabels: constLabels,
	})
	m.TechnicianLoad = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: config.Namespace, Name: "technician_load_percent",
		Help: "Technician load in percent", ConstLabels: constLabels,
	}, []string{"technician"})
	m.BayLoad = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: config.Namespace, Name: "service_bay_load_percent",
		Help: "Service bay load in percent", ConstLabels: constLabels,
	}, []string{"bay"})
	m.StockQuantity = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: config.Namespace, Name: "stock_quantity",
		Help: "Units on hand per part", ConstLabels: constLabels,
	}, []string{"part"})
	m.LowStockItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: config.Namespace, Name: "low_stock_items",
		Help: "Parts at or below their minimum stock", ConstLabels: constLabels,
	})

	registry.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.WorkOrdersCreated, m.WorkOrdersCompleted, m.AllocationWarnings, m.PredictedHours, m.BilledAmount,
		m.LiveWorkOrders, m.QueuedWorkOrders, m.TechnicianLoad, m.BayLoad, m.StockQuantity, m.LowStockItems,
	)
	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Middleware records every request against its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

func (m *Metrics) RecordWorkOrderCreated(result *domain.WorkOrderResult) {
	if m == nil || result == nil {
		return
	}
	m.WorkOrdersCreated.WithLabelValues(string(result.Status)).Inc()
	m.PredictedHours.Observe(result.PredictedHours)
	m.AllocationWarnings.Add(float64(len(result.Warnings)))
}

func (m *Metrics) RecordWorkOrderCompleted(receipt *domain.Receipt) {
	if m == nil || receipt == nil {
		return
	}
	m.WorkOrdersCompleted.Inc()
	m.BilledAmount.Add(receipt.BilledAmount)
}

// ShopSnapshot is the state the shop gauges are set from.
type ShopSnapshot struct {
	Technicians []domain.Technician
	Bays        []domain.ServiceBay
	Stock       []domain.StockItem
	Live        int
	Queued      int
}

func (m *Metrics) ObserveShop(s ShopSnapshot) {
	if m == nil {
		return
	}
	m.LiveWorkOrders.Set(float64(s.Live))
	m.QueuedWorkOrders.Set(float64(s.Queued))
	for _, t := range s.Technicians {
		m.TechnicianLoad.WithLabelValues(t.ID).Set(float64(t.LoadPercent))
	}
	for _, b := range s.Bays {
		m.BayLoad.WithLabelValues(b.Label()).Set(float64(b.CurrentLoad))
	}
	low := 0
	for _, item := range s.Stock {
		m.StockQuantity.WithLabelValues(item.PartName).Set(float64(item.Quantity))
		if item.IsLow() {
			low++
		}
	}
	m.LowStockItems.Set(float64(low))
}
