package metrics

import (
	"autobay/domain"
	"autobay/testinfra"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	RegisterTestingT(t)

	t.Run("nil metrics should record nothing", func(t *testing.T) {
		var m *Metrics
		m.RecordHTTPRequest("GET", "/", 200, 0)
		m.RecordWorkOrderCreated(&domain.WorkOrderResult{})
		m.RecordWorkOrderCompleted(&domain.Receipt{})
		m.ObserveShop(ShopSnapshot{})
	})

	t.Run("should record work order results and receipts", func(t *testing.T) {
		m := New(DefaultConfig("autobay"))
		m.RecordWorkOrderCreated(&domain.WorkOrderResult{Status: domain.StatusInProgress, PredictedHours: 2, Warnings: []string{"a", "b"}})
		m.RecordWorkOrderCreated(&domain.WorkOrderResult{Status: domain.StatusQueued, PredictedHours: 1})
		m.RecordWorkOrderCompleted(&domain.Receipt{BilledAmount: 170})

		Expect(testutil.ToFloat64(m.WorkOrdersCreated.WithLabelValues("InProgress"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.WorkOrdersCreated.WithLabelValues("Queued"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.AllocationWarnings)).To(Equal(2.0))
		Expect(testutil.ToFloat64(m.WorkOrdersCompleted)).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.BilledAmount)).To(Equal(170.0))
	})

	t.Run("should set shop gauges", func(t *testing.T) {
		m := New(DefaultConfig("autobay"))
		m.ObserveShop(ShopSnapshot{
			Technicians: []domain.Technician{{ID: "eng-ravi", LoadPercent: 66}},
			Bays:        []domain.ServiceBay{{ID: "bay-1", BayNumber: 1, CurrentLoad: 50}},
			Stock:       []domain.StockItem{{PartName: "Battery", Quantity: 1, MinimumStock: 2}, {PartName: "Coolant", Quantity: 9, MinimumStock: 2}},
			Live:        4,
			Queued:      1,
		})
		Expect(testutil.ToFloat64(m.LiveWorkOrders)).To(Equal(4.0))
		Expect(testutil.ToFloat64(m.QueuedWorkOrders)).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.TechnicianLoad.WithLabelValues("eng-ravi"))).To(Equal(66.0))
		Expect(testutil.ToFloat64(m.BayLoad.WithLabelValues("Bay 1"))).To(Equal(50.0))
		Expect(testutil.ToFloat64(m.StockQuantity.WithLabelValues("Coolant"))).To(Equal(9.0))
		Expect(testutil.ToFloat64(m.LowStockItems)).To(Equal(1.0))
	})

	t.Run("middleware should count requests by route and expose them", func(t *testing.T) {
		m := New(DefaultConfig("autobay"))
		router := gin.New()
		router.Use(m.Middleware())
		router.GET("/v1/work-orders/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
		router.GET("/metrics", gin.WrapH(m.Handler()))

		status, _, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/v1/work-orders/abc", nil), router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/v1/work-orders/:id", "404"))).To(Equal(1.0))

		status, body, _ := testinfra.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(strings.Contains(body, "autobay_http_requests_total")).To(BeTrue())
	})
}
