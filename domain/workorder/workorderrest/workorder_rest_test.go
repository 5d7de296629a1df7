package workorderrest_test

import (
	"autobay/bizerror"
	"autobay/common"
	"autobay/domain"
	"autobay/domain/workorder"
	"autobay/domain/workorder/workorderrest"
	"autobay/testinfra"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type workOrderManagerMock struct {
	CreateWorkOrderFunc   func(intake *domain.Intake) (*domain.WorkOrderResult, error)
	CompleteWorkOrderFunc func(serviceID string) (*domain.Receipt, error)
	UpdateProgressFunc    func(serviceID string, u *domain.ProgressUpdating) (*domain.WorkOrder, error)
	DetailWorkOrderFunc   func(serviceID string) (*domain.WorkOrder, error)
	QueryWorkOrdersFunc   func(q *domain.WorkOrderQuery) ([]domain.WorkOrder, error)
	QueryReceiptsFunc     func() ([]domain.Receipt, error)
}

func (m *workOrderManagerMock) CreateWorkOrder(ctx context.Context, intake *domain.Intake) (*domain.WorkOrderResult, error) {
	return m.CreateWorkOrderFunc(intake)
}
func (m *workOrderManagerMock) CompleteWorkOrder(ctx context.Context, serviceID string) (*domain.Receipt, error) {
	return m.CompleteWorkOrderFunc(serviceID)
}
func (m *workOrderManagerMock) UpdateProgress(ctx context.Context, serviceID string, u *domain.ProgressUpdating) (*domain.WorkOrder, error) {
	return m.UpdateProgressFunc(serviceID, u)
}
func (m *workOrderManagerMock) DetailWorkOrder(ctx context.Context, serviceID string) (*domain.WorkOrder, error) {
	return m.DetailWorkOrderFunc(serviceID)
}
func (m *workOrderManagerMock) QueryWorkOrders(ctx context.Context, q *domain.WorkOrderQuery) ([]domain.WorkOrder, error) {
	return m.QueryWorkOrdersFunc(q)
}
func (m *workOrderManagerMock) QueryReceipts(ctx context.Context) ([]domain.Receipt, error) {
	return m.QueryReceiptsFunc()
}

const intakeBody = `{"customerName":"Dana Reyes",
	"vehicle":{"make":"Toyota","model":"Corolla","year":2022,"licensePlate":"KA-1234","fuelType":"Hybrid"},
	"condition":{"healthScore":80,"rustLevel":"Minor","errorCodes":["P0420"]},
	"service":{"package":"Premium","appointment":"WalkIn"},
	"selectedTasks":["Oil Change"]}`

var _ = Describe("WorkOrderRestAPI", func() {
	var (
		router  *gin.Engine
		manager *workOrderManagerMock
		eta     = time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)
	)

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		manager = &workOrderManagerMock{}
		workorderrest.RegisterWorkOrdersRestAPI(router, manager)
	})

	Describe("handleCreate", func() {
		It("should create work order with the parsed intake", func() {
			var received *domain.Intake
			manager.CreateWorkOrderFunc = func(intake *domain.Intake) (*domain.WorkOrderResult, error) {
				received = intake
				return &domain.WorkOrderResult{ServiceID: "SRV_20240304090000_ENG", Status: domain.StatusInProgress,
					PredictedHours: 0.5, AssignedTechnicianNames: []string{"Ravi Kumar"}, AssignedBay: "Bay 1",
					EstimatedCompletion: eta, Warnings: []string{}}, nil
			}

			req := httptest.NewRequest(http.MethodPost, workorderrest.PathWorkOrders, strings.NewReader(intakeBody))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(MatchJSON(`{"serviceId":"SRV_20240304090000_ENG","status":"InProgress","predictedHours":0.5,
				"assignedTechnicianNames":["Ravi Kumar"],"assignedBay":"Bay 1",
				"estimatedCompletion":"2024-03-04T10:30:00Z","warnings":[]}`))

			Expect(received.CustomerName).To(Equal("Dana Reyes"))
			Expect(received.Vehicle.FuelType).To(Equal(domain.FuelHybrid))
			Expect(received.Condition.RustLevel).To(Equal(domain.RustMinor))
			Expect(received.Service.Package).To(Equal(domain.PackagePremium))
			Expect(received.Service.Appointment).To(Equal(domain.AppointmentWalkIn))
			Expect(received.SelectedTasks).To(Equal([]string{"Oil Change"}))
		})

		It("should reject intake failing validation", func() {
			req := httptest.NewRequest(http.MethodPost, workorderrest.PathWorkOrders, strings.NewReader(`{"selectedTasks":[]}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
			Expect(body).To(ContainSubstring(`'Intake.CustomerName' Error:Field validation for 'CustomerName' failed on the 'required' tag`))
		})

		It("should reject unknown categorical values", func() {
			req := httptest.NewRequest(http.MethodPost, workorderrest.PathWorkOrders,
				strings.NewReader(strings.Replace(intakeBody, `"Minor"`, `"Rusty"`, 1)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
			Expect(body).To(ContainSubstring(`Rusty`))
		})

		It("should map intake without known tasks to bad request", func() {
			manager.CreateWorkOrderFunc = func(intake *domain.Intake) (*domain.WorkOrderResult, error) {
				return nil, domain.ErrNoKnownTasks
			}
			req := httptest.NewRequest(http.MethodPost, workorderrest.PathWorkOrders, strings.NewReader(intakeBody))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"work_order.no_known_tasks","message":"none of the selected tasks is known","data":null}`))
		})

		It("should run intake middlewares before creating", func() {
			router = gin.Default()
			router.Use(bizerror.ErrorHandling())
			workorderrest.RegisterWorkOrdersRestAPI(router, manager, func(c *gin.Context) {
				panic(bizerror.ErrTooManyRequests)
			})
			called := false
			manager.CreateWorkOrderFunc = func(intake *domain.Intake) (*domain.WorkOrderResult, error) {
				called = true
				return nil, nil
			}
			req := httptest.NewRequest(http.MethodPost, workorderrest.PathWorkOrders, strings.NewReader(intakeBody))
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusTooManyRequests))
			Expect(called).To(BeFalse())
		})
	})

	Describe("handleQuery", func() {
		It("should pass the status filter", func() {
			var q *domain.WorkOrderQuery
			manager.QueryWorkOrdersFunc = func(query *domain.WorkOrderQuery) ([]domain.WorkOrder, error) {
				q = query
				return []domain.WorkOrder{{ID: "SRV_1", Status: domain.StatusQueued}}, nil
			}
			req := httptest.NewRequest(http.MethodGet, workorderrest.PathWorkOrders+"?status=Queued", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"total":1`))
			Expect(body).To(ContainSubstring(`"serviceId":"SRV_1"`))
			Expect(q.Status).To(Equal(domain.StatusQueued))
		})

		It("should report bad filters", func() {
			manager.QueryWorkOrdersFunc = func(query *domain.WorkOrderQuery) ([]domain.WorkOrder, error) {
				return nil, &common.ErrBadParam{Cause: errors.New("unknown work order status 'Parked'")}
			}
			req := httptest.NewRequest(http.MethodGet, workorderrest.PathWorkOrders+"?status=Parked", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"unknown work order status 'Parked'","data":null}`))
		})
	})

	Describe("handleDetail", func() {
		It("should respond not found", func() {
			manager.DetailWorkOrderFunc = func(id string) (*domain.WorkOrder, error) {
				return nil, fmt.Errorf("work order '%s': %w", id, domain.ErrNotFound)
			}
			req := httptest.NewRequest(http.MethodGet, workorderrest.PathWorkOrders+"/SRV_404", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
		})
	})

	Describe("handleUpdateProgress", func() {
		It("should update progress", func() {
			var id string
			var u *domain.ProgressUpdating
			manager.UpdateProgressFunc = func(serviceID string, updating *domain.ProgressUpdating) (*domain.WorkOrder, error) {
				id, u = serviceID, updating
				return &domain.WorkOrder{ID: serviceID, Progress: updating.Progress, Status: domain.StatusCompleting}, nil
			}
			req := httptest.NewRequest(http.MethodPut, workorderrest.PathWorkOrders+"/SRV_1/progress", strings.NewReader(`{"progress":100}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"status":"Completing"`))
			Expect(id).To(Equal("SRV_1"))
			Expect(u.Progress).To(Equal(100))
		})

		It("should validate the progress range", func() {
			req := httptest.NewRequest(http.MethodPut, workorderrest.PathWorkOrders+"/SRV_1/progress", strings.NewReader(`{"progress":120}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(ContainSubstring(`failed on the 'max' tag`))
		})

		It("should respond conflict on illegal moves", func() {
			manager.UpdateProgressFunc = func(serviceID string, updating *domain.ProgressUpdating) (*domain.WorkOrder, error) {
				return nil, fmt.Errorf("work order '%s' is Queued, progress cannot be updated: %w", serviceID, domain.ErrInvalidState)
			}
			req := httptest.NewRequest(http.MethodPut, workorderrest.PathWorkOrders+"/SRV_1/progress", strings.NewReader(`{"progress":10}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(MatchJSON(`{"code":"work_order.invalid_state",
				"message":"work order 'SRV_1' is Queued, progress cannot be updated: invalid state","data":null}`))
		})
	})

	Describe("handleComplete", func() {
		It("should answer with the receipt", func() {
			manager.CompleteWorkOrderFunc = func(serviceID string) (*domain.Receipt, error) {
				return &domain.Receipt{ID: 123, ServiceID: serviceID, CustomerName: "Dana Reyes", TaskSummary: "Oil Change",
					PredictedHours: 0.5, TechnicianNames: []string{"Ravi Kumar"}, BayLabel: "Bay 1",
					CompletedAt: eta, BilledAmount: 42.5}, nil
			}
			req := httptest.NewRequest(http.MethodPost, workorderrest.PathCompletedWorkOrders, strings.NewReader(`{"serviceId":"SRV_1"}`))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"id":"123","serviceId":"SRV_1","customerName":"Dana Reyes","vehicleSummary":"",
				"taskSummary":"Oil Change","predictedHours":0.5,"technicianNames":["Ravi Kumar"],"bayLabel":"Bay 1",
				"completedAt":"2024-03-04T10:30:00Z","billedAmount":42.5}`))
		})

		It("should require the service id", func() {
			req := httptest.NewRequest(http.MethodPost, workorderrest.PathCompletedWorkOrders, strings.NewReader(`{}`))
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("handleQueryReceipts", func() {
		AfterEach(func() {
			workorder.QueryArchivedReceiptsFunc = workorder.QueryArchivedReceipts
		})

		It("should list receipts in memory by default", func() {
			manager.QueryReceiptsFunc = func() ([]domain.Receipt, error) {
				return []domain.Receipt{{ID: 1, ServiceID: "SRV_1"}}, nil
			}
			req := httptest.NewRequest(http.MethodGet, workorderrest.PathReceipts, nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"total":1`))
		})

		It("should read the archive on request", func() {
			var limit int
			workorder.QueryArchivedReceiptsFunc = func(ctx context.Context, l int) ([]domain.Receipt, error) {
				limit = l
				return []domain.Receipt{}, nil
			}
			req := httptest.NewRequest(http.MethodGet, workorderrest.PathReceipts+"?archived=true&limit=20", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"list":[],"total":0}`))
			Expect(limit).To(Equal(20))

			req = httptest.NewRequest(http.MethodGet, workorderrest.PathReceipts+"?archived=true&limit=x", nil)
			status, _, _ = testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})
})
