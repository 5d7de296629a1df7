package workorderrest

import (
	"autobay/common"
	"autobay/domain"
	"autobay/domain/workorder"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	PathWorkOrders          = "/v1/work-orders"
	PathCompletedWorkOrders = "/v1/completed-work-orders"
	PathReceipts            = "/v1/receipts"
)

// RegisterWorkOrdersRestAPI mounts the work order routes. intakeMiddleWares guard only the
// create endpoint (rate limit, idempotency).
func RegisterWorkOrdersRestAPI(r *gin.Engine, m workorder.WorkOrderManagerTraits, intakeMiddleWares ...gin.HandlerFunc) {
	handler := &workOrderHandler{manager: m, validator: validator.New()}

	g := r.Group(PathWorkOrders)
	g.POST("", append(intakeMiddleWares, handler.handleCreate)...)
	g.GET("", handler.handleQuery)
	g.GET(":id", handler.handleDetail)
	g.PUT(":id/progress", handler.handleUpdateProgress)

	r.POST(PathCompletedWorkOrders, handler.handleComplete)
	r.GET(PathReceipts, handler.handleQueryReceipts)
}

type workOrderHandler struct {
	manager   workorder.WorkOrderManagerTraits
	validator *validator.Validate
}

func (h *workOrderHandler) handleCreate(c *gin.Context) {
	intake := domain.Intake{}
	if err := c.ShouldBindBodyWith(&intake, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(intake); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	result, err := h.manager.CreateWorkOrder(c.Request.Context(), &intake)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, result)
}

func (h *workOrderHandler) handleQuery(c *gin.Context) {
	query := domain.WorkOrderQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	orders, err := h.manager.QueryWorkOrders(c.Request.Context(), &query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: orders, Total: uint64(len(orders))})
}

func (h *workOrderHandler) handleDetail(c *gin.Context) {
	detail, err := h.manager.DetailWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *workOrderHandler) handleUpdateProgress(c *gin.Context) {
	updating := domain.ProgressUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	updated, err := h.manager.UpdateProgress(c.Request.Context(), c.Param("id"), &updating)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *workOrderHandler) handleComplete(c *gin.Context) {
	completion := domain.WorkOrderCompletion{}
	if err := c.ShouldBindBodyWith(&completion, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(completion); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	receipt, err := h.manager.CompleteWorkOrder(c.Request.Context(), completion.ServiceID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, receipt)
}

// handleQueryReceipts answers from memory, or from the archive with ?archived=true.
func (h *workOrderHandler) handleQueryReceipts(c *gin.Context) {
	var receipts []domain.Receipt
	var err error
	if archived, _ := strconv.ParseBool(c.Query("archived")); archived {
		limit := 100
		if v := c.Query("limit"); v != "" {
			if limit, err = strconv.Atoi(v); err != nil || limit <= 0 {
				panic(&common.ErrBadParam{Cause: errors.New("invalid limit '" + v + "'")})
			}
		}
		receipts, err = workorder.QueryArchivedReceiptsFunc(c.Request.Context(), limit)
	} else {
		receipts, err = h.manager.QueryReceipts(c.Request.Context())
	}
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: receipts, Total: uint64(len(receipts))})
}
