package shoprest

import (
	"autobay/common"
	"autobay/domain"
	"autobay/domain/catalog"
	"autobay/domain/shop"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	PathTechnicians  = "/v1/technicians"
	PathServiceBays  = "/v1/service-bays"
	PathStockItems   = "/v1/stock-items"
	PathCatalogTasks = "/v1/tasks"
)

type TechnicianView struct {
	domain.Technician
	Status domain.TechnicianStatus `json:"status"`
}

type ServiceBayView struct {
	domain.ServiceBay
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

type StockItemView struct {
	domain.StockItem
	Low bool `json:"low"`
}

func RegisterShopRestAPI(r *gin.Engine, repo *shop.Repository, c catalog.Catalog, middleWares ...gin.HandlerFunc) {
	h := &shopHandler{repo: repo, catalog: c}
	g := r.Group("", middleWares...)
	g.GET(PathTechnicians, h.handleQueryTechnicians)
	g.GET(PathServiceBays, h.handleQueryBays)
	g.GET(PathStockItems, h.handleQueryStock)
	g.GET(PathCatalogTasks, h.handleQueryTasks)
}

type shopHandler struct {
	repo    *shop.Repository
	catalog catalog.Catalog
}

// handleQueryTechnicians supports ?skill= filtering.
func (h *shopHandler) handleQueryTechnicians(c *gin.Context) {
	var skill domain.Skill
	if v := c.Query("skill"); v != "" {
		parsed, err := domain.ParseSkill(v)
		if err != nil {
			panic(&common.ErrBadParam{Cause: err})
		}
		skill = parsed
	}

	r := []TechnicianView{}
	for _, t := range h.repo.Technicians() {
		if skill != "" && t.Skill != skill {
			continue
		}
		r = append(r, TechnicianView{Technician: t, Status: t.Status()})
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: r, Total: uint64(len(r))})
}

func (h *shopHandler) handleQueryBays(c *gin.Context) {
	r := []ServiceBayView{}
	for _, b := range h.repo.Bays() {
		r = append(r, ServiceBayView{ServiceBay: b, Label: b.Label(),
			Available: b.IsAvailable() && b.CurrentLoad < domain.BayLoadCeiling})
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: r, Total: uint64(len(r))})
}

// handleQueryStock supports ?low=true to list only items below their minimum.
func (h *shopHandler) handleQueryStock(c *gin.Context) {
	onlyLow := false
	if v := c.Query("low"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			panic(&common.ErrBadParam{Cause: err})
		}
		onlyLow = parsed
	}

	r := []StockItemView{}
	for _, s := range h.repo.StockItems() {
		if onlyLow && !s.IsLow() {
			continue
		}
		r = append(r, StockItemView{StockItem: s, Low: s.IsLow()})
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: r, Total: uint64(len(r))})
}

func (h *shopHandler) handleQueryTasks(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	r := []domain.TaskCatalogEntry{}
	for _, e := range h.catalog.Entries() {
		if category != "" && !strings.EqualFold(string(e.Category), category) {
			continue
		}
		r = append(r, e)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: r, Total: uint64(len(r))})
}
