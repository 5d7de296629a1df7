package workorder

import (
	"autobay/common"
	"autobay/domain"
	"autobay/domain/allocate"
	"autobay/domain/catalog"
	"autobay/domain/estimate"
	"autobay/domain/schedule"
	"autobay/domain/shop"
	"autobay/domain/state"
	"autobay/infra/metrics"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

type WorkOrderManagerTraits interface {
	CreateWorkOrder(ctx context.Context, intake *domain.Intake) (*domain.WorkOrderResult, error)
	CompleteWorkOrder(ctx context.Context, serviceID string) (*domain.Receipt, error)
	UpdateProgress(ctx context.Context, serviceID string, u *domain.ProgressUpdating) (*domain.WorkOrder, error)
	DetailWorkOrder(ctx context.Context, serviceID string) (*domain.WorkOrder, error)
	QueryWorkOrders(ctx context.Context, q *domain.WorkOrderQuery) ([]domain.WorkOrder, error)
	QueryReceipts(ctx context.Context) ([]domain.Receipt, error)
}

type Settings struct {
	ServiceIDPrefix string
	ShopCapacity    int
	HourlyRate      float64
	Hours           schedule.BusinessHours

	Metrics *metrics.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

type Manager struct {
	repo      *shop.Repository
	estimator *estimate.Estimator
	settings  Settings
	idWorker  *sonyflake.Sonyflake
}

func NewManager(repo *shop.Repository, c catalog.Catalog, settings Settings) *Manager {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.ServiceIDPrefix == "" {
		settings.ServiceIDPrefix = DefaultServiceIDPrefix
	}
	if settings.ShopCapacity <= 0 {
		settings.ShopCapacity = allocate.DefaultShopCapacity
	}
	return &Manager{
		repo:      repo,
		estimator: estimate.NewEstimator(c, settings.Now),
		settings:  settings,
		idWorker:  common.NewIdWorker(),
	}
}

// CreateWorkOrder estimates, allocates and schedules the intake in one critical
// section of the repository, so concurrent intakes never decide on the same free slot.
func (m *Manager) CreateWorkOrder(ctx context.Context, intake *domain.Intake) (*domain.WorkOrderResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "CreateWorkOrder")
	defer span.Finish()

	now := m.settings.Now().In(m.location())
	var created domain.WorkOrder
	var result *domain.WorkOrderResult

	err := m.repo.Update(func(s *shop.State) error {
		live, queued := s.LiveOrderCount(), s.QueuedOrderCount()

		est, err := m.estimator.Estimate(intake.SelectedTasks, intake.Signals(), live)
		if err != nil {
			return err
		}

		plan := allocate.Allocate(
			allocate.Request{PredictedHours: est.PredictedHours, RequiredSkill: est.RequiredSkill},
			allocate.Snapshot{Technicians: s.Technicians(), Bays: s.Bays(), LiveOrders: live,
				QueuedOrders: queued, ShopCapacity: m.settings.ShopCapacity})

		id := nextServiceID(m.settings.ServiceIDPrefix, now, plan.TechnicianIDs, s)
		if err := allocate.Commit(plan, id, s); err != nil {
			return err
		}

		warnings := []string{}
		for _, name := range est.SkippedTasks {
			warnings = append(warnings, fmt.Sprintf("task '%s' is not in the catalog and was skipped", name))
		}
		warnings = append(warnings, plan.Warnings...)
		warnings = append(warnings, allocate.ReserveParts(est.RequiredParts, s)...)

		created = domain.WorkOrder{
			ID:                    id,
			CustomerName:          intake.CustomerName,
			CustomerPhone:         intake.CustomerPhone,
			Vehicle:               intake.Vehicle,
			ServicePackage:        intake.Service.Package,
			SelectedTasks:         append([]string{}, intake.SelectedTasks...),
			RequiredSkill:         est.RequiredSkill,
			PredictedHours:        est.PredictedHours,
			AssignedTechnicianIDs: append([]string{}, plan.TechnicianIDs...),
			AssignedBayID:         plan.BayID,
			Status:                domain.StatusInProgress,
			EstimatedCompletion:   m.settings.Hours.Project(now, est.PredictedHours),
			ActualStartTime:       now,
			CreateTime:            now,
		}
		if plan.Queued {
			position := plan.QueuePosition
			created.Status = domain.StatusQueued
			created.QueuePosition = &position
			created.AssignedBayLabel = domain.QueuedBay
		} else if bay, found := s.Bay(plan.BayID); found {
			created.AssignedBayLabel = bay.Label()
		}
		s.InsertWorkOrder(created)

		result = &domain.WorkOrderResult{
			ServiceID:               created.ID,
			Status:                  created.Status,
			PredictedHours:          created.PredictedHours,
			AssignedTechnicianNames: technicianNames(s, created.AssignedTechnicianIDs),
			AssignedBay:             created.AssignedBayLabel,
			EstimatedCompletion:     created.EstimatedCompletion,
			QueuePosition:           created.Clone().QueuePosition,
			Warnings:                warnings,
		}
		return nil
	})
	if err != nil {
		span.SetTag("error", true)
		return nil, err
	}

	span.SetTag("service.id", created.ID)
	span.SetTag("work_order.status", string(created.Status))
	logrus.WithFields(logrus.Fields{
		"serviceId":      created.ID,
		"status":         created.Status,
		"predictedHours": created.PredictedHours,
		"bay":            created.AssignedBayLabel,
		"warnings":       len(result.Warnings),
	}).Info("work order created")

	publishCreated(ctx, &created)
	m.settings.Metrics.RecordWorkOrderCreated(result)
	m.observeShop()
	return result, nil
}

// CompleteWorkOrder releases exactly the slots the order holds, records its
// receipt and drops it from the live set.
func (m *Manager) CompleteWorkOrder(ctx context.Context, serviceID string) (*domain.Receipt, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "CompleteWorkOrder")
	defer span.Finish()
	span.SetTag("service.id", serviceID)

	now := m.settings.Now().In(m.location())
	var completed domain.WorkOrder
	var receipt domain.Receipt

	err := m.repo.Update(func(s *shop.State) error {
		o, found := s.WorkOrder(serviceID)
		if !found {
			return fmt.Errorf("work order '%s': %w", serviceID, domain.ErrNotFound)
		}
		if !state.WorkOrderLifecycle.CanTransit(string(o.Status), string(domain.StatusCompleted)) {
			return fmt.Errorf("work order '%s' is %s and cannot be completed: %w", serviceID, o.Status, domain.ErrInvalidState)
		}
		completed = o.Clone()

		receipt = domain.Receipt{
			ID:              common.NextId(m.idWorker),
			ServiceID:       completed.ID,
			CustomerName:    completed.CustomerName,
			VehicleSummary:  completed.Vehicle.Summary(),
			TaskSummary:     domain.TaskSummary(completed.SelectedTasks),
			PredictedHours:  completed.PredictedHours,
			TechnicianNames: technicianNames(s, completed.AssignedTechnicianIDs),
			BayLabel:        completed.AssignedBayLabel,
			CompletedAt:     now,
			BilledAmount:    billedAmount(completed.PredictedHours, m.settings.HourlyRate),
		}

		allocate.Release(completed, s.WorkOrders(), s)
		s.AppendReceipt(receipt)
		s.RemoveWorkOrder(completed.ID)
		return nil
	})
	if err != nil {
		span.SetTag("error", true)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"serviceId":    receipt.ServiceID,
		"billedAmount": receipt.BilledAmount,
	}).Info("work order completed")

	if err := ArchiveReceiptFunc(ctx, &receipt); err != nil {
		logrus.WithError(err).WithField("serviceId", receipt.ServiceID).Warn("failed to archive receipt")
	}
	publishCompleted(ctx, &completed, &receipt)
	m.settings.Metrics.RecordWorkOrderCompleted(&receipt)
	m.observeShop()
	return &receipt, nil
}

// UpdateProgress advances progress monotonically; reaching 100 moves the order to Completing.
func (m *Manager) UpdateProgress(ctx context.Context, serviceID string, u *domain.ProgressUpdating) (*domain.WorkOrder, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "UpdateProgress")
	defer span.Finish()
	span.SetTag("service.id", serviceID)

	if u.Progress < 0 || u.Progress > 100 {
		return nil, &common.ErrBadParam{Cause: fmt.Errorf("progress %d is out of range [0, 100]", u.Progress)}
	}

	var before, after domain.WorkOrder
	err := m.repo.Update(func(s *shop.State) error {
		o, found := s.WorkOrder(serviceID)
		if !found {
			return fmt.Errorf("work order '%s': %w", serviceID, domain.ErrNotFound)
		}
		if o.Status != domain.StatusInProgress && o.Status != domain.StatusCompleting {
			return fmt.Errorf("work order '%s' is %s, progress cannot be updated: %w", serviceID, o.Status, domain.ErrInvalidState)
		}
		if u.Progress < o.Progress {
			return fmt.Errorf("progress of work order '%s' cannot go back from %d to %d: %w",
				serviceID, o.Progress, u.Progress, domain.ErrInvalidState)
		}
		before = o.Clone()

		o.Progress = u.Progress
		if o.Progress >= 100 && o.Status == domain.StatusInProgress {
			if !state.WorkOrderLifecycle.CanTransit(string(o.Status), string(domain.StatusCompleting)) {
				return fmt.Errorf("work order '%s': %w", serviceID, domain.ErrInvalidState)
			}
			o.Status = domain.StatusCompleting
		}
		after = o.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishProgressUpdated(ctx, &before, &after)
	return &after, nil
}

func (m *Manager) DetailWorkOrder(ctx context.Context, serviceID string) (*domain.WorkOrder, error) {
	o, err := m.repo.WorkOrder(serviceID)
	if err != nil {
		return nil, fmt.Errorf("work order '%s': %w", serviceID, err)
	}
	return o, nil
}

func (m *Manager) QueryWorkOrders(ctx context.Context, q *domain.WorkOrderQuery) ([]domain.WorkOrder, error) {
	orders := m.repo.WorkOrders()
	if q == nil || q.Status == "" {
		return orders, nil
	}

	status, err := domain.ParseWorkOrderStatus(string(q.Status))
	if err != nil {
		return nil, &common.ErrBadParam{Cause: err}
	}
	r := []domain.WorkOrder{}
	for _, o := range orders {
		if o.Status == status {
			r = append(r, o)
		}
	}
	return r, nil
}

func (m *Manager) QueryReceipts(ctx context.Context) ([]domain.Receipt, error) {
	return m.repo.Receipts(), nil
}

func (m *Manager) location() *time.Location {
	if m.settings.Hours.Location != nil {
		return m.settings.Hours.Location
	}
	return time.Local
}

func (m *Manager) observeShop() {
	if m.settings.Metrics == nil {
		return
	}
	live, queued := m.repo.Counts()
	m.settings.Metrics.ObserveShop(metrics.ShopSnapshot{
		Technicians: m.repo.Technicians(),
		Bays:        m.repo.Bays(),
		Stock:       m.repo.StockItems(),
		Live:        live,
		Queued:      queued,
	})
}

func technicianNames(s *shop.State, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, found := s.Technician(id); found {
			names = append(names, t.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

func billedAmount(hours, rate float64) float64 {
	return math.Round(hours*rate*100) / 100
}
