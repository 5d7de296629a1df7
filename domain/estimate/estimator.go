package estimate

import (
	"autobay/domain"
	"autobay/domain/catalog"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// shop-load additive terms, in hours
	busyShopOrders    = 4
	busyShopHours     = 0.2
	crowdedShopOrders = 6
	crowdedShopHours  = 0.3

	errorCodeFactor = 0.25
)

type Estimate struct {
	BaseHours           float64                   `json:"baseHours"`
	ConditionFactor     float64                   `json:"conditionFactor"`
	ConditionAdjustment float64                   `json:"conditionAdjustment"`
	ShopLoadHours       float64                   `json:"shopLoadHours"`
	PredictedHours      float64                   `json:"predictedHours"`
	Tasks               []domain.TaskCatalogEntry `json:"tasks"`
	RequiredSkill       domain.Skill              `json:"requiredSkill"`
	RequiredParts       []string                  `json:"requiredParts"`
	SkippedTasks        []string                  `json:"skippedTasks"`
}

type Estimator struct {
	catalog catalog.Catalog
	now     func() time.Time
}

func NewEstimator(c catalog.Catalog, now func() time.Time) *Estimator {
	if now == nil {
		now = time.Now
	}
	return &Estimator{catalog: c, now: now}
}

// Estimate predicts the job duration in hours. Unknown task names are skipped
// and reported in SkippedTasks; if nothing resolves ErrNoKnownTasks is returned.
func (e *Estimator) Estimate(taskNames []string, signals domain.Signals, activeOrders int) (*Estimate, error) {
	r := &Estimate{RequiredSkill: domain.SkillGeneral, Tasks: []domain.TaskCatalogEntry{},
		RequiredParts: []string{}, SkippedTasks: []string{}}

	seenParts := map[string]bool{}
	for _, name := range taskNames {
		entry, found := e.catalog.Lookup(name)
		if !found {
			r.SkippedTasks = append(r.SkippedTasks, name)
			continue
		}
		r.Tasks = append(r.Tasks, entry)
		r.BaseHours += entry.BaseTimeHours
		if r.RequiredSkill == domain.SkillGeneral && entry.Category != domain.SkillGeneral {
			r.RequiredSkill = entry.Category
		}
		for _, part := range entry.RequiredParts {
			if !seenParts[part] {
				seenParts[part] = true
				r.RequiredParts = append(r.RequiredParts, part)
			}
		}
	}
	if len(r.SkippedTasks) > 0 {
		logrus.WithField("tasks", r.SkippedTasks).Warn("estimate: tasks not found in catalog are skipped")
	}
	if len(r.Tasks) == 0 {
		return nil, domain.ErrNoKnownTasks
	}

	r.ConditionFactor = ConditionFactor(signals, e.now().Year())
	r.ConditionAdjustment = r.BaseHours * r.ConditionFactor
	r.ShopLoadHours = ShopLoadHours(activeOrders)
	r.PredictedHours = r.BaseHours + r.ConditionAdjustment + r.ShopLoadHours
	return r, nil
}

// ConditionFactor sums the bounded per-signal contributions.
func ConditionFactor(s domain.Signals, currentYear int) float64 {
	c := s.Condition
	f := AgeFactor(currentYear - s.ManufactureYear)
	f += float64(100-clampPercent(c.HealthScore)) / 200
	f += c.RustLevel.Weight()
	f += c.BodyDamage.Weight()
	f += MileageFactor(c.KmSinceLastService)
	f += float64(len(c.ErrorCodes)) * errorCodeFactor
	if s.FuelType == domain.FuelElectric {
		f += float64(100-clampPercent(c.BatteryHealth)) / 300
	}
	f += float64(clampPercent(c.FluidDegradation)) / 300
	f += float64(clampPercent(c.WearScore)) / 300

	svc := s.Service
	f += svc.Package.Weight()
	f += svc.ApprovalSpeed.Weight()
	f += svc.Appointment.Weight()
	if svc.PeakHours {
		f += 0.08
	}
	f += svc.Weather.Weight()
	return f
}

func AgeFactor(ageYears int) float64 {
	switch {
	case ageYears > 10:
		return 0.2
	case ageYears > 5:
		return 0.1
	default:
		return 0
	}
}

func MileageFactor(kmSinceService int) float64 {
	switch {
	case kmSinceService > 10000:
		return 0.15
	case kmSinceService > 5000:
		return 0.08
	default:
		return 0
	}
}

func ShopLoadHours(activeOrders int) float64 {
	switch {
	case activeOrders >= crowdedShopOrders:
		return crowdedShopHours
	case activeOrders >= busyShopOrders:
		return busyShopHours
	default:
		return 0
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
