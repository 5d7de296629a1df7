package allocate

import (
	"autobay/domain"
	"fmt"
	"math"
	"sort"
)

const DefaultShopCapacity = 6

type Request struct {
	PredictedHours float64
	RequiredSkill  domain.Skill
}

// Snapshot is the read side of the repository the allocator decides against.
type Snapshot struct {
	Technicians  []domain.Technician
	Bays         []domain.ServiceBay
	LiveOrders   int
	QueuedOrders int
	ShopCapacity int
}

// Plan is an allocation decision. A queued plan holds no technician or bay slot.
type Plan struct {
	TechnicianIDs []string
	BayID         string
	Queued        bool
	QueuePosition int
	Warnings      []string
}

// TechniciansNeeded is one technician per two predicted hours, between 1 and 3.
func TechniciansNeeded(predictedHours float64) int {
	k := int(math.Ceil(predictedHours / 2))
	if k < 1 {
		return 1
	}
	if k > domain.MaxActiveJobs {
		return domain.MaxActiveJobs
	}
	return k
}

func Allocate(req Request, snap Snapshot) Plan {
	capacity := snap.ShopCapacity
	if capacity <= 0 {
		capacity = DefaultShopCapacity
	}
	plan := Plan{TechnicianIDs: []string{}, Warnings: []string{}}

	if snap.LiveOrders >= capacity {
		return queue(plan, snap, fmt.Sprintf("shop is at capacity (%d live orders)", snap.LiveOrders))
	}

	technicians, warning := selectTechnicians(req, snap.Technicians)
	if warning != "" {
		plan.Warnings = append(plan.Warnings, warning)
	}

	bay, crew, found := selectBay(snap.Bays, technicians)
	if !found {
		return queue(plan, snap, "no service bay is available")
	}
	if len(crew) < len(technicians) {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("%s has room for %d of %d technicians, crew reduced",
			bay.Label(), len(crew), len(technicians)))
		technicians = crew
	}

	for _, t := range technicians {
		plan.TechnicianIDs = append(plan.TechnicianIDs, t.ID)
	}
	plan.BayID = bay.ID
	return plan
}

func queue(plan Plan, snap Snapshot, reason string) Plan {
	plan.Queued = true
	plan.TechnicianIDs = []string{}
	plan.BayID = domain.QueuedBay
	plan.QueuePosition = snap.QueuedOrders + 1
	plan.Warnings = append(plan.Warnings, fmt.Sprintf("%s, request queued at position %d", reason, plan.QueuePosition))
	return plan
}

func selectTechnicians(req Request, all []domain.Technician) ([]domain.Technician, string) {
	candidates := []domain.Technician{}
	for _, t := range all {
		if !t.HasCapacity() {
			continue
		}
		if req.RequiredSkill == domain.SkillGeneral || req.RequiredSkill == "" || t.Skill == req.RequiredSkill {
			candidates = append(candidates, t)
		}
	}

	if len(candidates) == 0 {
		for _, t := range all {
			if t.HasCapacity() {
				return []domain.Technician{t}, fmt.Sprintf("no %s technician is available, %s assigned as fallback",
					req.RequiredSkill, t.Name)
			}
		}
		return []domain.Technician{}, "no technician has capacity, work order has no technician assigned"
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].LoadPercent != candidates[j].LoadPercent {
			return candidates[i].LoadPercent < candidates[j].LoadPercent
		}
		return candidates[i].Rating > candidates[j].Rating
	})

	k := TechniciansNeeded(req.PredictedHours)
	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k], ""
}

// selectBay prefers the least loaded bay that takes the whole crew. Failing that
// it takes the least loaded bay with any free slot and trims the crew to fit.
func selectBay(bays []domain.ServiceBay, technicians []domain.Technician) (domain.ServiceBay, []domain.Technician, bool) {
	fitting, partial := []domain.ServiceBay{}, []domain.ServiceBay{}
	for _, b := range bays {
		if !b.IsAvailable() || b.CurrentLoad >= domain.BayLoadCeiling {
			continue
		}
		if len(b.AssignedTechnicianIDs)+incoming(b, technicians) <= domain.MaxActiveJobs {
			fitting = append(fitting, b)
		} else {
			partial = append(partial, b)
		}
	}
	byLoad := func(bs []domain.ServiceBay) {
		sort.SliceStable(bs, func(i, j int) bool { return bs[i].CurrentLoad < bs[j].CurrentLoad })
	}
	if len(fitting) > 0 {
		byLoad(fitting)
		return fitting[0], technicians, true
	}
	if len(partial) == 0 {
		return domain.ServiceBay{}, nil, false
	}
	byLoad(partial)
	b := partial[0]
	free := domain.MaxActiveJobs - len(b.AssignedTechnicianIDs)
	crew := []domain.Technician{}
	for _, t := range technicians {
		if b.HasTechnician(t.ID) {
			crew = append(crew, t)
		} else if free > 0 {
			crew = append(crew, t)
			free--
		}
	}
	return b, crew, true
}

func incoming(b domain.ServiceBay, technicians []domain.Technician) int {
	n := 0
	for _, t := range technicians {
		if !b.HasTechnician(t.ID) {
			n++
		}
	}
	return n
}
