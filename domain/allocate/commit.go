package allocate

import (
	"autobay/domain"
	"errors"
	"fmt"
)

var ErrCapacityExceeded = errors.New("capacity exceeded")

// Resources is the mutable side of the repository used to apply a plan.
type Resources interface {
	Technician(id string) (*domain.Technician, bool)
	Bay(id string) (*domain.ServiceBay, bool)
}

// Commit applies a non-queued plan for the given order.
func Commit(plan Plan, orderID string, res Resources) error {
	if plan.Queued {
		return nil
	}
	for _, id := range plan.TechnicianIDs {
		t, found := res.Technician(id)
		if !found {
			return fmt.Errorf("technician '%s': %w", id, domain.ErrNotFound)
		}
		if !t.HasCapacity() {
			return fmt.Errorf("technician '%s': %w", id, ErrCapacityExceeded)
		}
		t.ActiveJobIDs = append(t.ActiveJobIDs, orderID)
		t.DeriveLoad()
	}

	bay, found := res.Bay(plan.BayID)
	if !found {
		return fmt.Errorf("service bay '%s': %w", plan.BayID, domain.ErrNotFound)
	}
	for _, id := range plan.TechnicianIDs {
		if bay.HasTechnician(id) {
			continue
		}
		if len(bay.AssignedTechnicianIDs) >= domain.MaxActiveJobs {
			return fmt.Errorf("service bay '%s': %w", bay.ID, ErrCapacityExceeded)
		}
		bay.AssignedTechnicianIDs = append(bay.AssignedTechnicianIDs, id)
	}
	bay.CurrentLoad = min(100, bay.CurrentLoad+domain.BayLoadShare)
	return nil
}

// Release frees exactly the slots held by order. others are the remaining live
// orders; a technician stays on the bay while another of them still uses it there.
func Release(order domain.WorkOrder, others []domain.WorkOrder, res Resources) {
	for _, id := range order.AssignedTechnicianIDs {
		t, found := res.Technician(id)
		if !found || !t.HoldsJob(order.ID) {
			continue
		}
		t.ActiveJobIDs = removeString(t.ActiveJobIDs, order.ID)
		t.DeriveLoad()
	}

	if order.AssignedBayID == "" || order.AssignedBayID == domain.QueuedBay {
		return
	}
	bay, found := res.Bay(order.AssignedBayID)
	if !found {
		return
	}
	for _, id := range order.AssignedTechnicianIDs {
		if !stillWorksInBay(id, bay.ID, order.ID, others) {
			bay.AssignedTechnicianIDs = removeString(bay.AssignedTechnicianIDs, id)
		}
	}
	bay.CurrentLoad = max(0, bay.CurrentLoad-domain.BayLoadShare)
}

func stillWorksInBay(technicianID, bayID, excludedOrderID string, orders []domain.WorkOrder) bool {
	for _, o := range orders {
		if o.ID == excludedOrderID || o.AssignedBayID != bayID {
			continue
		}
		for _, id := range o.AssignedTechnicianIDs {
			if id == technicianID {
				return true
			}
		}
	}
	return false
}

func removeString(values []string, v string) []string {
	r := make([]string, 0, len(values))
	for _, s := range values {
		if s != v {
			r = append(r, s)
		}
	}
	return r
}
