package shop

import (
	"autobay/domain"
	"sync"
)

// Repository owns technicians, bays, stock, live work orders and the
// completed-receipt log. All writes go through Update, which is all-or-nothing.
type Repository struct {
	lock  sync.RWMutex
	state *State
}

func NewRepository(f *Fixtures) *Repository {
	s := newState()
	if f != nil {
		for _, t := range f.Technicians {
			s.addTechnician(t)
		}
		for _, b := range f.Bays {
			s.addBay(b)
		}
		for _, item := range f.Stock {
			s.addStock(item)
		}
	}
	return &Repository{state: s}
}

// Update runs fn exclusively against a draft of the state. The draft replaces
// the current state only when fn returns nil.
func (r *Repository) Update(fn func(s *State) error) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	draft := r.state.clone()
	if err := fn(draft); err != nil {
		return err
	}
	r.state = draft
	return nil
}

// View runs fn against the current state under the read lock; fn must not mutate it.
func (r *Repository) View(fn func(s *State) error) error {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return fn(r.state)
}

func (r *Repository) Technicians() []domain.Technician {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state.Technicians()
}

func (r *Repository) Bays() []domain.ServiceBay {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state.Bays()
}

func (r *Repository) StockItems() []domain.StockItem {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state.StockItems()
}

func (r *Repository) WorkOrders() []domain.WorkOrder {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state.WorkOrders()
}

func (r *Repository) WorkOrder(id string) (*domain.WorkOrder, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	o, found := r.state.WorkOrder(id)
	if !found {
		return nil, domain.ErrNotFound
	}
	c := o.Clone()
	return &c, nil
}

func (r *Repository) Receipts() []domain.Receipt {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state.Receipts()
}

// Counts returns live and queued order counts from one consistent read.
func (r *Repository) Counts() (live, queued int) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state.LiveOrderCount(), r.state.QueuedOrderCount()
}
