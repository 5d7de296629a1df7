package shop

import (
	"autobay/domain"
)

// State is the mutable shop aggregate. It is only reachable through
// Repository.Update and Repository.View; pointers obtained from it must not
// escape the callback.
type State struct {
	technicians []*domain.Technician
	bays        []*domain.ServiceBay
	stock       map[string]*domain.StockItem
	stockOrder  []string
	orders      map[string]*domain.WorkOrder
	orderSeq    []string
	receipts    []domain.Receipt
}

func newState() *State {
	return &State{stock: map[string]*domain.StockItem{}, orders: map[string]*domain.WorkOrder{}}
}

func (s *State) clone() *State {
	c := &State{
		technicians: make([]*domain.Technician, 0, len(s.technicians)),
		bays:        make([]*domain.ServiceBay, 0, len(s.bays)),
		stock:       make(map[string]*domain.StockItem, len(s.stock)),
		stockOrder:  append([]string{}, s.stockOrder...),
		orders:      make(map[string]*domain.WorkOrder, len(s.orders)),
		orderSeq:    append([]string{}, s.orderSeq...),
		// receipts are immutable, the capped slice forces a copy on append
		receipts: s.receipts[:len(s.receipts):len(s.receipts)],
	}
	for _, t := range s.technicians {
		tc := t.Clone()
		c.technicians = append(c.technicians, &tc)
	}
	for _, b := range s.bays {
		bc := b.Clone()
		c.bays = append(c.bays, &bc)
	}
	for name, item := range s.stock {
		ic := *item
		c.stock[name] = &ic
	}
	for id, o := range s.orders {
		oc := o.Clone()
		c.orders[id] = &oc
	}
	return c
}

func (s *State) addTechnician(t domain.Technician) {
	tc := t.Clone()
	tc.DeriveLoad()
	s.technicians = append(s.technicians, &tc)
}

func (s *State) addBay(b domain.ServiceBay) {
	bc := b.Clone()
	s.bays = append(s.bays, &bc)
}

func (s *State) addStock(item domain.StockItem) {
	if _, found := s.stock[item.PartName]; !found {
		s.stockOrder = append(s.stockOrder, item.PartName)
	}
	ic := item
	s.stock[item.PartName] = &ic
}

// Technicians returns copies in registration order.
func (s *State) Technicians() []domain.Technician {
	r := make([]domain.Technician, 0, len(s.technicians))
	for _, t := range s.technicians {
		r = append(r, t.Clone())
	}
	return r
}

func (s *State) Technician(id string) (*domain.Technician, bool) {
	for _, t := range s.technicians {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Bays returns copies in registration order.
func (s *State) Bays() []domain.ServiceBay {
	r := make([]domain.ServiceBay, 0, len(s.bays))
	for _, b := range s.bays {
		r = append(r, b.Clone())
	}
	return r
}

func (s *State) Bay(id string) (*domain.ServiceBay, bool) {
	for _, b := range s.bays {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (s *State) Get(partName string) (domain.StockItem, bool) {
	item, found := s.stock[partName]
	if !found {
		return domain.StockItem{}, false
	}
	return *item, true
}

// SetQuantity clamps negative quantities to zero. Unknown parts are ignored.
func (s *State) SetQuantity(partName string, quantity int) {
	item, found := s.stock[partName]
	if !found {
		return
	}
	if quantity < 0 {
		quantity = 0
	}
	item.Quantity = quantity
}

func (s *State) StockItems() []domain.StockItem {
	r := make([]domain.StockItem, 0, len(s.stockOrder))
	for _, name := range s.stockOrder {
		r = append(r, *s.stock[name])
	}
	return r
}

func (s *State) WorkOrder(id string) (*domain.WorkOrder, bool) {
	o, found := s.orders[id]
	return o, found
}

func (s *State) HasWorkOrder(id string) bool {
	_, found := s.orders[id]
	return found
}

// WorkOrders returns copies of the live orders in creation order.
func (s *State) WorkOrders() []domain.WorkOrder {
	r := make([]domain.WorkOrder, 0, len(s.orderSeq))
	for _, id := range s.orderSeq {
		r = append(r, s.orders[id].Clone())
	}
	return r
}

func (s *State) LiveOrderCount() int {
	return len(s.orders)
}

func (s *State) QueuedOrderCount() int {
	n := 0
	for _, o := range s.orders {
		if o.IsQueued() {
			n++
		}
	}
	return n
}

func (s *State) InsertWorkOrder(o domain.WorkOrder) {
	if _, found := s.orders[o.ID]; !found {
		s.orderSeq = append(s.orderSeq, o.ID)
	}
	oc := o.Clone()
	s.orders[o.ID] = &oc
}

func (s *State) RemoveWorkOrder(id string) bool {
	if _, found := s.orders[id]; !found {
		return false
	}
	delete(s.orders, id)
	for i, oid := range s.orderSeq {
		if oid == id {
			s.orderSeq = append(s.orderSeq[:i:i], s.orderSeq[i+1:]...)
			break
		}
	}
	return true
}

func (s *State) AppendReceipt(r domain.Receipt) {
	s.receipts = append(s.receipts, r.Clone())
}

func (s *State) HasReceipt(serviceID string) bool {
	for _, r := range s.receipts {
		if r.ServiceID == serviceID {
			return true
		}
	}
	return false
}

func (s *State) Receipts() []domain.Receipt {
	r := make([]domain.Receipt, 0, len(s.receipts))
	for _, rec := range s.receipts {
		r = append(r, rec.Clone())
	}
	return r
}
