package shop_test

import (
	"autobay/domain"
	"autobay/domain/shop"
	"errors"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
)

func TestRepositoryUpdate(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should commit changes when callback succeeds", func(t *testing.T) {
		repo := shop.NewRepository(shop.DefaultFixtures())
		err := repo.Update(func(s *shop.State) error {
			tech, found := s.Technician("eng-ravi")
			Expect(found).To(BeTrue())
			tech.ActiveJobIDs = append(tech.ActiveJobIDs, "SRV_1")
			s.SetQuantity("Brake Pads", 3)
			s.InsertWorkOrder(domain.WorkOrder{ID: "SRV_1", Status: domain.StatusInProgress})
			return nil
		})
		Expect(err).To(BeNil())

		Expect(repo.Technicians()[0].ActiveJobIDs).To(Equal([]string{"SRV_1"}))
		o, err := repo.WorkOrder("SRV_1")
		Expect(err).To(BeNil())
		Expect(o.Status).To(Equal(domain.StatusInProgress))
		for _, item := range repo.StockItems() {
			if item.PartName == "Brake Pads" {
				Expect(item.Quantity).To(Equal(3))
			}
		}
	})

	t.Run("should discard every change when callback fails", func(t *testing.T) {
		repo := shop.NewRepository(shop.DefaultFixtures())
		failure := errors.New("abort")
		err := repo.Update(func(s *shop.State) error {
			bay, _ := s.Bay("bay-1")
			bay.CurrentLoad = 100
			s.InsertWorkOrder(domain.WorkOrder{ID: "SRV_X", Status: domain.StatusQueued})
			s.AppendReceipt(domain.Receipt{ServiceID: "SRV_X"})
			return failure
		})
		Expect(err).To(Equal(failure))

		Expect(repo.Bays()[0].CurrentLoad).To(Equal(0))
		_, err = repo.WorkOrder("SRV_X")
		Expect(err).To(Equal(domain.ErrNotFound))
		Expect(repo.Receipts()).To(BeEmpty())
		live, queued := repo.Counts()
		Expect(live).To(BeZero())
		Expect(queued).To(BeZero())
	})

	t.Run("should not leak mutable references to callers", func(t *testing.T) {
		repo := shop.NewRepository(shop.DefaultFixtures())
		Expect(repo.Update(func(s *shop.State) error {
			s.InsertWorkOrder(domain.WorkOrder{ID: "SRV_2", SelectedTasks: []string{"Oil Change"}})
			return nil
		})).To(BeNil())

		techs := repo.Technicians()
		techs[0].LoadPercent = 99
		Expect(repo.Technicians()[0].LoadPercent).To(Equal(0))

		o, _ := repo.WorkOrder("SRV_2")
		o.SelectedTasks[0] = "changed"
		again, _ := repo.WorkOrder("SRV_2")
		Expect(again.SelectedTasks).To(Equal([]string{"Oil Change"}))
	})

	t.Run("should keep receipts of committed updates only", func(t *testing.T) {
		repo := shop.NewRepository(shop.DefaultFixtures())
		Expect(repo.Update(func(s *shop.State) error {
			s.AppendReceipt(domain.Receipt{ServiceID: "A"})
			return nil
		})).To(BeNil())
		_ = repo.Update(func(s *shop.State) error {
			s.AppendReceipt(domain.Receipt{ServiceID: "B"})
			return errors.New("rollback")
		})
		Expect(repo.Update(func(s *shop.State) error {
			s.AppendReceipt(domain.Receipt{ServiceID: "C"})
			return nil
		})).To(BeNil())

		receipts := repo.Receipts()
		Expect(len(receipts)).To(Equal(2))
		Expect(receipts[0].ServiceID).To(Equal("A"))
		Expect(receipts[1].ServiceID).To(Equal("C"))
	})

	t.Run("should serialize concurrent updates", func(t *testing.T) {
		repo := shop.NewRepository(shop.DefaultFixtures())
		wg := sync.WaitGroup{}
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = repo.Update(func(s *shop.State) error {
					item, _ := s.Get("Engine Oil")
					s.SetQuantity("Engine Oil", item.Quantity-1)
					return nil
				})
			}()
		}
		wg.Wait()
		for _, item := range repo.StockItems() {
			if item.PartName == "Engine Oil" {
				Expect(item.Quantity).To(BeZero())
			}
		}
	})
}

func TestStateOrders(t *testing.T) {
	RegisterTestingT(t)

	repo := shop.NewRepository(shop.DefaultFixtures())
	Expect(repo.Update(func(s *shop.State) error {
		s.InsertWorkOrder(domain.WorkOrder{ID: "A", Status: domain.StatusInProgress})
		s.InsertWorkOrder(domain.WorkOrder{ID: "B", Status: domain.StatusQueued})
		s.InsertWorkOrder(domain.WorkOrder{ID: "C", Status: domain.StatusQueued})
		Expect(s.RemoveWorkOrder("B")).To(BeTrue())
		Expect(s.RemoveWorkOrder("B")).To(BeFalse())
		Expect(s.HasWorkOrder("A")).To(BeTrue())
		return nil
	})).To(BeNil())

	orders := repo.WorkOrders()
	Expect(len(orders)).To(Equal(2))
	Expect(orders[0].ID).To(Equal("A"))
	Expect(orders[1].ID).To(Equal("C"))

	live, queued := repo.Counts()
	Expect(live).To(Equal(2))
	Expect(queued).To(Equal(1))
}

func TestStockCollaborator(t *testing.T) {
	RegisterTestingT(t)

	repo := shop.NewRepository(shop.DefaultFixtures())
	Expect(repo.View(func(s *shop.State) error {
		item, found := s.Get("Battery")
		Expect(found).To(BeTrue())
		Expect(item).To(Equal(domain.StockItem{PartName: "Battery", Quantity: 6, MinimumStock: 2}))
		_, found = s.Get("Unobtainium")
		Expect(found).To(BeFalse())
		return nil
	})).To(BeNil())

	Expect(repo.Update(func(s *shop.State) error {
		s.SetQuantity("Battery", -4)
		s.SetQuantity("Unobtainium", 3)
		return nil
	})).To(BeNil())

	Expect(repo.View(func(s *shop.State) error {
		item, _ := s.Get("Battery")
		Expect(item.Quantity).To(BeZero())
		_, found := s.Get("Unobtainium")
		Expect(found).To(BeFalse())
		return nil
	})).To(BeNil())
}
