package monitor

import (
	"autobay/domain"
	"autobay/domain/shop"
	"autobay/infra/metrics"
	"sync"

	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Report struct {
	LowStock  []domain.StockItem
	NewlyLow  []string
	Replenish []string
	Live      int
	Queued    int
}

// StockMonitor periodically inspects stock and queue depth, warning once when a part
// drops below its minimum and again only after it recovered.
type StockMonitor struct {
	repo    *shop.Repository
	metrics *metrics.Metrics

	lock sync.Mutex
	low  map[string]bool
}

func NewStockMonitor(repo *shop.Repository, m *metrics.Metrics) *StockMonitor {
	return &StockMonitor{repo: repo, metrics: m, low: map[string]bool{}}
}

// StartCron schedules Inspect with a standard cron spec; an empty spec disables the monitor.
func (sm *StockMonitor) StartCron(spec string) (*cron.Cron, error) {
	if spec == "" {
		logrus.Info("stock monitor is disabled")
		return nil, nil
	}
	crontab := cron.New()
	if _, err := crontab.AddFunc(spec, func() { sm.Inspect() }); err != nil {
		return nil, err
	}
	crontab.Start()
	logrus.WithField("spec", spec).Info("stock monitor started")
	return crontab, nil
}

func (sm *StockMonitor) Inspect() *Report {
	items := sm.repo.StockItems()
	live, queued := sm.repo.Counts()
	r := &Report{LowStock: []domain.StockItem{}, NewlyLow: []string{}, Replenish: []string{}, Live: live, Queued: queued}

	sm.lock.Lock()
	for _, item := range items {
		if item.IsLow() {
			r.LowStock = append(r.LowStock, item)
			if !sm.low[item.PartName] {
				sm.low[item.PartName] = true
				r.NewlyLow = append(r.NewlyLow, item.PartName)
				logrus.WithFields(logrus.Fields{
					"part":     item.PartName,
					"quantity": item.Quantity,
					"minimum":  item.MinimumStock,
				}).Warn("stock monitor: part is below its minimum")
			}
		} else if sm.low[item.PartName] {
			delete(sm.low, item.PartName)
			r.Replenish = append(r.Replenish, item.PartName)
			logrus.WithField("part", item.PartName).Info("stock monitor: part is replenished")
		}
	}
	sm.lock.Unlock()

	if queued > 0 {
		logrus.WithFields(logrus.Fields{"live": live, "queued": queued}).Info("stock monitor: work orders are waiting in queue")
	}
	if sm.metrics != nil {
		sm.metrics.ObserveShop(metrics.ShopSnapshot{Technicians: sm.repo.Technicians(), Bays: sm.repo.Bays(),
			Stock: items, Live: live, Queued: queued})
	}
	return r
}
