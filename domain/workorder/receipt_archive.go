package workorder

import (
	"autobay/domain"
	"autobay/persistence"
	"context"
	"strings"

	"github.com/fundwit/go-commons/types"
)

var (
	ArchiveReceiptFunc        = archiveReceipt
	QueryArchivedReceiptsFunc = QueryArchivedReceipts
)

// ReceiptRecord is the archived form of a receipt.
type ReceiptRecord struct {
	ID              types.ID `gorm:"primary_key"`
	ServiceID       string   `gorm:"unique_index;size:64"`
	CustomerName    string   `gorm:"size:128"`
	VehicleSummary  string   `gorm:"size:255"`
	TaskSummary     string   `sql:"type:TEXT"`
	PredictedHours  float64
	TechnicianNames string          `gorm:"size:255"`
	BayLabel        string          `gorm:"size:32"`
	CompletedAt     types.Timestamp `sql:"type:DATETIME(6)"`
	BilledAmount    float64
}

func (r *ReceiptRecord) TableName() string {
	return "receipts"
}

func NewReceiptRecord(r *domain.Receipt) *ReceiptRecord {
	return &ReceiptRecord{
		ID:              r.ID,
		ServiceID:       r.ServiceID,
		CustomerName:    r.CustomerName,
		VehicleSummary:  r.VehicleSummary,
		TaskSummary:     r.TaskSummary,
		PredictedHours:  r.PredictedHours,
		TechnicianNames: strings.Join(r.TechnicianNames, ", "),
		BayLabel:        r.BayLabel,
		CompletedAt:     types.Timestamp(r.CompletedAt),
		BilledAmount:    r.BilledAmount,
	}
}

func (r *ReceiptRecord) Receipt() domain.Receipt {
	names := []string{}
	if r.TechnicianNames != "" {
		names = strings.Split(r.TechnicianNames, ", ")
	}
	return domain.Receipt{
		ID:              r.ID,
		ServiceID:       r.ServiceID,
		CustomerName:    r.CustomerName,
		VehicleSummary:  r.VehicleSummary,
		TaskSummary:     r.TaskSummary,
		PredictedHours:  r.PredictedHours,
		TechnicianNames: names,
		BayLabel:        r.BayLabel,
		CompletedAt:     r.CompletedAt.Time(),
		BilledAmount:    r.BilledAmount,
	}
}

// archiveReceipt is a no-op without an active data source.
func archiveReceipt(ctx context.Context, r *domain.Receipt) error {
	ds := persistence.ActiveDataSourceManager
	if ds == nil {
		return nil
	}
	db := ds.GormDB(ctx)
	if db == nil {
		return nil
	}
	return db.Create(NewReceiptRecord(r)).Error
}

// QueryArchivedReceipts reads archived receipts, newest first.
func QueryArchivedReceipts(ctx context.Context, limit int) ([]domain.Receipt, error) {
	ds := persistence.ActiveDataSourceManager
	if ds == nil {
		return []domain.Receipt{}, nil
	}
	db := ds.GormDB(ctx)
	if db == nil {
		return []domain.Receipt{}, nil
	}
	records := []ReceiptRecord{}
	q := db.Order("completed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	r := make([]domain.Receipt, 0, len(records))
	for _, rec := range records {
		r = append(r, rec.Receipt())
	}
	return r, nil
}
