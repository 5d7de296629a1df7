package event

import (
	"autobay/persistence"
	"context"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	EventPersistCreateFunc = eventPersistCreate
	PublishFunc            = Publish
)

func eventPersistCreate(record *EventRecord, db *gorm.DB) error {
	return db.Create(record).Error
}

// Publish stores the record when a data source is active, then fans it out
// to the registered handlers. Storage failures are logged and do not stop the fan-out.
func Publish(ctx context.Context, record *EventRecord) []EventHandleResult {
	if ds := persistence.ActiveDataSourceManager; ds != nil {
		if db := ds.GormDB(ctx); db != nil {
			if err := EventPersistCreateFunc(record, db); err != nil {
				logrus.WithError(err).WithField("sourceId", record.SourceId).Error("failed to store event")
			} else {
				record.Synced = true
			}
		}
	}
	if InvokeHandlersFunc == nil {
		return nil
	}
	return InvokeHandlersFunc(record)
}
