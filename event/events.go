package event

import (
	"autobay/common"

	"github.com/fundwit/go-commons/types"
)

var eventIdWorker = common.NewIdWorker()

func CreateEvent(sourceType string, sourceId string, sourceDesc string, category EventCategory,
	updatedProperties []UpdatedProperty, timestamp types.Timestamp) *EventRecord {

	return &EventRecord{
		ID: common.NextId(eventIdWorker),
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,
		},
		Synced:    false,
		Timestamp: timestamp,
	}
}
