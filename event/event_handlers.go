package event

import (
	"sync"

	"github.com/sirupsen/logrus"
)

/*
return nil if not support
*/
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var (
	handlersLock  sync.RWMutex
	eventHandlers []EventHandler
)

var InvokeHandlersFunc = invokeHandlers

func RegisterHandler(h EventHandler) {
	handlersLock.Lock()
	defer handlersLock.Unlock()
	eventHandlers = append(eventHandlers, h)
}

func ResetHandlers() {
	handlersLock.Lock()
	defer handlersLock.Unlock()
	eventHandlers = nil
}

func invokeHandlers(record *EventRecord) []EventHandleResult {
	handlersLock.RLock()
	handlers := append([]EventHandler{}, eventHandlers...)
	handlersLock.RUnlock()

	results := []EventHandleResult{}
	for _, handler := range handlers {
		logrus.Debug("pre handle event ", record.Event)
		r := handler(record)
		if r == nil {
			continue
		}
		results = append(results, *r)
		if r.Success {
			logrus.Info("post handle event. ", r)
		} else {
			logrus.Error("post handler error. ", r)
		}
	}
	return results
}

// LoggingHandler writes every event to the log.
func LoggingHandler(e *EventRecord) *EventHandleResult {
	logrus.WithFields(logrus.Fields{
		"sourceType": e.SourceType,
		"sourceId":   e.SourceId,
		"category":   e.EventCategory,
		"properties": len(e.UpdatedProperties),
	}).Info("work order event")
	return &EventHandleResult{Success: true, Message: "logged", HandlerIdentifier: "logging-handler"}
}
