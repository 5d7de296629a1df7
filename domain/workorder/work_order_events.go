package workorder

import (
	"autobay/domain"
	"autobay/event"
	"context"
	"strconv"
	"strings"

	"github.com/fundwit/go-commons/types"
)

func publishCreated(ctx context.Context, o *domain.WorkOrder) {
	updates := []event.UpdatedProperty{
		{PropertyName: "Status", PropertyDesc: "Status", NewValue: string(o.Status), NewValueDesc: string(o.Status)},
		{PropertyName: "AssignedBay", PropertyDesc: "Assigned Bay", NewValue: o.AssignedBayID, NewValueDesc: o.AssignedBayLabel},
		{PropertyName: "AssignedTechnicians", PropertyDesc: "Assigned Technicians",
			NewValue: strings.Join(o.AssignedTechnicianIDs, ","), NewValueDesc: strings.Join(o.AssignedTechnicianIDs, ", ")},
		{PropertyName: "PredictedHours", PropertyDesc: "Predicted Hours",
			NewValue: formatHours(o.PredictedHours), NewValueDesc: formatHours(o.PredictedHours) + "h"},
	}
	record := event.CreateEvent(event.SourceTypeWorkOrder, o.ID, o.Vehicle.Summary(), event.EventCategoryCreated,
		updates, types.Timestamp(o.CreateTime))
	event.PublishFunc(ctx, record)
}

func publishProgressUpdated(ctx context.Context, before, after *domain.WorkOrder) {
	updates := []event.UpdatedProperty{{
		PropertyName: "Progress", PropertyDesc: "Progress",
		OldValue: strconv.Itoa(before.Progress), OldValueDesc: strconv.Itoa(before.Progress) + "%",
		NewValue: strconv.Itoa(after.Progress), NewValueDesc: strconv.Itoa(after.Progress) + "%",
	}}
	if before.Status != after.Status {
		updates = append(updates, event.UpdatedProperty{PropertyName: "Status", PropertyDesc: "Status",
			OldValue: string(before.Status), OldValueDesc: string(before.Status),
			NewValue: string(after.Status), NewValueDesc: string(after.Status)})
	}
	record := event.CreateEvent(event.SourceTypeWorkOrder, after.ID, after.Vehicle.Summary(), event.EventCategoryPropertyUpdated,
		updates, types.CurrentTimestamp())
	event.PublishFunc(ctx, record)
}

func publishCompleted(ctx context.Context, o *domain.WorkOrder, r *domain.Receipt) {
	updates := []event.UpdatedProperty{
		{PropertyName: "Status", PropertyDesc: "Status",
			OldValue: string(o.Status), OldValueDesc: string(o.Status),
			NewValue: string(domain.StatusCompleted), NewValueDesc: string(domain.StatusCompleted)},
		{PropertyName: "BilledAmount", PropertyDesc: "Billed Amount",
			NewValue: strconv.FormatFloat(r.BilledAmount, 'f', 2, 64), NewValueDesc: strconv.FormatFloat(r.BilledAmount, 'f', 2, 64)},
	}
	record := event.CreateEvent(event.SourceTypeWorkOrder, o.ID, r.VehicleSummary, event.EventCategoryCompleted,
		updates, types.Timestamp(r.CompletedAt))
	event.PublishFunc(ctx, record)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
