package state

var (
	Queued     = State{Name: "Queued", Category: InBacklog}
	InProgress = State{Name: "InProgress", Category: InProcess}
	Completing = State{Name: "Completing", Category: InProcess}
	Completed  = State{Name: "Completed", Category: Done}
)

// WorkOrderLifecycle: promotion out of Queued happens outside this service.
// A queued order may still be completed directly, which frees its place in the shop.
var WorkOrderLifecycle = NewStateMachine(
	[]State{Queued, InProgress, Completing, Completed},
	[]Transition{
		{Name: "start", From: Queued, To: InProgress},
		{Name: "finish-work", From: InProgress, To: Completing},
		{Name: "complete", From: Queued, To: Completed},
		{Name: "complete", From: InProgress, To: Completed},
		{Name: "complete", From: Completing, To: Completed},
	})
