package state_test

import (
	"autobay/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *state.StateMachine
	)

	BeforeEach(func() {
		//         PENDING      DOING         DONE
		// PENDING   -            V (begin)   V (close)
		// DOING     V (cancel)   -           V (finish)
		// DONE      V (reopen)   X			  -
		stateMachine = state.NewStateMachine(
			[]state.State{{Name: "PENDING"}, {Name: "DOING"}, {Name: "DONE"}},
			[]state.Transition{
				{Name: "begin", From: state.State{Name: "PENDING"}, To: state.State{Name: "DOING"}},
				{Name: "close", From: state.State{Name: "PENDING"}, To: state.State{Name: "DONE"}},
				{Name: "cancel", From: state.State{Name: "DOING"}, To: state.State{Name: "PENDING"}},
				{Name: "finish", From: state.State{Name: "DOING"}, To: state.State{Name: "DONE"}},
				{Name: "reopen", From: state.State{Name: "DONE"}, To: state.State{Name: "PENDING"}},
			})
	})

	Describe("AvailableTransitions", func() {
		It("should filter by from state", func() {
			Ω(stateMachine.AvailableTransitions("PENDING", "")).Should(Equal([]state.Transition{
				{Name: "begin", From: state.State{Name: "PENDING"}, To: state.State{Name: "DOING"}},
				{Name: "close", From: state.State{Name: "PENDING"}, To: state.State{Name: "DONE"}},
			}))
			Ω(stateMachine.AvailableTransitions("DONE", "")).Should(Equal([]state.Transition{
				{Name: "reopen", From: state.State{Name: "DONE"}, To: state.State{Name: "PENDING"}},
			}))
			Ω(len(stateMachine.AvailableTransitions("UNKNOWN", ""))).Should(Equal(0))
		})

		It("should filter by both states", func() {
			Ω(stateMachine.AvailableTransitions("DOING", "DONE")).Should(Equal([]state.Transition{
				{Name: "finish", From: state.State{Name: "DOING"}, To: state.State{Name: "DONE"}},
			}))
			Ω(stateMachine.CanTransit("DONE", "DOING")).Should(BeFalse())
			Ω(stateMachine.CanTransit("DONE", "PENDING")).Should(BeTrue())
		})
	})

	Describe("FindState", func() {
		It("should find known states only", func() {
			s, found := stateMachine.FindState("DOING")
			Ω(found).Should(BeTrue())
			Ω(s).Should(Equal(state.State{Name: "DOING"}))
			_, found = stateMachine.FindState("UNKNOWN")
			Ω(found).Should(BeFalse())
		})
	})
})

var _ = Describe("WorkOrderLifecycle", func() {
	It("should only allow the documented moves", func() {
		sm := state.WorkOrderLifecycle
		Ω(sm.CanTransit("Queued", "InProgress")).Should(BeTrue())
		Ω(sm.CanTransit("InProgress", "Completing")).Should(BeTrue())
		Ω(sm.CanTransit("InProgress", "Completed")).Should(BeTrue())
		Ω(sm.CanTransit("Completing", "Completed")).Should(BeTrue())
		Ω(sm.CanTransit("Queued", "Completed")).Should(BeTrue())

		Ω(sm.CanTransit("Queued", "Completing")).Should(BeFalse())
		Ω(sm.CanTransit("Completed", "InProgress")).Should(BeFalse())
		Ω(sm.CanTransit("Completing", "InProgress")).Should(BeFalse())
	})

	It("should categorize states", func() {
		Ω(state.Queued.Category).Should(Equal(state.InBacklog))
		Ω(state.Completing.Category).Should(Equal(state.InProcess))
		Ω(state.Completed.Category).Should(Equal(state.Done))
	})
})
