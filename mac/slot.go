package mac

import "github.com/looplab/fsm"

// The scheduler's single target/message slot, modeled as an explicit state
// machine instead of a pair of nullable fields.
//
//	idle       no child targeted
//	scheduled  a child is targeted and the engine has a pending window
//	in_flight  the engine started the over-air attempt for the target
//	orphaned   the attempt is still in flight but the target was cleared
//	           because its queued message changed; the sent notification
//	           will be discarded
const (
	slotIdle      = "idle"
	slotScheduled = "scheduled"
	slotInFlight  = "in_flight"
	slotOrphaned  = "orphaned"
)

const (
	eventSchedule = "schedule"
	eventCancel   = "cancel"
	eventLaunch   = "launch"
	eventAbandon  = "abandon"
	eventComplete = "complete"
)

func newSlotFSM() *fsm.FSM {
	return fsm.NewFSM(
		slotIdle,
		fsm.Events{
			{Name: eventSchedule, Src: []string{slotIdle, slotScheduled}, Dst: slotScheduled},
			{Name: eventCancel, Src: []string{slotScheduled}, Dst: slotIdle},
			{Name: eventLaunch, Src: []string{slotScheduled}, Dst: slotInFlight},
			{Name: eventAbandon, Src: []string{slotInFlight}, Dst: slotOrphaned},
			{Name: eventComplete, Src: []string{slotInFlight, slotOrphaned}, Dst: slotIdle},
		},
		fsm.Callbacks{},
	)
}
