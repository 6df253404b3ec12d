package valueobjects

import "strings"

var actionTargets = map[string]TicketStatus{
	"accept":             StatusAccepted,
	"confirm_arrival":    StatusOnSite,
	"start_work":         StatusInProgress,
	"mark_done":          StatusAwaitingDescription,
	"submit_description": StatusAwaitingWorkApproval,
	"approve_work":       StatusCompleted,
	"reject_work":        StatusAwaitingDescription,
	"close":              StatusClosed,
	"rate":               StatusClosed,
	"cancel":             StatusCancelled,
	"reject_job":         StatusOpen,
}

// ResolveTarget maps a transition request to its target status. An explicit
// status wins over the action name.
func ResolveTarget(action, status string) (TicketStatus, bool) {
	if status != "" {
		ts, err := NewTicketStatus(status)
		return ts, err == nil
	}
	ts, ok := actionTargets[strings.ToLower(strings.TrimSpace(action))]
	return ts, ok
}
