package assignments

import "alphaDash/internal/models"

// Actions a worker can trigger on an assignment.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
)

// transitions maps a status to the actions allowed from it and their target.
var transitions = map[string]map[string]string{
	models.AssignmentAssigned:   {ActionStart: models.AssignmentInProgress},
	models.AssignmentInProgress: {ActionComplete: models.AssignmentCompleted},
	models.AssignmentCompleted:  {},
}

// actionOrder keeps Actions deterministic.
var actionOrder = []string{ActionStart, ActionComplete}

// CanTransition reports whether an assignment may move from one status to another.
func CanTransition(from, to string) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Actions lists what can be done from status. Completed and unknown statuses have none.
func Actions(status string) []string {
	allowed := transitions[status]
	out := make([]string, 0, len(allowed))
	for _, action := range actionOrder {
		if _, ok := allowed[action]; ok {
			out = append(out, action)
		}
	}
	return out
}

// Target returns the status an action leads to from status.
func Target(status, action string) (string, bool) {
	to, ok := transitions[status][action]
	return to, ok
}
