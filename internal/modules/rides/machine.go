package rides

import "ride-hailing/internal/models"

// Action names a ride transition. The set is closed: there is no free-form
// status write on the rider/captain surface.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionRetry    Action = "retry"
)

// Transition is one row of the state machine. From is the status the ride
// must hold at the moment of the write; the captain/user match flags become
// extra filters on the same conditional statement, which is what gives
// at-most-one-winner semantics under concurrent actors.
type Transition struct {
	Action Action
	Role   string
	From   models.RideStatus
	To     models.RideStatus

	// MatchCaptain requires captain_id = actor in the write filter.
	MatchCaptain bool
	// MatchUser requires user_id = actor in the write filter.
	MatchUser bool
	// AssignCaptain sets captain_id = actor on success.
	AssignCaptain bool
	// ClearCaptain sets captain_id = NULL on success.
	ClearCaptain bool
}

var transitions = map[Action]Transition{
	ActionAccept: {
		Action:        ActionAccept,
		Role:          models.RoleCaptain,
		From:          models.RideStatusPending,
		To:            models.RideStatusAccepted,
		AssignCaptain: true,
	},
	// A decline is recorded as CANCELLED with the declining captain
	// attributed; the rider's retry is the re-matching path.
	ActionDecline: {
		Action:        ActionDecline,
		Role:          models.RoleCaptain,
		From:          models.RideStatusPending,
		To:            models.RideStatusCancelled,
		AssignCaptain: true,
	},
	ActionStart: {
		Action:       ActionStart,
		Role:         models.RoleCaptain,
		From:         models.RideStatusAccepted,
		To:           models.RideStatusOngoing,
		MatchCaptain: true,
	},
	ActionComplete: {
		Action:       ActionComplete,
		Role:         models.RoleCaptain,
		From:         models.RideStatusOngoing,
		To:           models.RideStatusCompleted,
		MatchCaptain: true,
	},
	ActionCancel: {
		Action:    ActionCancel,
		Role:      models.RoleUser,
		From:      models.RideStatusPending,
		To:        models.RideStatusCancelled,
		MatchUser: true,
	},
	ActionRetry: {
		Action:       ActionRetry,
		Role:         models.RoleUser,
		From:         models.RideStatusCancelled,
		To:           models.RideStatusPending,
		ClearCaptain: true,
	},
}

// Resolve returns the transition row for action.
func Resolve(action Action) (Transition, bool) {
	tr, ok := transitions[action]
	return tr, ok
}

// Terminal reports whether no named transition can leave status. COMPLETED is
// terminal outright; CANCELLED is terminal except for retry.
func Terminal(status models.RideStatus) bool {
	return status == models.RideStatusCompleted
}
