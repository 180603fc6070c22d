package rides

import (
	"testing"

	"ride-hailing/internal/models"
)

func TestResolveTransitionTable(t *testing.T) {
	cases := []struct {
		action        Action
		from          models.RideStatus
		to            models.RideStatus
		role          string
		matchCaptain  bool
		matchUser     bool
		assignCaptain bool
		clearCaptain  bool
	}{
		{ActionAccept, models.RideStatusPending, models.RideStatusAccepted, models.RoleCaptain, false, false, true, false},
		{ActionDecline, models.RideStatusPending, models.RideStatusCancelled, models.RoleCaptain, false, false, true, false},
		{ActionStart, models.RideStatusAccepted, models.RideStatusOngoing, models.RoleCaptain, true, false, false, false},
		{ActionComplete, models.RideStatusOngoing, models.RideStatusCompleted, models.RoleCaptain, true, false, false, false},
		{ActionCancel, models.RideStatusPending, models.RideStatusCancelled, models.RoleUser, false, true, false, false},
		{ActionRetry, models.RideStatusCancelled, models.RideStatusPending, models.RoleUser, false, false, false, true},
	}

	for _, tc := range cases {
		tr, ok := Resolve(tc.action)
		if !ok {
			t.Fatalf("Resolve(%s): not found", tc.action)
		}
		if tr.From != tc.from || tr.To != tc.to {
			t.Errorf("%s: got %s->%s, want %s->%s", tc.action, tr.From, tr.To, tc.from, tc.to)
		}
		if tr.Role != tc.role {
			t.Errorf("%s: role = %s, want %s", tc.action, tr.Role, tc.role)
		}
		if tr.MatchCaptain != tc.matchCaptain || tr.MatchUser != tc.matchUser {
			t.Errorf("%s: match flags captain=%v user=%v, want captain=%v user=%v",
				tc.action, tr.MatchCaptain, tr.MatchUser, tc.matchCaptain, tc.matchUser)
		}
		if tr.AssignCaptain != tc.assignCaptain || tr.ClearCaptain != tc.clearCaptain {
			t.Errorf("%s: captain effects assign=%v clear=%v, want assign=%v clear=%v",
				tc.action, tr.AssignCaptain, tr.ClearCaptain, tc.assignCaptain, tc.clearCaptain)
		}
	}
}

func TestResolveUnknownAction(t *testing.T) {
	if _, ok := Resolve(Action("teleport")); ok {
		t.Fatal("expected unknown action to not resolve")
	}
}

func TestTerminalStates(t *testing.T) {
	if !Terminal(models.RideStatusCompleted) {
		t.Error("COMPLETED should be terminal")
	}
	// CANCELLED is not terminal: retry can leave it.
	if Terminal(models.RideStatusCancelled) {
		t.Error("CANCELLED should not be terminal")
	}
	if Terminal(models.RideStatusPending) || Terminal(models.RideStatusAccepted) || Terminal(models.RideStatusOngoing) {
		t.Error("active statuses should not be terminal")
	}
}
