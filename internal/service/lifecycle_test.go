package service

import (
	"testing"
	"time"

	"evently/internal/models"
)

func TestApplyStateActionTable(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name      string
		from      models.EventState
		action    models.StateAction
		wantState models.EventState
		wantErr   func(error) bool
	}{
		{"send pending to review", models.EventStatePending, models.ActionSendToReview, models.EventStatePending, nil},
		{"resubmit canceled", models.EventStateCanceled, models.ActionSendToReview, models.EventStatePending, nil},
		{"cancel pending review", models.EventStatePending, models.ActionCancelReview, models.EventStateCanceled, nil},
		{"publish pending", models.EventStatePending, models.ActionPublishEvent, models.EventStatePublished, nil},
		{"reject pending", models.EventStatePending, models.ActionRejectEvent, models.EventStateCanceled, nil},
		{"publish published", models.EventStatePublished, models.ActionPublishEvent, "", IsConflict},
		{"publish canceled", models.EventStateCanceled, models.ActionPublishEvent, "", IsConflict},
		{"send published to review", models.EventStatePublished, models.ActionSendToReview, "", IsConflict},
		{"reject published", models.EventStatePublished, models.ActionRejectEvent, "", IsConflict},
		{"unknown action", models.EventStatePending, models.StateAction("FREEZE"), "", IsValidation},
	}
	for _, tt := range tests {
		ev := &models.Event{State: tt.from, EventDate: future}
		err := applyStateAction(ev, tt.action, now)
		if tt.wantErr != nil {
			if err == nil || !tt.wantErr(err) {
				t.Fatalf("%s: got err %v", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected err %v", tt.name, err)
		}
		if ev.State != tt.wantState {
			t.Fatalf("%s: state = %s, want %s", tt.name, ev.State, tt.wantState)
		}
	}
}

func TestPublishStampsPublishedOn(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := &models.Event{State: models.EventStatePending, EventDate: now.Add(3 * time.Hour)}
	if err := applyStateAction(ev, models.ActionPublishEvent, now); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if ev.PublishedOn == nil || !ev.PublishedOn.Equal(now) {
		t.Fatalf("publishedOn = %v, want %v", ev.PublishedOn, now)
	}
}

func TestPublishRejectsShortLeadTime(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := &models.Event{State: models.EventStatePending, EventDate: now.Add(30 * time.Minute)}
	err := applyStateAction(ev, models.ActionPublishEvent, now)
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if ev.State != models.EventStatePending {
		t.Fatalf("state changed despite failed publish: %s", ev.State)
	}
}

func TestCheckEventDate(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// Past calendar day reads as malformed input.
	err := checkEventDate(now.Add(-36*time.Hour), CreateLeadTime, now)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Today but inside the lead window is a conflict, not a validation error.
	err = checkEventDate(now.Add(time.Hour), CreateLeadTime, now)
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := checkEventDate(now.Add(3*time.Hour), CreateLeadTime, now); err != nil {
		t.Fatalf("unexpected err %v", err)
	}
}
