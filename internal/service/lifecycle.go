package service

import (
	"time"

	"evently/internal/models"
)

// Lead times an event date must keep ahead of the wall clock. Creation gives
// the moderators two hours; publish-adjacent edits only need one.
const (
	CreateLeadTime  = 2 * time.Hour
	PublishLeadTime = 1 * time.Hour
)

// transition is one row of the lifecycle table: which states an action may be
// applied from and where it lands.
type transition struct {
	from map[models.EventState]bool
	to   models.EventState
}

var transitions = map[models.StateAction]transition{
	models.ActionSendToReview: {
		from: map[models.EventState]bool{models.EventStatePending: true, models.EventStateCanceled: true},
		to:   models.EventStatePending,
	},
	models.ActionCancelReview: {
		from: map[models.EventState]bool{models.EventStatePending: true, models.EventStateCanceled: true},
		to:   models.EventStateCanceled,
	},
	models.ActionPublishEvent: {
		from: map[models.EventState]bool{models.EventStatePending: true},
		to:   models.EventStatePublished,
	},
	models.ActionRejectEvent: {
		from: map[models.EventState]bool{models.EventStatePending: true, models.EventStateCanceled: true},
		to:   models.EventStateCanceled,
	},
}

// applyStateAction validates the requested lifecycle action against the
// transition table and mutates the event on success. Publishing additionally
// enforces the one-hour lead time and stamps publishedOn.
func applyStateAction(ev *models.Event, action models.StateAction, now time.Time) error {
	t, ok := transitions[action]
	if !ok {
		return Validationf("unknown state action %q", action)
	}
	if !t.from[ev.State] {
		return Conflictf("cannot apply %s to an event in state %s", action, ev.State)
	}
	if action == models.ActionPublishEvent {
		if err := checkEventDate(ev.EventDate, PublishLeadTime, now); err != nil {
			return err
		}
		publishedOn := now
		ev.PublishedOn = &publishedOn
	}
	ev.State = t.to
	return nil
}

// checkEventDate rejects dates on a past calendar day (malformed input) and
// dates closer than the required lead time (a lifecycle conflict).
func checkEventDate(date time.Time, lead time.Duration, now time.Time) error {
	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return Validationf("event date %s is already in the past", date.Format(time.RFC3339))
	}
	if date.Before(now.Add(lead)) {
		return Conflictf("event date must be at least %s later than now", lead)
	}
	return nil
}
