package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evently/internal/models"
	"evently/internal/repository"
)

// RequestService owns the participation-request lifecycle: admission of new
// requests against the event's capacity, requester-side cancellation, and the
// initiator's moderation verdicts. Every admission decision re-reads the
// confirmed count under a row lock on the event, so the participant limit
// holds under concurrent traffic.
type RequestService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// ModerationResult reports the verdicts of a moderation batch.
type ModerationResult struct {
	ConfirmedRequests []models.ParticipationRequest `json:"confirmedRequests"`
	RejectedRequests  []models.ParticipationRequest `json:"rejectedRequests"`
}

// Create files a participation request for userID on eventID. The request is
// auto-confirmed when the event has no limit or skips moderation; otherwise it
// waits as PENDING for the initiator's verdict.
func (s *RequestService) Create(ctx context.Context, userID, eventID uint64) (*models.ParticipationRequest, error) {
	if _, err := getUser(ctx, s.Repo, userID); err != nil {
		return nil, err
	}
	if _, err := getEvent(ctx, s.Repo, eventID); err != nil {
		return nil, err
	}

	var request *models.ParticipationRequest
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		event, err := s.Repo.GetEventForUpdateTx(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return NotFoundf("event %d not found", eventID)
		}
		if event.InitiatorID == userID {
			return Conflictf("initiator cannot request participation in their own event")
		}
		if event.State != models.EventStatePublished {
			return Conflictf("event %d is not published", eventID)
		}
		existing, err := s.Repo.CountRequestsByRequesterAndEventTx(ctx, tx, userID, eventID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return Conflictf("request from user %d for event %d already exists", userID, eventID)
		}

		status := models.RequestStatusConfirmed
		if event.ParticipantLimit > 0 {
			confirmed, err := s.Repo.CountConfirmedRequestsTx(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if confirmed >= int64(event.ParticipantLimit) {
				return Conflictf("participant limit of event %d has been reached", eventID)
			}
			if event.RequestModeration {
				status = models.RequestStatusPending
			}
		}
		request = &models.ParticipationRequest{
			EventID:     eventID,
			RequesterID: userID,
			Status:      status,
			Created:     time.Now().UTC(),
		}
		return s.Repo.CreateRequestTx(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("participation request created",
		zap.Uint64("request_id", request.ID),
		zap.Uint64("event_id", eventID),
		zap.String("status", string(request.Status)))
	return request, nil
}

// Cancel lets the requester withdraw their own request.
func (s *RequestService) Cancel(ctx context.Context, userID, requestID uint64) (*models.ParticipationRequest, error) {
	if _, err := getUser(ctx, s.Repo, userID); err != nil {
		return nil, err
	}
	request, err := s.Repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil || request.RequesterID != userID {
		return nil, NotFoundf("request %d not found for user %d", requestID, userID)
	}
	request.Status = models.RequestStatusCanceled
	if err := s.Repo.SaveRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) ListByUser(ctx context.Context, userID uint64) ([]models.ParticipationRequest, error) {
	if _, err := getUser(ctx, s.Repo, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListRequestsByRequester(ctx, userID)
}

// ListForEvent returns the requests filed on the caller's own event.
func (s *RequestService) ListForEvent(ctx context.Context, ownerID, eventID uint64) ([]models.ParticipationRequest, error) {
	if _, err := getUser(ctx, s.Repo, ownerID); err != nil {
		return nil, err
	}
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != ownerID {
		return nil, Conflictf("user %d is not the initiator of event %d", ownerID, eventID)
	}
	return s.Repo.ListRequestsByEvent(ctx, eventID)
}

// Moderate applies the initiator's verdict to a batch of pending requests.
//
// Requests are processed one at a time in the caller's order, each inside its
// own transaction holding the event row lock. Once the limit fills, every
// remaining pending request is rejected regardless of the asked-for verdict.
// A request that is no longer PENDING aborts the batch; verdicts already
// applied stay applied.
func (s *RequestService) Moderate(ctx context.Context, ownerID, eventID uint64, status models.RequestStatus, requestIDs []uint64) (*ModerationResult, error) {
	if status != models.RequestStatusConfirmed && status != models.RequestStatusRejected {
		return nil, Validationf("moderation status must be CONFIRMED or REJECTED, got %q", status)
	}
	if _, err := getUser(ctx, s.Repo, ownerID); err != nil {
		return nil, err
	}
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != ownerID {
		return nil, Conflictf("user %d is not the initiator of event %d", ownerID, eventID)
	}

	result := &ModerationResult{
		ConfirmedRequests: []models.ParticipationRequest{},
		RejectedRequests:  []models.ParticipationRequest{},
	}

	// Events without a limit or without moderation confirm on creation, so
	// there is nothing to moderate.
	if event.ParticipantLimit == 0 || !event.RequestModeration {
		return result, nil
	}

	requests, err := s.Repo.ListRequestsByIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]models.ParticipationRequest, len(requests))
	for _, r := range requests {
		byID[r.ID] = r
	}

	// Fail fast before touching anything when the event is already full.
	confirmed, err := s.confirmedCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if confirmed >= int64(event.ParticipantLimit) {
		return nil, Conflictf("participant limit of event %d has been reached", eventID)
	}

	for _, id := range requestIDs {
		request, ok := byID[id]
		if !ok {
			return nil, NotFoundf("request %d not found", id)
		}
		if request.EventID != eventID {
			return nil, Conflictf("request %d does not belong to event %d", id, eventID)
		}
		if request.Status != models.RequestStatusPending {
			return nil, Conflictf("request %d is not pending", id)
		}

		verdict := status
		err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
			locked, err := s.Repo.GetEventForUpdateTx(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if locked == nil {
				return NotFoundf("event %d not found", eventID)
			}
			if verdict == models.RequestStatusConfirmed {
				confirmed, err := s.Repo.CountConfirmedRequestsTx(ctx, tx, eventID)
				if err != nil {
					return err
				}
				if confirmed >= int64(locked.ParticipantLimit) {
					verdict = models.RequestStatusRejected
				}
			}
			return s.Repo.UpdateRequestStatusTx(ctx, tx, id, verdict)
		})
		if err != nil {
			return nil, err
		}
		request.Status = verdict
		if verdict == models.RequestStatusConfirmed {
			result.ConfirmedRequests = append(result.ConfirmedRequests, request)
		} else {
			result.RejectedRequests = append(result.RejectedRequests, request)
		}
	}

	s.Logger.Info("moderation batch processed",
		zap.Uint64("event_id", eventID),
		zap.Int("confirmed", len(result.ConfirmedRequests)),
		zap.Int("rejected", len(result.RejectedRequests)))
	return result, nil
}

func (s *RequestService) confirmedCount(ctx context.Context, eventID uint64) (int64, error) {
	rows, err := s.Repo.CountConfirmedByEventIDs(ctx, []uint64{eventID})
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if row.EventID == eventID {
			return row.Count, nil
		}
	}
	return 0, nil
}
