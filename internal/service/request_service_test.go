package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"evently/internal/models"
)

func seedUser(repo *stubRepo, name string) uint64 {
	u := &models.User{Name: name, Email: name + "@example.com"}
	_ = repo.CreateUser(context.Background(), u)
	return u.ID
}

func seedPublishedEvent(repo *stubRepo, initiatorID uint64, limit int, moderation bool) uint64 {
	now := time.Now().UTC()
	ev := &models.Event{
		Title:             "meetup",
		InitiatorID:       initiatorID,
		EventDate:         now.Add(72 * time.Hour),
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             models.EventStatePublished,
		CreatedOn:         now,
	}
	_ = repo.CreateEvent(context.Background(), ev)
	return ev.ID
}

func newRequestService(repo *stubRepo) *RequestService {
	return &RequestService{Repo: repo, Logger: zap.NewNop()}
}

func TestCreateRequestAutoConfirmsWithoutLimit(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	guest := seedUser(repo, "guest")
	eventID := seedPublishedEvent(repo, owner, 0, true)

	req, err := svc.Create(context.Background(), guest, eventID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if req.Status != models.RequestStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", req.Status)
	}
}

func TestCreateRequestAutoConfirmsWithoutModeration(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	guest := seedUser(repo, "guest")
	eventID := seedPublishedEvent(repo, owner, 5, false)

	req, err := svc.Create(context.Background(), guest, eventID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if req.Status != models.RequestStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", req.Status)
	}
}

func TestCreateRequestPendingUnderModeration(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	guest := seedUser(repo, "guest")
	eventID := seedPublishedEvent(repo, owner, 5, true)

	req, err := svc.Create(context.Background(), guest, eventID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if req.Status != models.RequestStatusPending {
		t.Fatalf("status = %s, want PENDING", req.Status)
	}
}

func TestCreateRequestGuards(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	guest := seedUser(repo, "guest")
	eventID := seedPublishedEvent(repo, owner, 1, false)

	// Initiator cannot join their own event.
	if _, err := svc.Create(context.Background(), owner, eventID); !IsConflict(err) {
		t.Fatalf("initiator request: expected conflict, got %v", err)
	}

	// Unpublished events accept no requests.
	pending := &models.Event{InitiatorID: owner, State: models.EventStatePending, EventDate: time.Now().UTC().Add(72 * time.Hour)}
	_ = repo.CreateEvent(context.Background(), pending)
	if _, err := svc.Create(context.Background(), guest, pending.ID); !IsConflict(err) {
		t.Fatalf("unpublished event: expected conflict, got %v", err)
	}

	// Duplicate request from the same user.
	if _, err := svc.Create(context.Background(), guest, eventID); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), guest, eventID); !IsConflict(err) {
		t.Fatalf("duplicate request: expected conflict, got %v", err)
	}

	// Limit of 1 is now exhausted (no moderation, so the first confirmed).
	third := seedUser(repo, "third")
	if _, err := svc.Create(context.Background(), third, eventID); !IsConflict(err) {
		t.Fatalf("full event: expected conflict, got %v", err)
	}
}

func TestModerateConfirmsUpToLimitThenRejects(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	eventID := seedPublishedEvent(repo, owner, 3, true)

	var ids []uint64
	for i := 0; i < 5; i++ {
		guest := seedUser(repo, string(rune('a'+i))+"-guest")
		req, err := svc.Create(context.Background(), guest, eventID)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if req.Status != models.RequestStatusPending {
			t.Fatalf("request %d status = %s, want PENDING", i, req.Status)
		}
		ids = append(ids, req.ID)
	}

	result, err := svc.Moderate(context.Background(), owner, eventID, models.RequestStatusConfirmed, ids)
	if err != nil {
		t.Fatalf("moderate failed: %v", err)
	}
	if len(result.ConfirmedRequests) != 3 {
		t.Fatalf("confirmed = %d, want 3", len(result.ConfirmedRequests))
	}
	if len(result.RejectedRequests) != 2 {
		t.Fatalf("rejected = %d, want 2", len(result.RejectedRequests))
	}
	// The first three in caller order fill the seats.
	for i, r := range result.ConfirmedRequests {
		if r.ID != ids[i] {
			t.Fatalf("confirmed[%d] = %d, want %d", i, r.ID, ids[i])
		}
	}
	for i, r := range result.RejectedRequests {
		if r.ID != ids[3+i] {
			t.Fatalf("rejected[%d] = %d, want %d", i, r.ID, ids[3+i])
		}
	}
	// Verdicts persisted.
	for _, id := range ids[:3] {
		stored, _ := repo.GetRequestByID(context.Background(), id)
		if stored.Status != models.RequestStatusConfirmed {
			t.Fatalf("request %d stored status = %s", id, stored.Status)
		}
	}
	for _, id := range ids[3:] {
		stored, _ := repo.GetRequestByID(context.Background(), id)
		if stored.Status != models.RequestStatusRejected {
			t.Fatalf("request %d stored status = %s", id, stored.Status)
		}
	}
}

func TestModerateIsNoOpWithoutModeration(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	eventID := seedPublishedEvent(repo, owner, 0, true)

	result, err := svc.Moderate(context.Background(), owner, eventID, models.RequestStatusConfirmed, []uint64{999})
	if err != nil {
		t.Fatalf("moderate failed: %v", err)
	}
	if len(result.ConfirmedRequests) != 0 || len(result.RejectedRequests) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestModerateFailsFastWhenFull(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	eventID := seedPublishedEvent(repo, owner, 1, true)

	first := seedUser(repo, "first")
	firstReq, err := svc.Create(context.Background(), first, eventID)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.Moderate(context.Background(), owner, eventID, models.RequestStatusConfirmed, []uint64{firstReq.ID}); err != nil {
		t.Fatalf("moderate failed: %v", err)
	}

	second := seedUser(repo, "second")
	secondReq := &models.ParticipationRequest{EventID: eventID, RequesterID: second, Status: models.RequestStatusPending, Created: time.Now().UTC()}
	_ = repo.CreateRequestTx(context.Background(), nil, secondReq)

	// Even a rejection batch is refused once the limit is reached.
	if _, err := svc.Moderate(context.Background(), owner, eventID, models.RequestStatusRejected, []uint64{secondReq.ID}); !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestModerateRejectsNonPendingRequest(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	guest := seedUser(repo, "guest")
	eventID := seedPublishedEvent(repo, owner, 3, true)

	req, err := svc.Create(context.Background(), guest, eventID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), guest, req.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.Moderate(context.Background(), owner, eventID, models.RequestStatusConfirmed, []uint64{req.ID}); !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestModerateValidatesStatusAndOwnership(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	other := seedUser(repo, "other")
	eventID := seedPublishedEvent(repo, owner, 3, true)

	if _, err := svc.Moderate(context.Background(), owner, eventID, models.RequestStatusCanceled, nil); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Moderate(context.Background(), other, eventID, models.RequestStatusConfirmed, nil); !IsConflict(err) {
		t.Fatalf("expected conflict for non-initiator, got %v", err)
	}
}

func TestCancelRequest(t *testing.T) {
	repo := newStubRepo()
	svc := newRequestService(repo)
	owner := seedUser(repo, "owner")
	guest := seedUser(repo, "guest")
	stranger := seedUser(repo, "stranger")
	eventID := seedPublishedEvent(repo, owner, 0, true)

	req, err := svc.Create(context.Background(), guest, eventID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Only the requester can cancel.
	if _, err := svc.Cancel(context.Background(), stranger, req.ID); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	canceled, err := svc.Cancel(context.Background(), guest, req.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != models.RequestStatusCanceled {
		t.Fatalf("status = %s, want CANCELED", canceled.Status)
	}
}
