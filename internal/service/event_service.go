package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"evently/internal/models"
	"evently/internal/repository"
)

type EventService struct {
	Repo   repository.Repository
	Enrich *Enricher
	Logger *zap.Logger
}

type NewEventInput struct {
	Annotation        string          `json:"annotation" binding:"required,min=20,max=2000"`
	CategoryID        uint64          `json:"category" binding:"required"`
	Description       string          `json:"description" binding:"required,min=20,max=7000"`
	EventDate         time.Time       `json:"eventDate" binding:"required"`
	Location          models.Location `json:"location"`
	Paid              bool            `json:"paid"`
	ParticipantLimit  int             `json:"participantLimit" binding:"gte=0"`
	RequestModeration *bool           `json:"requestModeration"`
	Title             string          `json:"title" binding:"required,min=3,max=120"`
}

// UpdateEventInput is shared by the owner and admin patch surfaces; the set
// of accepted state actions differs per caller.
type UpdateEventInput struct {
	Annotation        *string            `json:"annotation" binding:"omitempty,min=20,max=2000"`
	CategoryID        *uint64            `json:"category"`
	Description       *string            `json:"description" binding:"omitempty,min=20,max=7000"`
	EventDate         *time.Time         `json:"eventDate"`
	Location          *models.Location   `json:"location"`
	Paid              *bool              `json:"paid"`
	ParticipantLimit  *int               `json:"participantLimit" binding:"omitempty,gte=0"`
	RequestModeration *bool              `json:"requestModeration"`
	StateAction       models.StateAction `json:"stateAction"`
	Title             *string            `json:"title" binding:"omitempty,min=3,max=120"`
}

type AdminSearchParams struct {
	UserIDs     []uint64
	States      []models.EventState
	CategoryIDs []uint64
	Text        *string
	RangeStart  *time.Time
	RangeEnd    *time.Time
	Limit       int
	Offset      int
}

const (
	SortEventDate = "EVENT_DATE"
	SortViews     = "VIEWS"
)

type PublicSearchParams struct {
	Text          *string
	CategoryIDs   []uint64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          string
	Limit         int
	Offset        int
}

func (s *EventService) Create(ctx context.Context, userID uint64, in NewEventInput) (*models.Event, error) {
	initiator, err := getUser(ctx, s.Repo, userID)
	if err != nil {
		return nil, err
	}
	category, err := getCategory(ctx, s.Repo, in.CategoryID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := checkEventDate(in.EventDate, CreateLeadTime, now); err != nil {
		return nil, err
	}

	moderation := true
	if in.RequestModeration != nil {
		moderation = *in.RequestModeration
	}
	event := &models.Event{
		Title:             in.Title,
		Annotation:        in.Annotation,
		Description:       in.Description,
		CategoryID:        category.ID,
		Category:          *category,
		InitiatorID:       initiator.ID,
		Initiator:         *initiator,
		Location:          in.Location,
		EventDate:         in.EventDate,
		Paid:              in.Paid,
		ParticipantLimit:  in.ParticipantLimit,
		RequestModeration: moderation,
		State:             models.EventStatePending,
		CreatedOn:         now,
	}
	if err := s.Repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	s.Logger.Info("event created",
		zap.Uint64("event_id", event.ID),
		zap.Uint64("initiator_id", initiator.ID))
	// A brand new event has no requests, comments, or recorded hits yet.
	return event, nil
}

func (s *EventService) GetMyEvents(ctx context.Context, userID uint64, limit, offset int) ([]models.Event, error) {
	if _, err := getUser(ctx, s.Repo, userID); err != nil {
		return nil, err
	}
	events, err := s.Repo.ListEventsByInitiator(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.Enrich.Enrich(ctx, events)
}

func (s *EventService) GetMyEventByID(ctx context.Context, userID, eventID uint64) (*models.Event, error) {
	if _, err := getUser(ctx, s.Repo, userID); err != nil {
		return nil, err
	}
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != userID {
		return nil, NotFoundf("event %d not found for user %d", eventID, userID)
	}
	return s.enrichOne(ctx, event)
}

// UpdateByOwner patches the owner's own event. Published events are frozen
// for the owner; the only lifecycle actions an owner may take are sending the
// event back to review or canceling the review.
func (s *EventService) UpdateByOwner(ctx context.Context, userID, eventID uint64, in UpdateEventInput) (*models.Event, error) {
	if _, err := getUser(ctx, s.Repo, userID); err != nil {
		return nil, err
	}
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != userID {
		return nil, Conflictf("user %d is not the initiator of event %d", userID, eventID)
	}
	if event.State == models.EventStatePublished {
		return nil, Conflictf("a published event can no longer be changed by its initiator")
	}
	if in.StateAction != "" &&
		in.StateAction != models.ActionSendToReview &&
		in.StateAction != models.ActionCancelReview {
		return nil, Validationf("state action %q is not available to the initiator", in.StateAction)
	}
	if err := s.applyUpdate(ctx, event, in, PublishLeadTime); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}
	s.Logger.Info("event updated by initiator", zap.Uint64("event_id", event.ID))
	return s.enrichOne(ctx, event)
}

// UpdateByAdmin patches any event; the full set of state actions is allowed
// and guarded by the transition table.
func (s *EventService) UpdateByAdmin(ctx context.Context, eventID uint64, in UpdateEventInput) (*models.Event, error) {
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, event, in, PublishLeadTime); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}
	s.Logger.Info("event updated by admin", zap.Uint64("event_id", event.ID))
	return s.enrichOne(ctx, event)
}

// Publish moves a pending event to PUBLISHED, provided the event date still
// leaves the required lead time.
func (s *EventService) Publish(ctx context.Context, eventID uint64) (*models.Event, error) {
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if err := applyStateAction(event, models.ActionPublishEvent, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveEvent(ctx, event); err != nil {
		return nil, err
	}
	s.Logger.Info("event published", zap.Uint64("event_id", event.ID))
	return s.enrichOne(ctx, event)
}

func (s *EventService) AdminSearch(ctx context.Context, params AdminSearchParams) ([]models.Event, int64, error) {
	asc := true
	search := repository.SearchEventsParams{
		Text:         params.Text,
		CategoryIDs:  params.CategoryIDs,
		InitiatorIDs: params.UserIDs,
		States:       params.States,
		RangeStart:   params.RangeStart,
		RangeEnd:     params.RangeEnd,
		Limit:        params.Limit,
		Offset:       params.Offset,
		OrderBy:      "id",
		Asc:          &asc,
	}
	events, err := s.Repo.SearchEvents(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountEvents(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	events, err = s.Enrich.Enrich(ctx, events)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// PublicSearch lists published events only. Sorting by views has to happen
// after enrichment, since view counts never touch the store.
func (s *EventService) PublicSearch(ctx context.Context, params PublicSearchParams) ([]models.Event, int64, error) {
	if params.RangeStart != nil && params.RangeEnd != nil && !params.RangeStart.Before(*params.RangeEnd) {
		return nil, 0, Validationf("rangeEnd must be later than rangeStart")
	}
	sortKey := strings.ToUpper(strings.TrimSpace(params.Sort))
	switch sortKey {
	case "", SortEventDate, SortViews:
	default:
		return nil, 0, Validationf("unknown sort parameter %q", params.Sort)
	}

	asc := true
	orderBy := "event_date"
	if sortKey == SortViews {
		orderBy = "id"
	}
	search := repository.SearchEventsParams{
		Text:        params.Text,
		CategoryIDs: params.CategoryIDs,
		States:      []models.EventState{models.EventStatePublished},
		Paid:        params.Paid,
		RangeStart:  params.RangeStart,
		RangeEnd:    params.RangeEnd,
		Limit:       params.Limit,
		Offset:      params.Offset,
		OrderBy:     orderBy,
		Asc:         &asc,
	}
	events, err := s.Repo.SearchEvents(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountEvents(ctx, search)
	if err != nil {
		return nil, 0, err
	}
	events, err = s.Enrich.Enrich(ctx, events)
	if err != nil {
		return nil, 0, err
	}
	if params.OnlyAvailable {
		filtered := events[:0]
		for i := range events {
			if events[i].Available() {
				filtered = append(filtered, events[i])
			}
		}
		events = filtered
		total = int64(len(events))
	}
	if sortKey == SortViews {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Views < events[j].Views
		})
	}
	return events, total, nil
}

// GetPublishedByID serves the public detail page. Unpublished events are
// invisible to the public and read as not found.
func (s *EventService) GetPublishedByID(ctx context.Context, eventID uint64) (*models.Event, error) {
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != models.EventStatePublished {
		return nil, NotFoundf("event %d is not published", eventID)
	}
	return s.enrichOne(ctx, event)
}

// CancelStalePending cancels pending events whose date has already passed:
// they can never satisfy the publish lead-time guard again. Driven by the
// periodic sweep job.
func (s *EventService) CancelStalePending(ctx context.Context, batchSize int) (int, error) {
	stale, err := s.Repo.ListStalePendingEvents(ctx, time.Now().UTC(), batchSize)
	if err != nil {
		return 0, err
	}
	canceled := 0
	for i := range stale {
		stale[i].State = models.EventStateCanceled
		if err := s.Repo.SaveEvent(ctx, &stale[i]); err != nil {
			return canceled, err
		}
		canceled++
	}
	if canceled > 0 {
		s.Logger.Info("canceled stale pending events", zap.Int("count", canceled))
	}
	return canceled, nil
}

func (s *EventService) applyUpdate(ctx context.Context, event *models.Event, in UpdateEventInput, lead time.Duration) error {
	if in.CategoryID != nil {
		category, err := getCategory(ctx, s.Repo, *in.CategoryID)
		if err != nil {
			return err
		}
		event.CategoryID = category.ID
		event.Category = *category
	}
	if in.EventDate != nil {
		if err := checkEventDate(*in.EventDate, lead, time.Now().UTC()); err != nil {
			return err
		}
		event.EventDate = *in.EventDate
	}
	if in.Annotation != nil {
		event.Annotation = *in.Annotation
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.Paid != nil {
		event.Paid = *in.Paid
	}
	if in.ParticipantLimit != nil {
		event.ParticipantLimit = *in.ParticipantLimit
	}
	if in.RequestModeration != nil {
		event.RequestModeration = *in.RequestModeration
	}
	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.StateAction != "" {
		if err := applyStateAction(event, in.StateAction, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

func (s *EventService) enrichOne(ctx context.Context, event *models.Event) (*models.Event, error) {
	enriched, err := s.Enrich.Enrich(ctx, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}
