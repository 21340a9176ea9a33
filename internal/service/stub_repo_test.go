package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"evently/internal/models"
	"evently/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Transactions degrade to plain calls; the services under test never touch
// the *gorm.DB handle directly.
type stubRepo struct {
	users        map[uint64]models.User
	categories   map[uint64]models.Category
	events       map[uint64]models.Event
	requests     map[uint64]models.ParticipationRequest
	comments     map[uint64]models.Comment
	compilations map[uint64]models.Compilation
	settings     map[string]models.SystemSetting
	nextID       uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:        map[uint64]models.User{},
		categories:   map[uint64]models.Category{},
		events:       map[uint64]models.Event{},
		requests:     map[uint64]models.ParticipationRequest{},
		comments:     map[uint64]models.Comment{},
		compilations: map[uint64]models.Compilation{},
		settings:     map[string]models.SystemSetting{},
	}
}

func (s *stubRepo) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error {
	item.ID = s.id()
	s.users[item.ID] = *item
	return nil
}

func (s *stubRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *stubRepo) ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if len(params.IDs) > 0 && !containsID(params.IDs, u.ID) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountUsers(ctx context.Context, params repository.ListUsersParams) (int64, error) {
	items, _ := s.ListUsers(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) DeleteUser(ctx context.Context, id uint64) error {
	delete(s.users, id)
	return nil
}

func (s *stubRepo) CreateCategory(ctx context.Context, item *models.Category) error {
	item.ID = s.id()
	s.categories[item.ID] = *item
	return nil
}

func (s *stubRepo) GetCategoryByID(ctx context.Context, id uint64) (*models.Category, error) {
	if c, ok := s.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *stubRepo) SaveCategory(ctx context.Context, item *models.Category) error {
	s.categories[item.ID] = *item
	return nil
}

func (s *stubRepo) DeleteCategory(ctx context.Context, id uint64) error {
	delete(s.categories, id)
	return nil
}

func (s *stubRepo) ListCategories(ctx context.Context, limit, offset int) ([]models.Category, error) {
	var out []models.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountEventsByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var n int64
	for _, ev := range s.events {
		if ev.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) CreateEvent(ctx context.Context, item *models.Event) error {
	item.ID = s.id()
	s.events[item.ID] = *item
	return nil
}

func (s *stubRepo) GetEventByID(ctx context.Context, id uint64) (*models.Event, error) {
	if ev, ok := s.events[id]; ok {
		return &ev, nil
	}
	return nil, nil
}

func (s *stubRepo) SaveEvent(ctx context.Context, item *models.Event) error {
	s.events[item.ID] = *item
	return nil
}

func (s *stubRepo) ListEventsByInitiator(ctx context.Context, initiatorID uint64, limit, offset int) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range s.events {
		if ev.InitiatorID == initiatorID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) SearchEvents(ctx context.Context, params repository.SearchEventsParams) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range s.events {
		if !matchEvent(ev, params) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return nil, nil
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out, nil
}

func (s *stubRepo) CountEvents(ctx context.Context, params repository.SearchEventsParams) (int64, error) {
	var n int64
	for _, ev := range s.events {
		if matchEvent(ev, params) {
			n++
		}
	}
	return n, nil
}

func matchEvent(ev models.Event, params repository.SearchEventsParams) bool {
	if len(params.States) > 0 {
		found := false
		for _, st := range params.States {
			if ev.State == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(params.InitiatorIDs) > 0 && !containsID(params.InitiatorIDs, ev.InitiatorID) {
		return false
	}
	if len(params.CategoryIDs) > 0 && !containsID(params.CategoryIDs, ev.CategoryID) {
		return false
	}
	if params.Paid != nil && ev.Paid != *params.Paid {
		return false
	}
	if params.RangeStart != nil && ev.EventDate.Before(*params.RangeStart) {
		return false
	}
	if params.RangeEnd != nil && ev.EventDate.After(*params.RangeEnd) {
		return false
	}
	return true
}

func (s *stubRepo) ListEventsByIDs(ctx context.Context, ids []uint64) ([]models.Event, error) {
	out := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		if ev, ok := s.events[id]; ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *stubRepo) ListStalePendingEvents(ctx context.Context, before time.Time, limit int) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range s.events {
		if ev.State == models.EventStatePending && ev.EventDate.Before(before) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubRepo) GetEventForUpdateTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Event, error) {
	return s.GetEventByID(ctx, id)
}

func (s *stubRepo) CreateRequestTx(ctx context.Context, tx *gorm.DB, item *models.ParticipationRequest) error {
	item.ID = s.id()
	s.requests[item.ID] = *item
	return nil
}

func (s *stubRepo) GetRequestByID(ctx context.Context, id uint64) (*models.ParticipationRequest, error) {
	if r, ok := s.requests[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *stubRepo) SaveRequest(ctx context.Context, item *models.ParticipationRequest) error {
	s.requests[item.ID] = *item
	return nil
}

func (s *stubRepo) ListRequestsByRequester(ctx context.Context, requesterID uint64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, r := range s.requests {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) ListRequestsByEvent(ctx context.Context, eventID uint64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, r := range s.requests {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) ListRequestsByIDs(ctx context.Context, ids []uint64) ([]models.ParticipationRequest, error) {
	out := make([]models.ParticipationRequest, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.requests[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepo) CountRequestsByRequesterAndEventTx(ctx context.Context, tx *gorm.DB, requesterID, eventID uint64) (int64, error) {
	var n int64
	for _, r := range s.requests {
		if r.RequesterID == requesterID && r.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) CountConfirmedRequestsTx(ctx context.Context, tx *gorm.DB, eventID uint64) (int64, error) {
	var n int64
	for _, r := range s.requests {
		if r.EventID == eventID && r.Status == models.RequestStatusConfirmed {
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) UpdateRequestStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status models.RequestStatus) error {
	r := s.requests[id]
	r.Status = status
	s.requests[id] = r
	return nil
}

func (s *stubRepo) CountConfirmedByEventIDs(ctx context.Context, eventIDs []uint64) ([]models.ConfirmedCount, error) {
	counts := map[uint64]int64{}
	for _, r := range s.requests {
		if r.Status == models.RequestStatusConfirmed && containsID(eventIDs, r.EventID) {
			counts[r.EventID]++
		}
	}
	var out []models.ConfirmedCount
	for id, n := range counts {
		out = append(out, models.ConfirmedCount{EventID: id, Count: n})
	}
	return out, nil
}

func (s *stubRepo) CreateComment(ctx context.Context, item *models.Comment) error {
	item.ID = s.id()
	s.comments[item.ID] = *item
	return nil
}

func (s *stubRepo) GetCommentByID(ctx context.Context, id uint64) (*models.Comment, error) {
	if c, ok := s.comments[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *stubRepo) SaveComment(ctx context.Context, item *models.Comment) error {
	s.comments[item.ID] = *item
	return nil
}

func (s *stubRepo) DeleteComment(ctx context.Context, id uint64) error {
	delete(s.comments, id)
	return nil
}

func (s *stubRepo) ListCommentsByEvent(ctx context.Context, eventID uint64, limit, offset int) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range s.comments {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountCommentsByEventIDs(ctx context.Context, eventIDs []uint64) ([]models.CommentCount, error) {
	counts := map[uint64]int64{}
	for _, c := range s.comments {
		if containsID(eventIDs, c.EventID) {
			counts[c.EventID]++
		}
	}
	var out []models.CommentCount
	for id, n := range counts {
		out = append(out, models.CommentCount{EventID: id, Count: n})
	}
	return out, nil
}

func (s *stubRepo) CreateCompilation(ctx context.Context, item *models.Compilation) error {
	item.ID = s.id()
	s.compilations[item.ID] = *item
	return nil
}

func (s *stubRepo) GetCompilationByID(ctx context.Context, id uint64) (*models.Compilation, error) {
	if c, ok := s.compilations[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *stubRepo) SaveCompilation(ctx context.Context, item *models.Compilation) error {
	s.compilations[item.ID] = *item
	return nil
}

func (s *stubRepo) ReplaceCompilationEvents(ctx context.Context, item *models.Compilation, events []models.Event) error {
	c := s.compilations[item.ID]
	c.Events = events
	s.compilations[item.ID] = c
	return nil
}

func (s *stubRepo) DeleteCompilation(ctx context.Context, id uint64) error {
	delete(s.compilations, id)
	return nil
}

func (s *stubRepo) ListCompilations(ctx context.Context, params repository.ListCompilationsParams) ([]models.Compilation, error) {
	var out []models.Compilation
	for _, c := range s.compilations {
		if params.Pinned != nil && c.Pinned != *params.Pinned {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountCompilations(ctx context.Context, params repository.ListCompilationsParams) (int64, error) {
	items, _ := s.ListCompilations(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	s.settings[item.Key] = *item
	return nil
}

func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if item, ok := s.settings[key]; ok {
		return &item, nil
	}
	return nil, nil
}

func (s *stubRepo) ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error) {
	var out []models.SystemSetting
	for _, item := range s.settings {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
