package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evently/internal/models"
	"evently/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- users -------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListUsers(ctx context.Context, params repository.ListUsersParams) ([]models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.User{})
	if len(params.IDs) > 0 {
		query = query.Where("id IN ?", params.IDs)
	}
	limit := normalizeLimit(params.Limit, 10)
	offset := normalizeOffset(params.Offset)
	var items []models.User
	if err := query.Order("id asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountUsers(ctx context.Context, params repository.ListUsersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.User{})
	if len(params.IDs) > 0 {
		query = query.Where("id IN ?", params.IDs)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) DeleteUser(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// --- categories --------------------------------------------------------------

func (s *Store) CreateCategory(ctx context.Context, item *models.Category) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetCategoryByID(ctx context.Context, id uint64) (*models.Category, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Category
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveCategory(ctx context.Context, item *models.Category) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteCategory(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

func (s *Store) ListCategories(ctx context.Context, limit, offset int) ([]models.Category, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 10)
	offset = normalizeOffset(offset)
	var items []models.Category
	if err := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Order("id asc").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountEventsByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error
	return total, err
}

// --- events ------------------------------------------------------------------

func (s *Store) CreateEvent(ctx context.Context, item *models.Event) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetEventByID(ctx context.Context, id uint64) (*models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Event
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveEvent(ctx context.Context, item *models.Event) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Omit("Category", "Initiator").Save(item).Error
}

func (s *Store) ListEventsByInitiator(ctx context.Context, initiatorID uint64, limit, offset int) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 10)
	offset = normalizeOffset(offset)
	var items []models.Event
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Where("initiator_id = ?", initiatorID).
		Order("id asc").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applySearchFilters(query *gorm.DB, params repository.SearchEventsParams) *gorm.DB {
	if params.Text != nil {
		if text := strings.TrimSpace(*params.Text); text != "" {
			pattern := "%" + strings.ToLower(text) + "%"
			query = query.Where("LOWER(annotation) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}
	}
	if len(params.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", params.CategoryIDs)
	}
	if len(params.InitiatorIDs) > 0 {
		query = query.Where("initiator_id IN ?", params.InitiatorIDs)
	}
	if len(params.States) > 0 {
		query = query.Where("state IN ?", params.States)
	}
	if params.Paid != nil {
		query = query.Where("paid = ?", *params.Paid)
	}
	if params.RangeStart != nil && !params.RangeStart.IsZero() {
		query = query.Where("event_date > ?", *params.RangeStart)
	}
	if params.RangeEnd != nil && !params.RangeEnd.IsZero() {
		query = query.Where("event_date < ?", *params.RangeEnd)
	}
	return query
}

func (s *Store) SearchEvents(ctx context.Context, params repository.SearchEventsParams) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applySearchFilters(s.db.WithContext(ctx).Model(&models.Event{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "id")
	limit := normalizeLimit(params.Limit, 10)
	offset := normalizeOffset(params.Offset)
	var items []models.Event
	if err := query.
		Preload("Category").
		Preload("Initiator").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountEvents(ctx context.Context, params repository.SearchEventsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applySearchFilters(s.db.WithContext(ctx).Model(&models.Event{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListEventsByIDs(ctx context.Context, ids []uint64) ([]models.Event, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.Event
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Where("id IN ?", ids).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListStalePendingEvents(ctx context.Context, before time.Time, limit int) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 200)
	var items []models.Event
	if err := s.db.WithContext(ctx).
		Where("state = ?", models.EventStatePending).
		Where("event_date < ?", before).
		Order("event_date asc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetEventForUpdateTx locks the event row for the duration of the transaction
// so concurrent confirmations serialize on it.
func (s *Store) GetEventForUpdateTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Event, error) {
	if s == nil || tx == nil {
		return nil, nil
	}
	var item models.Event
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- participation requests --------------------------------------------------

func (s *Store) CreateRequestTx(ctx context.Context, tx *gorm.DB, item *models.ParticipationRequest) error {
	if s == nil || tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) GetRequestByID(ctx context.Context, id uint64) (*models.ParticipationRequest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.ParticipationRequest
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveRequest(ctx context.Context, item *models.ParticipationRequest) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) ListRequestsByRequester(ctx context.Context, requesterID uint64) ([]models.ParticipationRequest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.ParticipationRequest
	if err := s.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListRequestsByEvent(ctx context.Context, eventID uint64) ([]models.ParticipationRequest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.ParticipationRequest
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListRequestsByIDs(ctx context.Context, ids []uint64) ([]models.ParticipationRequest, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.ParticipationRequest
	if err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRequestsByRequesterAndEventTx(ctx context.Context, tx *gorm.DB, requesterID, eventID uint64) (int64, error) {
	if s == nil || tx == nil {
		return 0, nil
	}
	var total int64
	err := tx.WithContext(ctx).
		Model(&models.ParticipationRequest{}).
		Where("requester_id = ? AND event_id = ?", requesterID, eventID).
		Count(&total).Error
	return total, err
}

func (s *Store) CountConfirmedRequestsTx(ctx context.Context, tx *gorm.DB, eventID uint64) (int64, error) {
	if s == nil || tx == nil {
		return 0, nil
	}
	var total int64
	err := tx.WithContext(ctx).
		Model(&models.ParticipationRequest{}).
		Where("event_id = ? AND status = ?", eventID, models.RequestStatusConfirmed).
		Count(&total).Error
	return total, err
}

func (s *Store) UpdateRequestStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status models.RequestStatus) error {
	if s == nil || tx == nil {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.ParticipationRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *Store) CountConfirmedByEventIDs(ctx context.Context, eventIDs []uint64) ([]models.ConfirmedCount, error) {
	if s == nil || s.db == nil || len(eventIDs) == 0 {
		return nil, nil
	}
	var items []models.ConfirmedCount
	if err := s.db.WithContext(ctx).
		Model(&models.ParticipationRequest{}).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ? AND status = ?", eventIDs, models.RequestStatusConfirmed).
		Group("event_id").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- comments ----------------------------------------------------------------

func (s *Store) CreateComment(ctx context.Context, item *models.Comment) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetCommentByID(ctx context.Context, id uint64) (*models.Comment, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Comment
	err := s.db.WithContext(ctx).Preload("Author").First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveComment(ctx context.Context, item *models.Comment) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Omit("Author").Save(item).Error
}

func (s *Store) DeleteComment(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

func (s *Store) ListCommentsByEvent(ctx context.Context, eventID uint64, limit, offset int) ([]models.Comment, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 10)
	offset = normalizeOffset(offset)
	var items []models.Comment
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Where("event_id = ?", eventID).
		Order("created_on desc").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCommentsByEventIDs(ctx context.Context, eventIDs []uint64) ([]models.CommentCount, error) {
	if s == nil || s.db == nil || len(eventIDs) == 0 {
		return nil, nil
	}
	var items []models.CommentCount
	if err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- compilations ------------------------------------------------------------

func (s *Store) CreateCompilation(ctx context.Context, item *models.Compilation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetCompilationByID(ctx context.Context, id uint64) (*models.Compilation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Compilation
	err := s.db.WithContext(ctx).
		Preload("Events").
		Preload("Events.Category").
		Preload("Events.Initiator").
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveCompilation(ctx context.Context, item *models.Compilation) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Omit("Events").Save(item).Error
}

func (s *Store) ReplaceCompilationEvents(ctx context.Context, item *models.Compilation, events []models.Event) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(item).Association("Events").Replace(events)
}

func (s *Store) DeleteCompilation(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Select(clause.Associations).Delete(&models.Compilation{ID: id}).Error
}

func (s *Store) ListCompilations(ctx context.Context, params repository.ListCompilationsParams) ([]models.Compilation, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Compilation{})
	if params.Pinned != nil {
		query = query.Where("pinned = ?", *params.Pinned)
	}
	limit := normalizeLimit(params.Limit, 10)
	offset := normalizeOffset(params.Offset)
	var items []models.Compilation
	if err := query.
		Preload("Events").
		Preload("Events.Category").
		Preload("Events.Initiator").
		Order("id asc").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCompilations(ctx context.Context, params repository.ListCompilationsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Compilation{})
	if params.Pinned != nil {
		query = query.Where("pinned = ?", *params.Pinned)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- system settings ---------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Key) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SystemSetting
	if err := s.db.WithContext(ctx).
		Model(&models.SystemSetting{}).
		Order("key asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers -----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
