package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"evently/internal/models"
)

// SearchEventsParams covers both the admin and the public event search
// surfaces; unused filters stay nil.
type SearchEventsParams struct {
	Text         *string
	CategoryIDs  []uint64
	InitiatorIDs []uint64
	States       []models.EventState
	Paid         *bool
	RangeStart   *time.Time
	RangeEnd     *time.Time
	Limit        int
	Offset       int
	OrderBy      string
	Asc          *bool
}

type ListUsersParams struct {
	IDs    []uint64
	Limit  int
	Offset int
}

type ListCompilationsParams struct {
	Pinned *bool
	Limit  int
	Offset int
}

// Repository is the persistence contract the services depend on. Methods with
// a Tx suffix run against an open transaction so the capacity engine can hold
// a row lock across its read-decide-write sequence.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Users.
	CreateUser(ctx context.Context, item *models.User) error
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	ListUsers(ctx context.Context, params ListUsersParams) ([]models.User, error)
	CountUsers(ctx context.Context, params ListUsersParams) (int64, error)
	DeleteUser(ctx context.Context, id uint64) error

	// Categories.
	CreateCategory(ctx context.Context, item *models.Category) error
	GetCategoryByID(ctx context.Context, id uint64) (*models.Category, error)
	SaveCategory(ctx context.Context, item *models.Category) error
	DeleteCategory(ctx context.Context, id uint64) error
	ListCategories(ctx context.Context, limit, offset int) ([]models.Category, error)
	CountEventsByCategory(ctx context.Context, categoryID uint64) (int64, error)

	// Events.
	CreateEvent(ctx context.Context, item *models.Event) error
	GetEventByID(ctx context.Context, id uint64) (*models.Event, error)
	SaveEvent(ctx context.Context, item *models.Event) error
	ListEventsByInitiator(ctx context.Context, initiatorID uint64, limit, offset int) ([]models.Event, error)
	SearchEvents(ctx context.Context, params SearchEventsParams) ([]models.Event, error)
	CountEvents(ctx context.Context, params SearchEventsParams) (int64, error)
	ListEventsByIDs(ctx context.Context, ids []uint64) ([]models.Event, error)
	ListStalePendingEvents(ctx context.Context, before time.Time, limit int) ([]models.Event, error)
	GetEventForUpdateTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Event, error)

	// Participation requests.
	CreateRequestTx(ctx context.Context, tx *gorm.DB, item *models.ParticipationRequest) error
	GetRequestByID(ctx context.Context, id uint64) (*models.ParticipationRequest, error)
	SaveRequest(ctx context.Context, item *models.ParticipationRequest) error
	ListRequestsByRequester(ctx context.Context, requesterID uint64) ([]models.ParticipationRequest, error)
	ListRequestsByEvent(ctx context.Context, eventID uint64) ([]models.ParticipationRequest, error)
	ListRequestsByIDs(ctx context.Context, ids []uint64) ([]models.ParticipationRequest, error)
	CountRequestsByRequesterAndEventTx(ctx context.Context, tx *gorm.DB, requesterID, eventID uint64) (int64, error)
	CountConfirmedRequestsTx(ctx context.Context, tx *gorm.DB, eventID uint64) (int64, error)
	UpdateRequestStatusTx(ctx context.Context, tx *gorm.DB, id uint64, status models.RequestStatus) error
	CountConfirmedByEventIDs(ctx context.Context, eventIDs []uint64) ([]models.ConfirmedCount, error)

	// Comments.
	CreateComment(ctx context.Context, item *models.Comment) error
	GetCommentByID(ctx context.Context, id uint64) (*models.Comment, error)
	SaveComment(ctx context.Context, item *models.Comment) error
	DeleteComment(ctx context.Context, id uint64) error
	ListCommentsByEvent(ctx context.Context, eventID uint64, limit, offset int) ([]models.Comment, error)
	CountCommentsByEventIDs(ctx context.Context, eventIDs []uint64) ([]models.CommentCount, error)

	// Compilations.
	CreateCompilation(ctx context.Context, item *models.Compilation) error
	GetCompilationByID(ctx context.Context, id uint64) (*models.Compilation, error)
	SaveCompilation(ctx context.Context, item *models.Compilation) error
	ReplaceCompilationEvents(ctx context.Context, item *models.Compilation, events []models.Event) error
	DeleteCompilation(ctx context.Context, id uint64) error
	ListCompilations(ctx context.Context, params ListCompilationsParams) ([]models.Compilation, error)
	CountCompilations(ctx context.Context, params ListCompilationsParams) (int64, error)

	// System settings.
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error)
}
