package models

import (
	"time"
)

type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// StateAction is the lifecycle action a caller may attach to an event update.
type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionPublishEvent StateAction = "PUBLISH_EVENT"
	ActionRejectEvent  StateAction = "REJECT_EVENT"
)

type Location struct {
	Lat float64 `gorm:"not null" json:"lat"`
	Lon float64 `gorm:"not null" json:"lon"`
}

type Event struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(120);not null" json:"title"`
	Annotation  string `gorm:"type:varchar(2000);not null" json:"annotation"`
	Description string `gorm:"type:text;not null" json:"description"`

	CategoryID uint64   `gorm:"not null;index" json:"-"`
	Category   Category `json:"category"`

	InitiatorID uint64 `gorm:"not null;index" json:"-"`
	Initiator   User   `json:"initiator"`

	Location Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`

	EventDate         time.Time  `gorm:"type:timestamptz;not null;index" json:"eventDate"`
	Paid              bool       `gorm:"not null;default:false" json:"paid"`
	ParticipantLimit  int        `gorm:"not null;default:0" json:"participantLimit"`
	RequestModeration bool       `gorm:"not null;default:true" json:"requestModeration"`
	State             EventState `gorm:"type:varchar(20);not null;index;default:'PENDING'" json:"state"`
	CreatedOn         time.Time  `gorm:"type:timestamptz;autoCreateTime" json:"createdOn"`
	PublishedOn       *time.Time `gorm:"type:timestamptz" json:"publishedOn,omitempty"`

	// Derived read-model fields, recomputed from the ledger and the stats
	// collector before an event is returned to a caller. Never persisted.
	Views             int64 `gorm:"-" json:"views"`
	ConfirmedRequests int64 `gorm:"-" json:"confirmedRequests"`
	Comments          int64 `gorm:"-" json:"comments"`
}

func (Event) TableName() string {
	return "events"
}

// Available reports whether the event can still admit confirmed participants.
func (e *Event) Available() bool {
	return e.ParticipantLimit == 0 || e.ConfirmedRequests < int64(e.ParticipantLimit)
}
