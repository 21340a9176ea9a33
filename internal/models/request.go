package models

import "time"

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// ParticipationRequest is a user's application to attend an event. At most one
// row per (requester, event) pair may exist at a time.
type ParticipationRequest struct {
	ID          uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID     uint64        `gorm:"not null;index:idx_requests_event_requester,unique" json:"event"`
	RequesterID uint64        `gorm:"not null;index:idx_requests_event_requester,unique" json:"requester"`
	Status      RequestStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Created     time.Time     `gorm:"type:timestamptz;autoCreateTime" json:"created"`
}

func (ParticipationRequest) TableName() string {
	return "participation_requests"
}

// ConfirmedCount is a grouped projection of CONFIRMED rows per event, used by
// the read-model enricher.
type ConfirmedCount struct {
	EventID uint64
	Count   int64
}
