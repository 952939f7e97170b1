package model

import (
	"time"

	"github.com/google/uuid"
)

type MailingStatus string

const (
	MailingStatusCreated  MailingStatus = "created"
	MailingStatusLaunched MailingStatus = "launched"
	MailingStatusDone     MailingStatus = "done"
	MailingStatusDisabled MailingStatus = "disabled"
)

// Valid reports whether s is a known mailing status.
func (s MailingStatus) Valid() bool {
	switch s {
	case MailingStatusCreated, MailingStatusLaunched, MailingStatusDone, MailingStatusDisabled:
		return true
	}
	return false
}

// Mailing sends one Message to an ordered set of Recipients.
type Mailing struct {
	Base
	Owned
	StartTime    *time.Time    `json:"start_time,omitempty" db:"start_time"`
	EndTime      *time.Time    `json:"end_time,omitempty" db:"end_time"`
	Status       MailingStatus `json:"status" db:"status"`
	MessageID    uuid.UUID     `json:"message_id" db:"message_id"`
	RecipientIDs []uuid.UUID   `json:"recipient_ids" db:"-"`
}

type MailingRequest struct {
	MessageID    uuid.UUID   `json:"message_id" validate:"required"`
	RecipientIDs []uuid.UUID `json:"recipient_ids" validate:"dive,required"`
}

// MailingDetail is a mailing with its message and recipients resolved.
type MailingDetail struct {
	*Mailing
	Message    *Message     `json:"message"`
	Recipients []*Recipient `json:"recipients"`
}
