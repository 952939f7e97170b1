package model

import (
	"time"

	"github.com/google/uuid"
)

type AttemptStatus string

const (
	AttemptStatusSuccess AttemptStatus = "success"
	AttemptStatusFail    AttemptStatus = "fail"
)

// SendingAttempt is an append-only record of one delivery to one recipient.
// OwnerID is the owning mailing's owner and is not stored on the row.
type SendingAttempt struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	Status         AttemptStatus `json:"status" db:"status"`
	Answer         string        `json:"answer" db:"answer"`
	RecipientEmail string        `json:"recipient_email" db:"recipient_email"`
	MailingID      uuid.UUID     `json:"mailing_id" db:"mailing_id"`
	Owned
}
