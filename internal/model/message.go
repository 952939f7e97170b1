package model

// Message is the subject and body delivered by a mailing.
type Message struct {
	Base
	Owned
	Subject string `json:"subject" db:"subject"`
	Body    string `json:"body" db:"body"`
}

type MessageRequest struct {
	Subject string `json:"subject" validate:"required,max=150"`
	Body    string `json:"body" validate:"required"`
}
