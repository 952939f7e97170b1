package model

// Recipient is an address a mailing can be delivered to.
type Recipient struct {
	Base
	Owned
	Email    string `json:"email" db:"email"`
	FullName string `json:"full_name" db:"full_name"`
	Comment  string `json:"comment" db:"comment"`
}

type RecipientRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=150"`
	Comment  string `json:"comment"`
}
