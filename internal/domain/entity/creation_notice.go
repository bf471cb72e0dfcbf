package entity

import "fmt"

const creationNoticeSubject = "Congratulations, your user account was created successfully"

// CreationNotice is the message handed to the notification dispatcher after
// a user is created. It is not retried or persisted.
type CreationNotice struct {
	Email     string
	Subject   string
	Body      string
	UserID    string
	FirstName string
}

// NewCreationNotice builds the account-created message for u.
func NewCreationNotice(u *User) CreationNotice {
	return CreationNotice{
		Email:     u.Email,
		Subject:   creationNoticeSubject,
		Body:      fmt.Sprintf("Hello %s, click the link to activate your user in our system.", u.FirstName),
		UserID:    u.ID,
		FirstName: u.FirstName,
	}
}
