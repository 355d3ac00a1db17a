package ports

import "context"

// EmailMessage is a single outbound HTML email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email synchronously; a returned error means not delivered.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}
