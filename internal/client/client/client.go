package client

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/client/models"
)

// Kind selects the credential submission endpoint.
type Kind string

const (
	KindLogin    Kind = "login"
	KindRegister Kind = "register"
)

func (k Kind) String() string { return string(k) }

// Credentials is the body of a login or register submission.
type Credentials struct {
	Username string
	Password string
}

// Image is a binary image fetched from the backend.
type Image struct {
	ContentType string
	Data        []byte
}

// Extension returns the file extension matching the content type.
func (i Image) Extension() string {
	switch i.ContentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}

type Client interface {
	// CheckSession resolves the stored credential, if any, into a user.
	CheckSession(ctx context.Context) (models.User, error)
	// SubmitCredentials logs in or registers, establishing a session on success.
	SubmitCredentials(ctx context.Context, kind Kind, creds Credentials) (models.User, error)
	// EndSession asks the server to invalidate the credential.
	EndSession(ctx context.Context) error
	ListUsers(ctx context.Context) ([]models.User, error)
	RandomImage(ctx context.Context) (Image, error)
	Close() error
}
