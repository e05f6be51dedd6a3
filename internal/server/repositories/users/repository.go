// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

type Repository interface {
	// Create inserts user and returns common.ErrUsernameTaken when the name
	// is already registered.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
