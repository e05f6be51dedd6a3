// Package services contains the backend's business logic. UserService
// registers accounts, checks passwords and turns session tokens back into
// users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/cryptox"
	"github.com/dmitrijs2005/gophsession/internal/dbx"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/validator"
	"github.com/google/uuid"
)

// Field messages sent back on a refused submission.
const (
	MsgMissingFields  = "Missing username or password."
	MsgUsernameTaken  = "Username is taken!"
	MsgBadCredentials = "Username or password is incorrect!"
)

const maxHashedBytes = 72

// InputError reports a submission that breaks the field rules. Message is
// safe to show to the user.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

type UserService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	jwtSecret        []byte
	sessionValidity  time.Duration
	unknownUserProbe []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, secret []byte, validity time.Duration) (*UserService, error) {
	// Hashed once so that a login for an unknown name costs the same as a
	// wrong password.
	probe, err := cryptox.HashPassword([]byte(uuid.NewString()))
	if err != nil {
		return nil, fmt.Errorf("error preparing password probe: %w", err)
	}

	return &UserService{
		db:               db,
		repomanager:      m,
		jwtSecret:        secret,
		sessionValidity:  validity,
		unknownUserProbe: probe,
	}, nil
}

// SessionValidity is the lifetime of the tokens this service issues.
func (s *UserService) SessionValidity() time.Duration {
	return s.sessionValidity
}

// Register creates an account and returns it with a fresh session token.
// A duplicate name yields common.ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	if err := checkFields(username, password); err != nil {
		return nil, "", err
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByLogin(ctx, username)
		switch {
		case err == nil:
			return common.ErrUsernameTaken
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		user, err = repo.Create(ctx, &models.User{
			ID:           uuid.NewString(),
			UserName:     username,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the password and returns the user with a fresh session token.
// An unknown name and a wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", &InputError{Message: MsgMissingFields}
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = cryptox.CheckPassword(s.unknownUserProbe, []byte(password))
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}

	if err := cryptox.CheckPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a session token to its user. Tokens of accounts
// that no longer exist are invalid.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

func (s *UserService) issue(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

func checkFields(username, password string) error {
	if username == "" || password == "" {
		return &InputError{Message: MsgMissingFields}
	}
	if v := validator.ValidateUsername(username); !v.OK() {
		return &InputError{Message: v.String()}
	}
	if v := validator.ValidatePassword(password); !v.OK() {
		return &InputError{Message: v.String()}
	}
	// bcrypt reads at most 72 bytes; 32 multi-byte runes can exceed that.
	if len(password) > maxHashedBytes {
		return &InputError{Message: validator.MsgPasswordLength}
	}
	return nil
}
