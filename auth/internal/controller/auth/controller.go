package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cineview/auth/internal/gateway"
	"cineview/internal/validation"
	"cineview/pkg/logging"
	"cineview/user/pkg/model"

	"go.uber.org/zap"
)

var (
	// ErrValidation is returned when request fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrUserExists is returned when the username or email is taken.
	ErrUserExists = errors.New("username or email already exists")
	// ErrInvalidCredentials is returned when a login does not match a user.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type userGateway interface {
	Register(ctx context.Context, reg *model.Registration) (*model.PublicUser, error)
	Authenticate(ctx context.Context, creds *model.Credentials) (*model.PublicUser, error)
}

type tokenIssuer interface {
	Issue(userID, username string) (string, error)
}

// Session defines the result of a successful login.
type Session struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Controller defines an auth service controller.
type Controller struct {
	users  userGateway
	tokens tokenIssuer
	logger *zap.Logger
}

// New creates an auth service controller.
func New(users userGateway, tokens tokenIssuer, logger *zap.Logger) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "auth"),
	)
	return &Controller{users: users, tokens: tokens, logger: logger}
}

// Register creates an account.
func (c *Controller) Register(ctx context.Context, reg *model.Registration) (*model.PublicUser, error) {
	reg.Normalize()
	if err := validation.Struct(reg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	u, err := c.users.Register(ctx, reg)
	if errors.Is(err, gateway.ErrUserExists) {
		return nil, ErrUserExists
	} else if err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials and issues a token for the user.
func (c *Controller) Login(ctx context.Context, creds *model.Credentials) (*Session, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := validation.Struct(creds); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	u, err := c.users.Authenticate(ctx, creds)
	if errors.Is(err, gateway.ErrInvalidCredentials) {
		c.logger.Debug("Login rejected", zap.String("username", creds.Username))
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	token, err := c.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *u}, nil
}
