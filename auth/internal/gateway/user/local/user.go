package local

import (
	"context"
	"errors"

	"cineview/auth/internal/gateway"
	"cineview/user/pkg/model"
)

type userService interface {
	Register(ctx context.Context, reg *model.Registration) (*model.User, error)
	Authenticate(ctx context.Context, creds *model.Credentials) (*model.User, error)
}

// Gateway defines an in-process user gateway.
type Gateway struct {
	users userService
}

// New creates a new in-process user gateway.
func New(users userService) *Gateway {
	return &Gateway{users: users}
}

// Register creates an account.
func (g *Gateway) Register(ctx context.Context, reg *model.Registration) (*model.PublicUser, error) {
	u, err := g.users.Register(ctx, reg)
	if errors.Is(err, model.ErrUserExists) {
		return nil, gateway.ErrUserExists
	} else if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// Authenticate checks credentials and returns the matching user.
func (g *Gateway) Authenticate(ctx context.Context, creds *model.Credentials) (*model.PublicUser, error) {
	u, err := g.users.Authenticate(ctx, creds)
	if errors.Is(err, model.ErrInvalidCredentials) {
		return nil, gateway.ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}
