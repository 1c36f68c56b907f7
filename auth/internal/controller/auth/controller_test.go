package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"cineview/auth/internal/gateway"
	"cineview/auth/pkg/token"
	"cineview/user/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsers struct {
	registerErr error
	authErr     error
	user        *model.PublicUser
}

func (s *stubUsers) Register(_ context.Context, reg *model.Registration) (*model.PublicUser, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &model.PublicUser{ID: "u1", Username: reg.Username, Email: reg.Email}, nil
}

func (s *stubUsers) Authenticate(context.Context, *model.Credentials) (*model.PublicUser, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.user, nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		reg     *model.Registration
		gateErr error
		wantErr error
	}{
		{name: "success", reg: &model.Registration{Username: "alice", Email: "Alice@example.com", Password: "secret123"}},
		{name: "duplicate", reg: &model.Registration{Username: "alice", Email: "alice@example.com", Password: "secret123"}, gateErr: gateway.ErrUserExists, wantErr: ErrUserExists},
		{name: "missing email", reg: &model.Registration{Username: "alice", Password: "secret123"}, wantErr: ErrValidation},
		{name: "unexpected error", reg: &model.Registration{Username: "alice", Email: "alice@example.com", Password: "secret123"}, gateErr: errors.New("boom"), wantErr: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := token.New("secret", time.Hour)
			require.NoError(t, err)
			c := New(&stubUsers{registerErr: tt.gateErr}, tokens, zap.NewNop())
			u, err := c.Register(context.Background(), tt.reg)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrValidation) {
					assert.ErrorIs(t, err, ErrValidation)
				} else {
					assert.Equal(t, tt.wantErr, err)
				}
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice@example.com", u.Email)
		})
	}
}

func TestLogin(t *testing.T) {
	tokens, err := token.New("secret", time.Hour)
	require.NoError(t, err)
	alice := &model.PublicUser{ID: "507f1f77bcf86cd799439011", Username: "alice", Email: "alice@example.com"}
	ctx := context.Background()

	c := New(&stubUsers{user: alice}, tokens, zap.NewNop())
	session, err := c.Login(ctx, &model.Credentials{Username: " alice ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, *alice, session.User)
	id, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id.UserID)
	assert.Equal(t, "alice", id.Username)

	c = New(&stubUsers{authErr: gateway.ErrInvalidCredentials}, tokens, zap.NewNop())
	_, err = c.Login(ctx, &model.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = c.Login(ctx, &model.Credentials{Username: "alice"})
	assert.ErrorIs(t, err, ErrValidation)
}
