package local

import (
	"context"

	"cineview/movie/pkg/model"
	usermodel "cineview/user/pkg/model"
)

type userLookup interface {
	GetMany(ctx context.Context, ids []string) ([]usermodel.PublicUser, error)
}

// Gateway defines an in-process user gateway.
type Gateway struct {
	users userLookup
}

// New creates a new in-process user gateway.
func New(users userLookup) *Gateway {
	return &Gateway{users: users}
}

// Raters resolves user ids to public rater profiles. Ids without a user
// are absent from the result.
func (g *Gateway) Raters(ctx context.Context, ids []string) (map[string]model.Rater, error) {
	users, err := g.users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make(map[string]model.Rater, len(users))
	for _, u := range users {
		res[u.ID] = model.Rater{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return res, nil
}
