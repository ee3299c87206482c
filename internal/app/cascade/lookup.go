// internal/app/cascade/lookup.go
package cascade

import (
	"context"

	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/domain/models"
)

// requireUser loads a user or returns a NotFound error.
func (e *Engine) requireUser(ctx context.Context, email string) (*models.User, error) {
	u, err := e.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apierr.New(apierr.NotFound, "user not found: %s", email)
	}
	return u, nil
}

// requireClub loads a club or returns a NotFound error.
func (e *Engine) requireClub(ctx context.Context, name string) (*models.Club, error) {
	c, err := e.clubs.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apierr.New(apierr.NotFound, "club not found: %s", name)
	}
	return c, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func without(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
