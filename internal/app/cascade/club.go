// internal/app/cascade/club.go
//
// Club lifecycle: creation, direct field edits, the rename cascade, and
// deletion.
package cascade

import (
	"context"

	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/app/system/normalize"
	"github.com/clubnexus/clubnexus/internal/domain/models"
	"go.uber.org/zap"
)

// clubFields are the direct-edit mutation targets on a club record.
// Name changes cascade and go through RenameClub instead.
var clubFields = map[string]bool{
	"dates":       true,
	"picture":     true,
	"description": true,
}

// CreateClub inserts a new club with empty membership tiers.
func (e *Engine) CreateClub(ctx context.Context, c models.Club) (models.Club, error) {
	c.Name = normalize.Name(c.Name)
	if c.Name == "" || c.Dates == "" {
		return models.Club{}, apierr.New(apierr.Validation, "name and dates are required")
	}
	c.Members = models.Members{
		Students: []string{},
		Officers: []string{},
		Advisors: []string{},
	}

	release := e.locks.Lock(c.Name)
	defer release()

	var created models.Club
	err := e.run.InUnit(ctx, func(ctx context.Context) error {
		existing, err := e.clubs.GetByName(ctx, c.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.New(apierr.Conflict, "club already exists: %s", c.Name)
		}
		created, err = e.clubs.Insert(ctx, c)
		return err
	})
	if err != nil {
		return models.Club{}, err
	}

	e.log.Info("club created", zap.String("name", created.Name))
	return created, nil
}

// GetClub returns the club with the given name.
func (e *Engine) GetClub(ctx context.Context, name string) (*models.Club, error) {
	return e.requireClub(ctx, normalize.Name(name))
}

// UpdateClubField applies a direct edit to one of the non-cascading
// club fields. Unknown fields are rejected with InvalidField.
func (e *Engine) UpdateClubField(ctx context.Context, name, field, value string) error {
	name = normalize.Name(name)
	if !clubFields[field] {
		return apierr.New(apierr.InvalidField, "invalid field: %s", field)
	}
	if value == "" {
		return apierr.New(apierr.Validation, "missing value for field %s", field)
	}
	if _, err := e.requireClub(ctx, name); err != nil {
		return err
	}
	if err := e.clubs.UpdateField(ctx, name, field, value); err != nil {
		return err
	}
	e.log.Info("club updated", zap.String("name", name), zap.String("field", field))
	return nil
}

// RenameClub rewrites every reference to oldName — entries in user club
// lists, note club names — and then the club record itself. Fails with
// Conflict when a club named newName already exists; nothing is written
// in that case.
func (e *Engine) RenameClub(ctx context.Context, oldName, newName string) error {
	oldName = normalize.Name(oldName)
	newName = normalize.Name(newName)
	if oldName == "" || newName == "" {
		return apierr.New(apierr.Validation, "current and new club name are required")
	}

	release := e.locks.Lock(oldName, newName)
	defer release()

	if err := e.run.InUnit(ctx, func(ctx context.Context) error {
		if _, err := e.requireClub(ctx, oldName); err != nil {
			return err
		}
		existing, err := e.clubs.GetByName(ctx, newName)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.New(apierr.Conflict, "club already exists: %s", newName)
		}

		if err := e.users.RenameClubRefs(ctx, oldName, newName); err != nil {
			return err
		}
		if err := e.notes.RenameClub(ctx, oldName, newName); err != nil {
			return err
		}
		return e.clubs.SetName(ctx, oldName, newName)
	}); err != nil {
		return err
	}

	e.log.Info("club renamed", zap.String("from", oldName), zap.String("to", newName))
	return nil
}

// DeleteClub removes the club's name from every user's membership
// lists, purges all notes scoped to the club, and deletes the club
// record.
func (e *Engine) DeleteClub(ctx context.Context, name string) error {
	name = normalize.Name(name)
	if name == "" {
		return apierr.New(apierr.Validation, "club name is required")
	}

	release := e.locks.Lock(name)
	defer release()

	if err := e.run.InUnit(ctx, func(ctx context.Context) error {
		if _, err := e.requireClub(ctx, name); err != nil {
			return err
		}
		if err := e.users.RemoveClubRefs(ctx, name); err != nil {
			return err
		}
		if _, err := e.notes.DeleteByClub(ctx, name); err != nil {
			return err
		}
		return e.clubs.Delete(ctx, name)
	}); err != nil {
		return err
	}

	e.log.Info("club deleted", zap.String("name", name))
	return nil
}
