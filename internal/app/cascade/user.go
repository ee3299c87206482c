// internal/app/cascade/user.go
//
// User lifecycle: creation, direct field edits, the email rename
// cascade, the account type transition, and deletion.
package cascade

import (
	"context"

	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/app/system/normalize"
	"github.com/clubnexus/clubnexus/internal/domain/models"
	"go.uber.org/zap"
)

// userFields are the direct-edit mutation targets on a user record.
// Email and type changes cascade and go through RenameUserEmail /
// ChangeUserType instead.
var userFields = map[string]bool{
	"firstName": true,
	"lastName":  true,
	"schoolID":  true,
}

// CreateUser inserts a new user with the club list defaults for its
// type. When the new user is an admin, one personal note authored by
// them is seeded for every student and officer of every club.
func (e *Engine) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u.Email = normalize.Email(u.Email)
	u.FirstName = normalize.Name(u.FirstName)
	u.LastName = normalize.Name(u.LastName)
	if u.Email == "" || u.FirstName == "" || u.LastName == "" {
		return models.User{}, apierr.New(apierr.Validation, "firstName, lastName, and email are required")
	}
	if !models.ValidType(u.Type) {
		return models.User{}, apierr.New(apierr.InvalidField, "invalid user type: %s", u.Type)
	}

	lists := models.ClubLists(u.Type)
	u.ClubsAttending = lists.Attending
	u.ClubsOfficer = lists.Officer
	u.ClubsAdvisor = lists.Advisor

	release := e.locks.Lock(u.Email)
	defer release()

	var created models.User
	err := e.run.InUnit(ctx, func(ctx context.Context) error {
		existing, err := e.users.GetByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.New(apierr.Conflict, "user with email %s already exists", u.Email)
		}

		created, err = e.users.Insert(ctx, u)
		if err != nil {
			return err
		}

		if u.Type == models.TypeAdmin {
			return e.seedAdminPersonalNotes(ctx, u.Email)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	e.log.Info("user created", zap.String("email", created.Email), zap.String("type", created.Type))
	return created, nil
}

// seedAdminPersonalNotes creates one personal note authored by
// adminEmail for every student and officer of every club.
func (e *Engine) seedAdminPersonalNotes(ctx context.Context, adminEmail string) error {
	clubs, err := e.clubs.List(ctx)
	if err != nil {
		return err
	}
	for _, club := range clubs {
		for _, member := range club.Members.Students {
			if err := e.insertPersonalNote(ctx, adminEmail, member, club.Name); err != nil {
				return err
			}
		}
		for _, member := range club.Members.Officers {
			if err := e.insertPersonalNote(ctx, adminEmail, member, club.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetUser returns the user with the given email.
func (e *Engine) GetUser(ctx context.Context, email string) (*models.User, error) {
	return e.requireUser(ctx, normalize.Email(email))
}

// ListUsers returns every user record.
func (e *Engine) ListUsers(ctx context.Context) ([]models.User, error) {
	return e.users.List(ctx)
}

// UpdateUserField applies a direct edit to one of the non-cascading
// user fields. Unknown fields are rejected with InvalidField.
func (e *Engine) UpdateUserField(ctx context.Context, email, field, value string) error {
	email = normalize.Email(email)
	if !userFields[field] {
		return apierr.New(apierr.InvalidField, "invalid field: %s", field)
	}
	if value == "" {
		return apierr.New(apierr.Validation, "missing value for field %s", field)
	}
	if _, err := e.requireUser(ctx, email); err != nil {
		return err
	}
	if err := e.users.UpdateField(ctx, email, field, value); err != nil {
		return err
	}
	e.log.Info("user updated", zap.String("email", email), zap.String("field", field))
	return nil
}

// RenameUserEmail rewrites every reference to oldEmail — club tier
// entries across all clubs, note creator and member fields — and then
// the user record itself. Fails with Conflict when newEmail is taken.
func (e *Engine) RenameUserEmail(ctx context.Context, oldEmail, newEmail string) error {
	oldEmail = normalize.Email(oldEmail)
	newEmail = normalize.Email(newEmail)
	if oldEmail == "" || newEmail == "" {
		return apierr.New(apierr.Validation, "current and new email are required")
	}

	release := e.locks.Lock(oldEmail, newEmail)
	defer release()

	if err := e.run.InUnit(ctx, func(ctx context.Context) error {
		if _, err := e.requireUser(ctx, oldEmail); err != nil {
			return err
		}
		existing, err := e.users.GetByEmail(ctx, newEmail)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.New(apierr.Conflict, "user with email %s already exists", newEmail)
		}

		if err := e.clubs.ReplaceMemberEmail(ctx, oldEmail, newEmail); err != nil {
			return err
		}
		// Both fields may need rewriting on the same note.
		if err := e.notes.ReplaceCreator(ctx, oldEmail, newEmail); err != nil {
			return err
		}
		if err := e.notes.ReplaceMember(ctx, oldEmail, newEmail); err != nil {
			return err
		}
		return e.users.SetEmail(ctx, oldEmail, newEmail)
	}); err != nil {
		return err
	}

	e.log.Info("user email renamed", zap.String("from", oldEmail), zap.String("to", newEmail))
	return nil
}

// ChangeUserType transitions a user to a new account type: membership
// lists reset to the new type's defaults, every club tier occupancy is
// removed, all notes referencing the user are purged, and a promotion
// to admin seeds personal notes for every student and officer of every
// club. Requesting the current type is a no-op.
func (e *Engine) ChangeUserType(ctx context.Context, email, newType string) error {
	email = normalize.Email(email)
	if !models.ValidType(newType) {
		return apierr.New(apierr.InvalidField, "invalid user type: %s", newType)
	}

	release := e.locks.Lock(email)
	defer release()

	changed := false
	if err := e.run.InUnit(ctx, func(ctx context.Context) error {
		user, err := e.requireUser(ctx, email)
		if err != nil {
			return err
		}
		if user.Type == newType {
			return nil
		}
		changed = true

		if err := e.clubs.RemoveMemberEverywhere(ctx, email); err != nil {
			return err
		}
		if _, err := e.notes.DeleteByParticipant(ctx, email, ""); err != nil {
			return err
		}
		if newType == models.TypeAdmin {
			if err := e.seedAdminPersonalNotes(ctx, email); err != nil {
				return err
			}
		}
		return e.users.SetTypeAndLists(ctx, email, newType, models.ClubLists(newType))
	}); err != nil {
		return err
	}

	if changed {
		e.log.Info("user type changed", zap.String("email", email), zap.String("type", newType))
	}
	return nil
}

// DeleteUser removes the user from every club tier, purges all notes
// referencing them as creator or member, and deletes the user record.
func (e *Engine) DeleteUser(ctx context.Context, email string) error {
	email = normalize.Email(email)
	if email == "" {
		return apierr.New(apierr.Validation, "email is required")
	}

	release := e.locks.Lock(email)
	defer release()

	if err := e.run.InUnit(ctx, func(ctx context.Context) error {
		if _, err := e.requireUser(ctx, email); err != nil {
			return err
		}
		if err := e.clubs.RemoveMemberEverywhere(ctx, email); err != nil {
			return err
		}
		if _, err := e.notes.DeleteByParticipant(ctx, email, ""); err != nil {
			return err
		}
		return e.users.Delete(ctx, email)
	}); err != nil {
		return err
	}

	e.log.Info("user deleted", zap.String("email", email))
	return nil
}
