// internal/app/cascade/note.go
//
// Note access: resolving club roles, consulting the access policy, and
// reading or writing the note body (the only user-editable note field).
package cascade

import (
	"context"

	"github.com/clubnexus/clubnexus/internal/app/policy/notepolicy"
	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/app/system/normalize"
	"github.com/clubnexus/clubnexus/internal/domain/models"
	"go.uber.org/zap"
)

// NoteRef identifies a note from the requester's point of view. For
// personal notes the creator is implicitly the requester.
type NoteRef struct {
	RequesterEmail string
	MemberEmail    string
	ClubName       string
	Type           string
}

// resolveNoteAccess validates the reference, resolves the member's and
// requester's club roles, and consults the access policy. Returns the
// normalized reference on success.
func (e *Engine) resolveNoteAccess(ctx context.Context, ref NoteRef) (NoteRef, error) {
	ref.RequesterEmail = normalize.Email(ref.RequesterEmail)
	ref.MemberEmail = normalize.Email(ref.MemberEmail)
	ref.ClubName = normalize.Name(ref.ClubName)
	if ref.MemberEmail == "" || ref.ClubName == "" || ref.Type == "" {
		return ref, apierr.New(apierr.Validation, "memberEmail, clubName, and type are required")
	}
	if !models.ValidNoteType(ref.Type) {
		return ref, apierr.New(apierr.InvalidField, "invalid note type: %s", ref.Type)
	}

	requester, err := e.requireUser(ctx, ref.RequesterEmail)
	if err != nil {
		if apierr.Is(err, apierr.NotFound) {
			return ref, apierr.New(apierr.Forbidden, "requester is not a known user")
		}
		return ref, err
	}
	member, err := e.requireUser(ctx, ref.MemberEmail)
	if err != nil {
		return ref, err
	}
	club, err := e.requireClub(ctx, ref.ClubName)
	if err != nil {
		return ref, err
	}

	memberRole := models.ResolveRole(member, club)
	if memberRole == models.RoleNone {
		return ref, apierr.New(apierr.NotFound, "user %s is not in club %s", ref.MemberEmail, ref.ClubName)
	}

	decision := notepolicy.Decide(
		notepolicy.Requester{
			Email:    requester.Email,
			Type:     requester.Type,
			ClubRole: models.ResolveRole(requester, club),
		},
		ref.Type,
		notepolicy.Member{Email: member.Email, ClubRole: memberRole},
	)
	switch decision {
	case notepolicy.Allow:
		return ref, nil
	case notepolicy.DenyUndefined:
		return ref, apierr.New(apierr.InvalidField, "student notes do not exist for advisors or admins")
	default:
		e.log.Warn("note access denied",
			zap.String("requester", ref.RequesterEmail),
			zap.String("member", ref.MemberEmail),
			zap.String("club", ref.ClubName),
			zap.String("type", ref.Type))
		return ref, apierr.New(apierr.Forbidden, "forbidden")
	}
}

// ReadNote returns the referenced note after an access check. Personal
// notes are looked up by (requester, member, club); shared notes by
// (member, club, type).
func (e *Engine) ReadNote(ctx context.Context, ref NoteRef) (*models.Note, error) {
	ref, err := e.resolveNoteAccess(ctx, ref)
	if err != nil {
		return nil, err
	}

	var note *models.Note
	if ref.Type == models.NotePersonal {
		note, err = e.notes.FindPersonal(ctx, ref.RequesterEmail, ref.MemberEmail, ref.ClubName)
	} else {
		note, err = e.notes.FindShared(ctx, ref.MemberEmail, ref.ClubName, ref.Type)
	}
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apierr.New(apierr.NotFound, "note not found")
	}
	return note, nil
}

// WriteNote replaces the body of the referenced note after an access
// check. The note must already exist; notes are only ever created by
// the membership cascades.
func (e *Engine) WriteNote(ctx context.Context, ref NoteRef, body string) error {
	if body == "" {
		return apierr.New(apierr.Validation, "note body is required")
	}
	ref, err := e.resolveNoteAccess(ctx, ref)
	if err != nil {
		return err
	}

	var matched bool
	if ref.Type == models.NotePersonal {
		matched, err = e.notes.UpdateBodyPersonal(ctx, ref.RequesterEmail, ref.MemberEmail, ref.ClubName, body)
	} else {
		matched, err = e.notes.UpdateBodyShared(ctx, ref.MemberEmail, ref.ClubName, ref.Type, body)
	}
	if err != nil {
		return err
	}
	if !matched {
		return apierr.New(apierr.NotFound, "note not found")
	}

	e.log.Info("note updated",
		zap.String("member", ref.MemberEmail),
		zap.String("club", ref.ClubName),
		zap.String("type", ref.Type))
	return nil
}
