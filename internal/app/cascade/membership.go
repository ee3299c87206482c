// internal/app/cascade/membership.go
//
// Membership role transitions: adding or removing one (email, club, role)
// edge and keeping the notes collection consistent with it.
package cascade

import (
	"context"

	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/app/system/normalize"
	"github.com/clubnexus/clubnexus/internal/domain/models"
	"go.uber.org/zap"
)

// tierSearchOrder is the fixed order RemoveMember searches tiers in.
var tierSearchOrder = []string{models.RoleStudent, models.RoleOfficer, models.RoleAdvisor}

// AddMember admits email into clubName under the given membership role.
//
// Preconditions: the club and user exist and the user's account type
// matches the role (advisor requires a teacher, student/officer require
// a student). Re-adding a member under the role they already hold is an
// idempotent no-op. Moving between the student and officer tiers first
// removes the old tier membership and purges the member's notes within
// the club, then re-admits them under the new role's seeding rules.
func (e *Engine) AddMember(ctx context.Context, clubName, email, role string) error {
	clubName = normalize.Name(clubName)
	email = normalize.Email(email)
	if clubName == "" || email == "" {
		return apierr.New(apierr.Validation, "club name and email are required")
	}
	if !models.ValidRole(role) {
		return apierr.New(apierr.InvalidRole, "invalid membership role: %s", role)
	}

	release := e.locks.Lock(clubName, email)
	defer release()

	if err := e.run.InUnit(ctx, func(ctx context.Context) error {
		return e.addMember(ctx, clubName, email, role)
	}); err != nil {
		return err
	}

	e.log.Info("member added", zap.String("club", clubName), zap.String("email", email), zap.String("role", role))
	return nil
}

func (e *Engine) addMember(ctx context.Context, clubName, email, role string) error {
	club, err := e.requireClub(ctx, clubName)
	if err != nil {
		return err
	}
	user, err := e.requireUser(ctx, email)
	if err != nil {
		return err
	}

	if required := models.RequiredType(role); user.Type != required {
		return apierr.New(apierr.InvalidRole, "user %s is not a %s", email, required)
	}

	if contains(club.Members.Tier(role), email) {
		return nil // already holds this role
	}

	switch role {
	case models.RoleAdvisor:
		if err := e.seedAdvisorNotes(ctx, club, email); err != nil {
			return err
		}

	case models.RoleStudent, models.RoleOfficer:
		// Student<->officer moves reset the member's note history in
		// this club before re-admission.
		switch {
		case role == models.RoleStudent && contains(club.Members.Officers, email):
			if err := e.dropTier(ctx, club, models.RoleOfficer, email); err != nil {
				return err
			}
			club.Members.Officers = without(club.Members.Officers, email)
		case role == models.RoleOfficer && contains(club.Members.Students, email):
			if err := e.dropTier(ctx, club, models.RoleStudent, email); err != nil {
				return err
			}
			club.Members.Students = without(club.Members.Students, email)
		}

		if err := e.seedAdmissionNotes(ctx, club, email, role); err != nil {
			return err
		}
	}

	if err := e.clubs.AddToTier(ctx, clubName, role, email); err != nil {
		return err
	}
	return e.users.AddClubRef(ctx, email, role, clubName)
}

// dropTier removes a tier membership and purges the member's note
// history within the club (both authored and about them).
func (e *Engine) dropTier(ctx context.Context, club *models.Club, role, email string) error {
	if err := e.clubs.RemoveFromTier(ctx, club.Name, role, email); err != nil {
		return err
	}
	if err := e.users.RemoveClubRef(ctx, email, role, club.Name); err != nil {
		return err
	}
	_, err := e.notes.DeleteByParticipant(ctx, email, club.Name)
	return err
}

// seedAdmissionNotes creates the note fan-out for a genuinely new
// student or officer admission: one shared note per non-personal type
// with an empty body, one personal note per admin, advisor, officer,
// and the new member themself; officers additionally author one
// personal note per existing student.
func (e *Engine) seedAdmissionNotes(ctx context.Context, club *models.Club, email, role string) error {
	for _, noteType := range models.SharedNoteTypes {
		if err := e.notes.Insert(ctx, models.Note{
			MemberEmail: email,
			ClubName:    club.Name,
			Type:        noteType,
		}); err != nil {
			return err
		}
	}

	admins, err := e.users.ListAdmins(ctx)
	if err != nil {
		return err
	}

	creators := make([]string, 0, len(admins)+len(club.Members.Advisors)+len(club.Members.Officers)+1)
	for _, a := range admins {
		creators = append(creators, a.Email)
	}
	creators = append(creators, club.Members.Advisors...)
	creators = append(creators, club.Members.Officers...)
	creators = append(creators, email) // self-personal-note

	seen := make(map[string]bool, len(creators))
	for _, creator := range creators {
		if seen[creator] {
			continue
		}
		seen[creator] = true
		if err := e.insertPersonalNote(ctx, creator, email, club.Name); err != nil {
			return err
		}
	}

	if role == models.RoleOfficer {
		// Officers annotate the students they now supervise.
		for _, student := range club.Members.Students {
			if err := e.insertPersonalNote(ctx, email, student, club.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedAdvisorNotes creates one personal note authored by the new advisor
// for every existing student and officer. Advisors get no shared notes.
func (e *Engine) seedAdvisorNotes(ctx context.Context, club *models.Club, email string) error {
	for _, member := range club.Members.Students {
		if err := e.insertPersonalNote(ctx, email, member, club.Name); err != nil {
			return err
		}
	}
	for _, member := range club.Members.Officers {
		if err := e.insertPersonalNote(ctx, email, member, club.Name); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) insertPersonalNote(ctx context.Context, creator, member, clubName string) error {
	c := creator
	return e.notes.Insert(ctx, models.Note{
		CreatorEmail: &c,
		MemberEmail:  member,
		ClubName:     clubName,
		Type:         models.NotePersonal,
	})
}

// RemoveMember removes email from whichever tier of clubName contains it,
// searching students, then officers, then advisors, and purges the
// member's notes within the club. Returns a NotFound error when the
// email appears in none of the tiers.
func (e *Engine) RemoveMember(ctx context.Context, clubName, email string) error {
	clubName = normalize.Name(clubName)
	email = normalize.Email(email)
	if clubName == "" || email == "" {
		return apierr.New(apierr.Validation, "club name and email are required")
	}

	release := e.locks.Lock(clubName, email)
	defer release()

	if err := e.run.InUnit(ctx, func(ctx context.Context) error {
		club, err := e.requireClub(ctx, clubName)
		if err != nil {
			return err
		}
		for _, role := range tierSearchOrder {
			if contains(club.Members.Tier(role), email) {
				return e.dropTier(ctx, club, role, email)
			}
		}
		return apierr.New(apierr.NotFound, "user %s is not a member of club %s", email, clubName)
	}); err != nil {
		return err
	}

	e.log.Info("member removed", zap.String("club", clubName), zap.String("email", email))
	return nil
}
