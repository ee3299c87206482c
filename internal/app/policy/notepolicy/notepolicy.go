// Package notepolicy decides who may read or write a note, given the
// requester's account type and club role, the note type, and the target
// member's resolved club role. It is a pure decision function: no
// storage access, no HTTP types.
//
// Access rules:
//   - Student notes are undefined for members resolved as admin or
//     advisor; they exist only for student/officer members.
//   - Shared (non-personal) notes are allow-listed by requester:
//     admin note -> admins; advisor note -> admins and teachers;
//     officer and student notes -> admins, teachers, and club officers.
//     Officer standing comes from club membership, not account type: an
//     officer has account type student but is granted officer-tier access.
//   - Personal notes: student requesters may only touch the personal
//     note where they themselves are the member. Officer requesters may
//     only touch personal notes where they are the member and the target
//     is not a club student (an officer's notes about students are
//     addressed by creator, never by member-self-lookup). Teachers and
//     admins have personal-note access without the self-restriction.
//
// Anything not explicitly allowed is denied.
package notepolicy

import "github.com/clubnexus/clubnexus/internal/domain/models"

// Decision is the outcome of a policy check.
type Decision int

const (
	// Deny means the requester may not access the note.
	Deny Decision = iota
	// Allow means the requester may read and write the note.
	Allow
	// DenyUndefined means the note type cannot exist for this member
	// (student note for an admin/advisor member), regardless of requester.
	DenyUndefined
)

// Requester identifies who is asking, including their club standing.
type Requester struct {
	Email    string
	Type     string // account type: student | teacher | admin
	ClubRole string // resolved role in the note's club (models.Role*, may be RoleNone)
}

// Member identifies the note's target member and their club standing.
type Member struct {
	Email    string
	ClubRole string // resolved role in the note's club
}

// Decide returns the access decision for the given requester, note type,
// and member.
func Decide(req Requester, noteType string, member Member) Decision {
	// Student notes exist only for student/officer members.
	if noteType == models.NoteStudent &&
		(member.ClubRole == models.RoleAdmin || member.ClubRole == models.RoleAdvisor) {
		return DenyUndefined
	}

	if noteType == models.NotePersonal {
		return decidePersonal(req, member)
	}
	return decideShared(req, noteType)
}

func decideShared(req Requester, noteType string) Decision {
	switch noteType {
	case models.NoteAdmin:
		if req.Type == models.TypeAdmin {
			return Allow
		}
	case models.NoteAdvisor:
		if req.Type == models.TypeAdmin || req.Type == models.TypeTeacher {
			return Allow
		}
	case models.NoteOfficer, models.NoteStudent:
		if req.Type == models.TypeAdmin || req.Type == models.TypeTeacher {
			return Allow
		}
		// Officer standing is club-scoped, not an account type.
		if req.Type == models.TypeStudent && req.ClubRole == models.RoleOfficer {
			return Allow
		}
	}
	return Deny
}

func decidePersonal(req Requester, member Member) Decision {
	switch req.Type {
	case models.TypeAdmin, models.TypeTeacher:
		return Allow
	case models.TypeStudent:
		if req.ClubRole == models.RoleOfficer {
			// Officers reach personal notes about students via the
			// creator key; member-self-lookup is only for their own record.
			if member.Email == req.Email && member.ClubRole != models.RoleStudent {
				return Allow
			}
			return Deny
		}
		if member.Email == req.Email {
			return Allow
		}
	}
	return Deny
}
