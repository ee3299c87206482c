// internal/domain/models/note.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note types. The four non-personal types are shared notes visible to a
// role tier and carry a nil creator; a personal note is a private
// annotation one privileged viewer keeps about one member, keyed by
// (creator, member, club).
const (
	NotePersonal = "personal"
	NoteAdmin    = "admin"
	NoteAdvisor  = "advisor"
	NoteOfficer  = "officer"
	NoteStudent  = "student"
)

// SharedNoteTypes lists the non-personal note types seeded when a
// student or officer joins a club, in creation order.
var SharedNoteTypes = []string{NoteAdmin, NoteAdvisor, NoteOfficer, NoteStudent}

// ValidNoteType reports whether t is a recognized note type.
func ValidNoteType(t string) bool {
	switch t {
	case NotePersonal, NoteAdmin, NoteAdvisor, NoteOfficer, NoteStudent:
		return true
	}
	return false
}

// Note is one notes record. CreatorEmail is nil for shared notes.
// Creator, member, and club are immutable after creation except through
// the rename cascades; Body is the only user-editable field.
type Note struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatorEmail *string            `bson:"creator_email" json:"creatorEmail"`
	MemberEmail  string             `bson:"member_email" json:"memberEmail"`
	ClubName     string             `bson:"club_name" json:"clubName"`
	Type         string             `bson:"type" json:"type"`
	Body         string             `bson:"note" json:"note"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
