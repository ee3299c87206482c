// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account types. A user's type decides which club roles they may hold:
// students attend clubs and may be officers, teachers advise clubs, and
// admins hold no club memberships at all.
const (
	TypeStudent = "student"
	TypeTeacher = "teacher"
	TypeAdmin   = "admin"
)

// ValidType reports whether t is a recognized account type.
func ValidType(t string) bool {
	return t == TypeStudent || t == TypeTeacher || t == TypeAdmin
}

// User represents students, teachers/advisors, and admins.
//
// The club list fields use *[]string so the null-vs-empty distinction is
// preserved in storage: exactly the lists matching the account type are
// non-nil, all others are nil. ClubLists produces the defaults.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"first_name" json:"firstName"`
	LastName  string             `bson:"last_name" json:"lastName"`
	Type      string             `bson:"type" json:"type"` // student | teacher | admin
	SchoolID  string             `bson:"school_id,omitempty" json:"schoolID,omitempty"`

	ClubsAttending *[]string `bson:"clubs_attending" json:"clubsAttending"`
	ClubsOfficer   *[]string `bson:"clubs_officer" json:"clubsOfficer"`
	ClubsAdvisor   *[]string `bson:"clubs_advisor" json:"clubsAdvisor"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ClubListDefaults holds the club list values appropriate for an account type.
type ClubListDefaults struct {
	Attending *[]string
	Officer   *[]string
	Advisor   *[]string
}

// ClubLists returns the default club lists for the given account type:
// empty (non-nil) lists for the roles the type can hold, nil for the rest.
func ClubLists(accountType string) ClubListDefaults {
	switch accountType {
	case TypeStudent:
		return ClubListDefaults{Attending: &[]string{}, Officer: &[]string{}}
	case TypeTeacher:
		return ClubListDefaults{Advisor: &[]string{}}
	default: // admin
		return ClubListDefaults{}
	}
}
