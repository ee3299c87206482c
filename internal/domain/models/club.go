// internal/domain/models/club.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Club membership roles (tiers). A given email appears in at most one
// tier of a club at any time.
const (
	RoleStudent = "student"
	RoleOfficer = "officer"
	RoleAdvisor = "advisor"
)

// ValidRole reports whether r is a recognized membership role.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleOfficer || r == RoleAdvisor
}

// RequiredType returns the account type a user must have to hold the
// given membership role: advisors must be teachers, students and
// officers must be students.
func RequiredType(role string) string {
	if role == RoleAdvisor {
		return TypeTeacher
	}
	return TypeStudent
}

// Members holds a club's three disjoint membership tiers, keyed by email.
type Members struct {
	Students []string `bson:"students" json:"students"`
	Officers []string `bson:"officers" json:"officers"`
	Advisors []string `bson:"advisors" json:"advisors"`
}

// Tier returns the member list for the given role.
func (m Members) Tier(role string) []string {
	switch role {
	case RoleStudent:
		return m.Students
	case RoleOfficer:
		return m.Officers
	case RoleAdvisor:
		return m.Advisors
	}
	return nil
}

// Club represents a school club and its three membership tiers.
type Club struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Dates       string             `bson:"dates" json:"dates"`
	Picture     string             `bson:"picture" json:"picture"`
	Description string             `bson:"description" json:"description"`
	Members     Members            `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
