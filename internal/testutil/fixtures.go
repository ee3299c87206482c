package testutil

import (
	"context"
	"testing"

	"github.com/clubnexus/clubnexus/internal/domain/models"
)

// Fixtures seeds consistent test data into a MemStores: membership is
// written to both the club tier arrays and the user-side club lists,
// matching what the cascade engine maintains.
type Fixtures struct {
	m *MemStores
	t *testing.T
}

// NewFixtures creates a Fixtures over the given stores.
func NewFixtures(t *testing.T, m *MemStores) *Fixtures {
	t.Helper()
	return &Fixtures{m: m, t: t}
}

// CreateUser inserts a user of the given account type with the club
// list defaults for that type.
func (f *Fixtures) CreateUser(ctx context.Context, email, accountType string) models.User {
	f.t.Helper()

	lists := models.ClubLists(accountType)
	u, err := f.m.Users().Insert(ctx, models.User{
		Email:          email,
		FirstName:      "Test",
		LastName:       "User",
		Type:           accountType,
		ClubsAttending: lists.Attending,
		ClubsOfficer:   lists.Officer,
		ClubsAdvisor:   lists.Advisor,
	})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateStudent inserts a student user.
func (f *Fixtures) CreateStudent(ctx context.Context, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, models.TypeStudent)
}

// CreateTeacher inserts a teacher user.
func (f *Fixtures) CreateTeacher(ctx context.Context, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, models.TypeTeacher)
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, email, models.TypeAdmin)
}

// CreateClub inserts a club with empty tiers.
func (f *Fixtures) CreateClub(ctx context.Context, name string) models.Club {
	f.t.Helper()

	c, err := f.m.Clubs().Insert(ctx, models.Club{
		Name:  name,
		Dates: "Wednesdays 3pm",
		Members: models.Members{
			Students: []string{},
			Officers: []string{},
			Advisors: []string{},
		},
	})
	if err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	return c
}

// Enroll places an existing user into a club tier, updating both sides
// of the membership the way the cascade engine would.
func (f *Fixtures) Enroll(ctx context.Context, clubName, email, role string) {
	f.t.Helper()

	if err := f.m.Clubs().AddToTier(ctx, clubName, role, email); err != nil {
		f.t.Fatalf("failed to add member to tier: %v", err)
	}
	if err := f.m.Users().AddClubRef(ctx, email, role, clubName); err != nil {
		f.t.Fatalf("failed to add club ref: %v", err)
	}
}

// SeedSharedNotes inserts the four shared notes for a member, as the
// admission cascade would.
func (f *Fixtures) SeedSharedNotes(ctx context.Context, memberEmail, clubName string) {
	f.t.Helper()

	for _, noteType := range models.SharedNoteTypes {
		if err := f.m.Notes().Insert(ctx, models.Note{
			MemberEmail: memberEmail,
			ClubName:    clubName,
			Type:        noteType,
		}); err != nil {
			f.t.Fatalf("failed to seed shared note: %v", err)
		}
	}
}

// SeedPersonalNote inserts one personal note.
func (f *Fixtures) SeedPersonalNote(ctx context.Context, creator, member, clubName string) {
	f.t.Helper()

	if err := f.m.Notes().Insert(ctx, models.Note{
		CreatorEmail: &creator,
		MemberEmail:  member,
		ClubName:     clubName,
		Type:         models.NotePersonal,
	}); err != nil {
		f.t.Fatalf("failed to seed personal note: %v", err)
	}
}
