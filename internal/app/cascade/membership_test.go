package cascade_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/cascade"
	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/domain/models"
	"github.com/clubnexus/clubnexus/internal/testutil"
)

func newEngine(t *testing.T) (*cascade.Engine, *testutil.MemStores, *testutil.Fixtures) {
	t.Helper()
	m := testutil.NewMemStores()
	e := cascade.New(m.Users(), m.Clubs(), m.Notes(), m.Runner(), zap.NewNop())
	return e, m, testutil.NewFixtures(t, m)
}

func mustClub(t *testing.T, m *testutil.MemStores, name string) models.Club {
	t.Helper()
	c, err := m.Clubs().GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("GetByName(%q): %v", name, err)
	}
	if c == nil {
		t.Fatalf("club %q not found", name)
	}
	return *c
}

func mustUser(t *testing.T, m *testutil.MemStores, email string) models.User {
	t.Helper()
	u, err := m.Users().GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("GetByEmail(%q): %v", email, err)
	}
	if u == nil {
		t.Fatalf("user %q not found", email)
	}
	return *u
}

func listHas(list *[]string, s string) bool {
	if list == nil {
		return false
	}
	for _, v := range *list {
		if v == s {
			return true
		}
	}
	return false
}

// sharedNotesFor counts shared notes (nil creator) about member in club.
func sharedNotesFor(m *testutil.MemStores, member, club string) int {
	n := 0
	for _, note := range m.Notes().AllNotes() {
		if note.CreatorEmail == nil && note.MemberEmail == member && note.ClubName == club {
			n++
		}
	}
	return n
}

// personalNotesFor counts personal notes about member in club.
func personalNotesFor(m *testutil.MemStores, member, club string) int {
	n := 0
	for _, note := range m.Notes().AllNotes() {
		if note.CreatorEmail != nil && note.MemberEmail == member && note.ClubName == club {
			n++
		}
	}
	return n
}

func hasPersonalNote(m *testutil.MemStores, creator, member, club string) bool {
	for _, note := range m.Notes().AllNotes() {
		if note.CreatorEmail != nil && *note.CreatorEmail == creator &&
			note.MemberEmail == member && note.ClubName == club {
			return true
		}
	}
	return false
}

func assertKind(t *testing.T, err error, kind apierr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := apierr.KindOf(err); got != kind {
		t.Fatalf("error kind: got %v (%v), want %v", got, err, kind)
	}
}

func TestAddMember_StudentAdmissionSeedsNotes(t *testing.T) {
	ctx := context.Background()
	e, m, f := newEngine(t)

	f.CreateAdmin(ctx, "admin@school.edu")
	f.CreateTeacher(ctx, "advisor@school.edu")
	f.CreateStudent(ctx, "officer@school.edu")
	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateClub(ctx, "Chess Club")
	f.Enroll(ctx, "Chess Club", "advisor@school.edu", models.RoleAdvisor)
	f.Enroll(ctx, "Chess Club", "officer@school.edu", models.RoleOfficer)

	if err := e.AddMember(ctx, "Chess Club", "sam@school.edu", models.RoleStudent); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	club := mustClub(t, m, "Chess Club")
	if !contains(club.Members.Students, "sam@school.edu") {
		t.Errorf("students tier %v missing sam", club.Members.Students)
	}
	user := mustUser(t, m, "sam@school.edu")
	if !listHas(user.ClubsAttending, "Chess Club") {
		t.Errorf("clubsAttending %v missing Chess Club", user.ClubsAttending)
	}

	// One shared note per non-personal type.
	if got := sharedNotesFor(m, "sam@school.edu", "Chess Club"); got != len(models.SharedNoteTypes) {
		t.Errorf("shared notes: got %d, want %d", got, len(models.SharedNoteTypes))
	}

	// Personal notes from every admin, the advisor, the officer, and sam themself.
	for _, creator := range []string{"admin@school.edu", "advisor@school.edu", "officer@school.edu", "sam@school.edu"} {
		if !hasPersonalNote(m, creator, "sam@school.edu", "Chess Club") {
			t.Errorf("missing personal note authored by %s", creator)
		}
	}
	if got := personalNotesFor(m, "sam@school.edu", "Chess Club"); got != 4 {
		t.Errorf("personal notes: got %d, want 4", got)
	}
}

func TestAddMember_SameRoleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e, m, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateClub(ctx, "Chess Club")

	if err := e.AddMember(ctx, "Chess Club", "sam@school.edu", models.RoleStudent); err != nil {
		t.Fatalf("first AddMember: %v", err)
	}
	before := len(m.Notes().AllNotes())

	if err := e.AddMember(ctx, "Chess Club", "sam@school.edu", models.RoleStudent); err != nil {
		t.Fatalf("second AddMember: %v", err)
	}

	club := mustClub(t, m, "Chess Club")
	if len(club.Members.Students) != 1 {
		t.Errorf("students tier: got %v, want exactly one entry", club.Members.Students)
	}
	if got := len(m.Notes().AllNotes()); got != before {
		t.Errorf("note count changed on re-add: got %d, want %d", got, before)
	}
}

func TestAddMember_PromoteStudentToOfficer(t *testing.T) {
	ctx := context.Background()
	e, m, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateStudent(ctx, "pat@school.edu")
	f.CreateClub(ctx, "Chess Club")

	if err := e.AddMember(ctx, "Chess Club", "sam@school.edu", models.RoleStudent); err != nil {
		t.Fatalf("admit sam: %v", err)
	}
	if err := e.AddMember(ctx, "Chess Club", "pat@school.edu", models.RoleStudent); err != nil {
		t.Fatalf("admit pat: %v", err)
	}

	if err := e.AddMember(ctx, "Chess Club", "sam@school.edu", models.RoleOfficer); err != nil {
		t.Fatalf("promote sam: %v", err)
	}

	club := mustClub(t, m, "Chess Club")
	if contains(club.Members.Students, "sam@school.edu") {
		t.Errorf("sam still in students tier: %v", club.Members.Students)
	}
	if !contains(club.Members.Officers, "sam@school.edu") {
		t.Errorf("sam not in officers tier: %v", club.Members.Officers)
	}

	user := mustUser(t, m, "sam@school.edu")
	if listHas(user.ClubsAttending, "Chess Club") {
		t.Errorf("clubsAttending still lists Chess Club: %v", user.ClubsAttending)
	}
	if !listHas(user.ClubsOfficer, "Chess Club") {
		t.Errorf("clubsOfficer missing Chess Club: %v", user.ClubsOfficer)
	}

	// Note history reset: fresh shared notes plus personals from sam
	// themself (no admins/advisors/officers existed before the move).
	if got := sharedNotesFor(m, "sam@school.edu", "Chess Club"); got != len(models.SharedNoteTypes) {
		t.Errorf("shared notes after promotion: got %d, want %d", got, len(models.SharedNoteTypes))
	}
	if !hasPersonalNote(m, "sam@school.edu", "sam@school.edu", "Chess Club") {
		t.Error("missing self personal note after promotion")
	}

	// The new officer annotates the students they now supervise.
	if !hasPersonalNote(m, "sam@school.edu", "pat@school.edu", "Chess Club") {
		t.Error("missing officer-authored note for existing student pat")
	}
}

func TestAddMember_AdvisorSeedsPersonalNotesForMembers(t *testing.T) {
	ctx := context.Background()
	e, m, f := newEngine(t)

	f.CreateTeacher(ctx, "taylor@school.edu")
	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateStudent(ctx, "officer@school.edu")
	f.CreateClub(ctx, "Chess Club")
	f.Enroll(ctx, "Chess Club", "sam@school.edu", models.RoleStudent)
	f.Enroll(ctx, "Chess Club", "officer@school.edu", models.RoleOfficer)

	if err := e.AddMember(ctx, "Chess Club", "taylor@school.edu", models.RoleAdvisor); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	club := mustClub(t, m, "Chess Club")
	if !contains(club.Members.Advisors, "taylor@school.edu") {
		t.Errorf("advisors tier %v missing taylor", club.Members.Advisors)
	}
	user := mustUser(t, m, "taylor@school.edu")
	if !listHas(user.ClubsAdvisor, "Chess Club") {
		t.Errorf("clubsAdvisor %v missing Chess Club", user.ClubsAdvisor)
	}

	// Advisors get no notes about themselves, only authored ones.
	if got := sharedNotesFor(m, "taylor@school.edu", "Chess Club"); got != 0 {
		t.Errorf("shared notes about advisor: got %d, want 0", got)
	}
	if got := personalNotesFor(m, "taylor@school.edu", "Chess Club"); got != 0 {
		t.Errorf("personal notes about advisor: got %d, want 0", got)
	}
	if !hasPersonalNote(m, "taylor@school.edu", "sam@school.edu", "Chess Club") {
		t.Error("missing advisor-authored note for sam")
	}
	if !hasPersonalNote(m, "taylor@school.edu", "officer@school.edu", "Chess Club") {
		t.Error("missing advisor-authored note for officer")
	}
}

func TestAddMember_AccountTypeMustMatchRole(t *testing.T) {
	ctx := context.Background()
	e, _, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateTeacher(ctx, "taylor@school.edu")
	f.CreateClub(ctx, "Chess Club")

	assertKind(t, e.AddMember(ctx, "Chess Club", "sam@school.edu", models.RoleAdvisor), apierr.InvalidRole)
	assertKind(t, e.AddMember(ctx, "Chess Club", "taylor@school.edu", models.RoleStudent), apierr.InvalidRole)
	assertKind(t, e.AddMember(ctx, "Chess Club", "taylor@school.edu", models.RoleOfficer), apierr.InvalidRole)
}

func TestAddMember_UnknownRole(t *testing.T) {
	ctx := context.Background()
	e, _, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateClub(ctx, "Chess Club")

	assertKind(t, e.AddMember(ctx, "Chess Club", "sam@school.edu", "president"), apierr.InvalidRole)
}

func TestAddMember_MissingClubOrUser(t *testing.T) {
	ctx := context.Background()
	e, _, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateClub(ctx, "Chess Club")

	assertKind(t, e.AddMember(ctx, "Robotics", "sam@school.edu", models.RoleStudent), apierr.NotFound)
	assertKind(t, e.AddMember(ctx, "Chess Club", "ghost@school.edu", models.RoleStudent), apierr.NotFound)
}

func TestRemoveMember_PurgesClubScopedNotes(t *testing.T) {
	ctx := context.Background()
	e, m, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateClub(ctx, "Chess Club")
	f.CreateClub(ctx, "Robotics")

	if err := e.AddMember(ctx, "Chess Club", "sam@school.edu", models.RoleStudent); err != nil {
		t.Fatalf("admit to chess: %v", err)
	}
	if err := e.AddMember(ctx, "Robotics", "sam@school.edu", models.RoleStudent); err != nil {
		t.Fatalf("admit to robotics: %v", err)
	}

	if err := e.RemoveMember(ctx, "Chess Club", "sam@school.edu"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}

	club := mustClub(t, m, "Chess Club")
	if contains(club.Members.Students, "sam@school.edu") {
		t.Errorf("sam still in students tier: %v", club.Members.Students)
	}
	user := mustUser(t, m, "sam@school.edu")
	if listHas(user.ClubsAttending, "Chess Club") {
		t.Errorf("clubsAttending still lists Chess Club: %v", user.ClubsAttending)
	}
	if !listHas(user.ClubsAttending, "Robotics") {
		t.Errorf("clubsAttending lost Robotics: %v", user.ClubsAttending)
	}

	// Only the Chess Club note history is purged.
	for _, note := range m.Notes().AllNotes() {
		if note.ClubName == "Chess Club" {
			t.Errorf("unexpected surviving Chess Club note: %+v", note)
		}
	}
	if sharedNotesFor(m, "sam@school.edu", "Robotics") == 0 {
		t.Error("Robotics notes should survive removal from Chess Club")
	}
}

func TestRemoveMember_NotAMember(t *testing.T) {
	ctx := context.Background()
	e, _, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateClub(ctx, "Chess Club")

	assertKind(t, e.RemoveMember(ctx, "Chess Club", "sam@school.edu"), apierr.NotFound)
}

func TestMembership_TiersStayDisjoint(t *testing.T) {
	ctx := context.Background()
	e, m, f := newEngine(t)

	f.CreateStudent(ctx, "sam@school.edu")
	f.CreateClub(ctx, "Chess Club")

	steps := []string{models.RoleStudent, models.RoleOfficer, models.RoleStudent}
	for _, role := range steps {
		if err := e.AddMember(ctx, "Chess Club", "sam@school.edu", role); err != nil {
			t.Fatalf("AddMember(%s): %v", role, err)
		}
		club := mustClub(t, m, "Chess Club")
		occupied := 0
		for _, tier := range [][]string{club.Members.Students, club.Members.Officers, club.Members.Advisors} {
			if contains(tier, "sam@school.edu") {
				occupied++
			}
		}
		if occupied != 1 {
			t.Fatalf("after AddMember(%s): sam occupies %d tiers, want 1", role, occupied)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
