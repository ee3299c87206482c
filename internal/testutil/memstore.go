// Package testutil provides in-memory implementations of the cascade
// engine's store interfaces, plus fixtures and HTTP helpers. The fakes
// mirror the mongo stores' observable behavior (set-add tiers,
// club-scoped note purges, null-vs-empty club lists) so engine and
// handler tests run without a database.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/clubnexus/clubnexus/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStores holds the shared in-memory state behind the three store
// fakes. Access through Users(), Clubs(), Notes(), and Runner().
type MemStores struct {
	mu    sync.Mutex
	users map[string]models.User
	clubs map[string]models.Club
	notes []models.Note
}

// NewMemStores creates empty in-memory stores.
func NewMemStores() *MemStores {
	return &MemStores{
		users: make(map[string]models.User),
		clubs: make(map[string]models.Club),
	}
}

// Users returns the in-memory UserStore.
func (m *MemStores) Users() *MemUserStore { return &MemUserStore{m} }

// Clubs returns the in-memory ClubStore.
func (m *MemStores) Clubs() *MemClubStore { return &MemClubStore{m} }

// Notes returns the in-memory NoteStore.
func (m *MemStores) Notes() *MemNoteStore { return &MemNoteStore{m} }

// Runner returns a unit-of-work runner that executes the cascade
// directly (the in-memory stores have no transaction concept).
func (m *MemStores) Runner() ImmediateRunner { return ImmediateRunner{} }

// ImmediateRunner runs the unit function inline.
type ImmediateRunner struct{}

// InUnit executes fn against the supplied context.
func (ImmediateRunner) InUnit(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

/* ------------------------------ users ------------------------------ */

// MemUserStore is the in-memory cascade.UserStore.
type MemUserStore struct{ m *MemStores }

func (s *MemUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[email]
	if !ok {
		return nil, nil
	}
	cp := copyUser(u)
	return &cp, nil
}

func (s *MemUserStore) List(_ context.Context) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

func (s *MemUserStore) ListAdmins(_ context.Context) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.User
	for _, u := range s.m.users {
		if u.Type == models.TypeAdmin {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (s *MemUserStore) Insert(_ context.Context, u models.User) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.m.users[u.Email] = copyUser(u)
	return u, nil
}

func (s *MemUserStore) UpdateField(_ context.Context, email, field, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[email]
	if !ok {
		return nil
	}
	switch field {
	case "firstName":
		u.FirstName = value
	case "lastName":
		u.LastName = value
	case "schoolID":
		u.SchoolID = value
	}
	u.UpdatedAt = time.Now().UTC()
	s.m.users[email] = u
	return nil
}

func (s *MemUserStore) SetEmail(_ context.Context, oldEmail, newEmail string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[oldEmail]
	if !ok {
		return nil
	}
	delete(s.m.users, oldEmail)
	u.Email = newEmail
	u.UpdatedAt = time.Now().UTC()
	s.m.users[newEmail] = u
	return nil
}

func (s *MemUserStore) SetTypeAndLists(_ context.Context, email, newType string, lists models.ClubListDefaults) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[email]
	if !ok {
		return nil
	}
	u.Type = newType
	u.ClubsAttending = copyList(lists.Attending)
	u.ClubsOfficer = copyList(lists.Officer)
	u.ClubsAdvisor = copyList(lists.Advisor)
	u.UpdatedAt = time.Now().UTC()
	s.m.users[email] = u
	return nil
}

func (s *MemUserStore) AddClubRef(_ context.Context, email, role, clubName string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[email]
	if !ok {
		return nil
	}
	list := clubListFor(&u, role)
	if *list == nil {
		*list = &[]string{}
	}
	if !containsStr(**list, clubName) {
		**list = append(**list, clubName)
	}
	s.m.users[email] = u
	return nil
}

func (s *MemUserStore) RemoveClubRef(_ context.Context, email, role, clubName string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[email]
	if !ok {
		return nil
	}
	if list := clubListFor(&u, role); *list != nil {
		filtered := withoutStr(**list, clubName)
		*list = &filtered
	}
	s.m.users[email] = u
	return nil
}

func (s *MemUserStore) RenameClubRefs(_ context.Context, oldName, newName string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for email, u := range s.m.users {
		for _, list := range []*[]string{u.ClubsAttending, u.ClubsOfficer, u.ClubsAdvisor} {
			if list == nil {
				continue
			}
			for i, name := range *list {
				if name == oldName {
					(*list)[i] = newName
				}
			}
		}
		s.m.users[email] = u
	}
	return nil
}

func (s *MemUserStore) RemoveClubRefs(_ context.Context, clubName string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for email, u := range s.m.users {
		if u.ClubsAttending != nil {
			filtered := withoutStr(*u.ClubsAttending, clubName)
			u.ClubsAttending = &filtered
		}
		if u.ClubsOfficer != nil {
			filtered := withoutStr(*u.ClubsOfficer, clubName)
			u.ClubsOfficer = &filtered
		}
		if u.ClubsAdvisor != nil {
			filtered := withoutStr(*u.ClubsAdvisor, clubName)
			u.ClubsAdvisor = &filtered
		}
		s.m.users[email] = u
	}
	return nil
}

func (s *MemUserStore) Delete(_ context.Context, email string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.users, email)
	return nil
}

/* ------------------------------ clubs ------------------------------ */

// MemClubStore is the in-memory cascade.ClubStore.
type MemClubStore struct{ m *MemStores }

func (s *MemClubStore) GetByName(_ context.Context, name string) (*models.Club, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.clubs[name]
	if !ok {
		return nil, nil
	}
	cp := copyClub(c)
	return &cp, nil
}

func (s *MemClubStore) List(_ context.Context) ([]models.Club, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.Club, 0, len(s.m.clubs))
	for _, c := range s.m.clubs {
		out = append(out, copyClub(c))
	}
	return out, nil
}

func (s *MemClubStore) Insert(_ context.Context, c models.Club) (models.Club, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.m.clubs[c.Name] = copyClub(c)
	return c, nil
}

func (s *MemClubStore) UpdateField(_ context.Context, name, field, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.clubs[name]
	if !ok {
		return nil
	}
	switch field {
	case "dates":
		c.Dates = value
	case "picture":
		c.Picture = value
	case "description":
		c.Description = value
	}
	c.UpdatedAt = time.Now().UTC()
	s.m.clubs[name] = c
	return nil
}

func (s *MemClubStore) SetName(_ context.Context, oldName, newName string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.clubs[oldName]
	if !ok {
		return nil
	}
	delete(s.m.clubs, oldName)
	c.Name = newName
	c.UpdatedAt = time.Now().UTC()
	s.m.clubs[newName] = c
	return nil
}

func (s *MemClubStore) AddToTier(_ context.Context, name, role, email string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.clubs[name]
	if !ok {
		return nil
	}
	switch role {
	case models.RoleStudent:
		if !containsStr(c.Members.Students, email) {
			c.Members.Students = append(c.Members.Students, email)
		}
	case models.RoleOfficer:
		if !containsStr(c.Members.Officers, email) {
			c.Members.Officers = append(c.Members.Officers, email)
		}
	case models.RoleAdvisor:
		if !containsStr(c.Members.Advisors, email) {
			c.Members.Advisors = append(c.Members.Advisors, email)
		}
	}
	s.m.clubs[name] = c
	return nil
}

func (s *MemClubStore) RemoveFromTier(_ context.Context, name, role, email string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.clubs[name]
	if !ok {
		return nil
	}
	switch role {
	case models.RoleStudent:
		c.Members.Students = withoutStr(c.Members.Students, email)
	case models.RoleOfficer:
		c.Members.Officers = withoutStr(c.Members.Officers, email)
	case models.RoleAdvisor:
		c.Members.Advisors = withoutStr(c.Members.Advisors, email)
	}
	s.m.clubs[name] = c
	return nil
}

func (s *MemClubStore) RemoveMemberEverywhere(_ context.Context, email string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for name, c := range s.m.clubs {
		c.Members.Students = withoutStr(c.Members.Students, email)
		c.Members.Officers = withoutStr(c.Members.Officers, email)
		c.Members.Advisors = withoutStr(c.Members.Advisors, email)
		s.m.clubs[name] = c
	}
	return nil
}

func (s *MemClubStore) ReplaceMemberEmail(_ context.Context, oldEmail, newEmail string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for name, c := range s.m.clubs {
		for _, tier := range [][]string{c.Members.Students, c.Members.Officers, c.Members.Advisors} {
			for i, e := range tier {
				if e == oldEmail {
					tier[i] = newEmail
				}
			}
		}
		s.m.clubs[name] = c
	}
	return nil
}

func (s *MemClubStore) Delete(_ context.Context, name string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.clubs, name)
	return nil
}

/* ------------------------------ notes ------------------------------ */

// MemNoteStore is the in-memory cascade.NoteStore.
type MemNoteStore struct{ m *MemStores }

func (s *MemNoteStore) Insert(_ context.Context, n models.Note) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	n.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.CreatorEmail != nil {
		c := *n.CreatorEmail
		n.CreatorEmail = &c
	}
	s.m.notes = append(s.m.notes, n)
	return nil
}

func (s *MemNoteStore) FindShared(_ context.Context, memberEmail, clubName, noteType string) (*models.Note, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, n := range s.m.notes {
		if n.CreatorEmail == nil && n.MemberEmail == memberEmail && n.ClubName == clubName && n.Type == noteType {
			cp := n
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemNoteStore) FindPersonal(_ context.Context, creatorEmail, memberEmail, clubName string) (*models.Note, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, n := range s.m.notes {
		if n.CreatorEmail != nil && *n.CreatorEmail == creatorEmail &&
			n.MemberEmail == memberEmail && n.ClubName == clubName && n.Type == models.NotePersonal {
			cp := n
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemNoteStore) UpdateBodyShared(_ context.Context, memberEmail, clubName, noteType, body string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, n := range s.m.notes {
		if n.CreatorEmail == nil && n.MemberEmail == memberEmail && n.ClubName == clubName && n.Type == noteType {
			s.m.notes[i].Body = body
			s.m.notes[i].UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (s *MemNoteStore) UpdateBodyPersonal(_ context.Context, creatorEmail, memberEmail, clubName, body string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, n := range s.m.notes {
		if n.CreatorEmail != nil && *n.CreatorEmail == creatorEmail &&
			n.MemberEmail == memberEmail && n.ClubName == clubName && n.Type == models.NotePersonal {
			s.m.notes[i].Body = body
			s.m.notes[i].UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (s *MemNoteStore) DeleteByParticipant(_ context.Context, email, clubName string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var kept []models.Note
	var deleted int64
	for _, n := range s.m.notes {
		participant := n.MemberEmail == email || (n.CreatorEmail != nil && *n.CreatorEmail == email)
		if participant && (clubName == "" || n.ClubName == clubName) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.m.notes = kept
	return deleted, nil
}

func (s *MemNoteStore) DeleteByClub(_ context.Context, clubName string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var kept []models.Note
	var deleted int64
	for _, n := range s.m.notes {
		if n.ClubName == clubName {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.m.notes = kept
	return deleted, nil
}

func (s *MemNoteStore) RenameClub(_ context.Context, oldName, newName string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, n := range s.m.notes {
		if n.ClubName == oldName {
			s.m.notes[i].ClubName = newName
		}
	}
	return nil
}

func (s *MemNoteStore) ReplaceCreator(_ context.Context, oldEmail, newEmail string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, n := range s.m.notes {
		if n.CreatorEmail != nil && *n.CreatorEmail == oldEmail {
			e := newEmail
			s.m.notes[i].CreatorEmail = &e
		}
	}
	return nil
}

func (s *MemNoteStore) ReplaceMember(_ context.Context, oldEmail, newEmail string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, n := range s.m.notes {
		if n.MemberEmail == oldEmail {
			s.m.notes[i].MemberEmail = newEmail
		}
	}
	return nil
}

// AllNotes returns a snapshot of every note, for test assertions.
func (s *MemNoteStore) AllNotes() []models.Note {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := make([]models.Note, len(s.m.notes))
	copy(out, s.m.notes)
	return out
}

/* ----------------------------- helpers ----------------------------- */

// clubListFor returns the address of the user's club list field for a
// membership role.
func clubListFor(u *models.User, role string) **[]string {
	switch role {
	case models.RoleOfficer:
		return &u.ClubsOfficer
	case models.RoleAdvisor:
		return &u.ClubsAdvisor
	default:
		return &u.ClubsAttending
	}
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func withoutStr(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func copyList(list *[]string) *[]string {
	if list == nil {
		return nil
	}
	cp := make([]string, len(*list))
	copy(cp, *list)
	return &cp
}

func copyUser(u models.User) models.User {
	u.ClubsAttending = copyList(u.ClubsAttending)
	u.ClubsOfficer = copyList(u.ClubsOfficer)
	u.ClubsAdvisor = copyList(u.ClubsAdvisor)
	return u
}

func copyClub(c models.Club) models.Club {
	c.Members.Students = append([]string(nil), c.Members.Students...)
	c.Members.Officers = append([]string(nil), c.Members.Officers...)
	c.Members.Advisors = append([]string(nil), c.Members.Advisors...)
	return c
}
