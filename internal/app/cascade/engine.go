// Package cascade implements the membership-mutation cascade engine:
// the ordered read/write plans that keep the users, clubs, and notes
// collections consistent whenever a membership edge is added or removed,
// an identifier is renamed, an account type changes, or a user or club
// is deleted.
//
// The engine is the sole writer of derived state (membership tier
// arrays, users' club lists, note existence). Handlers own only direct
// field edits, which they route through UpdateUserField/UpdateClubField.
//
// Every mutation acquires keyed locks on the affected club name and user
// email (sorted, so overlapping acquisitions cannot deadlock) and then
// executes inside one unit of work supplied by the Runner, so a cascade
// either applies fully or not at all on deployments that support
// transactions.
package cascade

import (
	"context"

	"github.com/clubnexus/clubnexus/internal/app/system/keylock"
	"github.com/clubnexus/clubnexus/internal/domain/models"
	"go.uber.org/zap"
)

// UserStore is the identity collection as the engine needs it.
// Lookups return (nil, nil) when no record matches.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, u models.User) (models.User, error)
	// UpdateField sets one direct field (first_name, last_name, school_id).
	UpdateField(ctx context.Context, email, field, value string) error
	SetEmail(ctx context.Context, oldEmail, newEmail string) error
	SetTypeAndLists(ctx context.Context, email, newType string, lists models.ClubListDefaults) error
	// AddClubRef / RemoveClubRef maintain the user-side club list for a role.
	AddClubRef(ctx context.Context, email, role, clubName string) error
	RemoveClubRef(ctx context.Context, email, role, clubName string) error
	// RenameClubRefs rewrites clubName across every user's lists.
	RenameClubRefs(ctx context.Context, oldName, newName string) error
	// RemoveClubRefs removes clubName from every user's lists.
	RemoveClubRefs(ctx context.Context, clubName string) error
	Delete(ctx context.Context, email string) error
}

// ClubStore is the club collection as the engine needs it.
// Lookups return (nil, nil) when no record matches.
type ClubStore interface {
	GetByName(ctx context.Context, name string) (*models.Club, error)
	List(ctx context.Context) ([]models.Club, error)
	Insert(ctx context.Context, c models.Club) (models.Club, error)
	UpdateField(ctx context.Context, name, field, value string) error
	SetName(ctx context.Context, oldName, newName string) error
	// AddToTier is a set-add; re-adding an existing member is a no-op.
	AddToTier(ctx context.Context, name, role, email string) error
	RemoveFromTier(ctx context.Context, name, role, email string) error
	// RemoveMemberEverywhere pulls email from all three tiers of all clubs.
	RemoveMemberEverywhere(ctx context.Context, email string) error
	// ReplaceMemberEmail rewrites tier entries across all clubs.
	ReplaceMemberEmail(ctx context.Context, oldEmail, newEmail string) error
	Delete(ctx context.Context, name string) error
}

// NoteStore is the notes collection as the engine needs it.
// Lookups return (nil, nil) when no record matches.
type NoteStore interface {
	Insert(ctx context.Context, n models.Note) error
	FindShared(ctx context.Context, memberEmail, clubName, noteType string) (*models.Note, error)
	FindPersonal(ctx context.Context, creatorEmail, memberEmail, clubName string) (*models.Note, error)
	// UpdateBody* return false when no note matched.
	UpdateBodyShared(ctx context.Context, memberEmail, clubName, noteType, body string) (bool, error)
	UpdateBodyPersonal(ctx context.Context, creatorEmail, memberEmail, clubName, body string) (bool, error)
	// DeleteByParticipant purges notes where email is creator or member,
	// scoped to clubName, or across all clubs when clubName is empty.
	DeleteByParticipant(ctx context.Context, email, clubName string) (int64, error)
	DeleteByClub(ctx context.Context, clubName string) (int64, error)
	RenameClub(ctx context.Context, oldName, newName string) error
	ReplaceCreator(ctx context.Context, oldEmail, newEmail string) error
	ReplaceMember(ctx context.Context, oldEmail, newEmail string) error
}

// Runner executes a cascade as one unit of work. The mongo-backed
// implementation opens a multi-document transaction; test fakes run the
// function directly.
type Runner interface {
	InUnit(ctx context.Context, fn func(ctx context.Context) error) error
}

// Engine orchestrates cascades across the three stores.
type Engine struct {
	users UserStore
	clubs ClubStore
	notes NoteStore
	run   Runner
	locks *keylock.Keeper
	log   *zap.Logger
}

// New creates an Engine over the given stores and unit-of-work runner.
func New(users UserStore, clubs ClubStore, notes NoteStore, run Runner, logger *zap.Logger) *Engine {
	return &Engine{
		users: users,
		clubs: clubs,
		notes: notes,
		run:   run,
		locks: keylock.New(),
		log:   logger,
	}
}
