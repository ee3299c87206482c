// Package notestore persists notes. Shared notes have a null creator
// and are unique per (member, club, type); personal notes are unique
// per (creator, member, club). Only the body is ever updated in place;
// note existence is managed by the cascade engine.
package notestore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notes")}
}

// Insert creates one note. The partial unique indexes reject a
// duplicate seed within the same identity.
func (s *Store) Insert(ctx context.Context, n models.Note) error {
	n.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		if wafflemongo.IsDup(err) {
			return apierr.New(apierr.Conflict, "note already exists for %s in %s", n.MemberEmail, n.ClubName)
		}
		return err
	}
	return nil
}

// FindShared loads the shared note for (member, club, type). Returns
// (nil, nil) when no note matches.
func (s *Store) FindShared(ctx context.Context, memberEmail, clubName, noteType string) (*models.Note, error) {
	return s.findOne(ctx, bson.M{
		"creator_email": nil,
		"member_email":  memberEmail,
		"club_name":     clubName,
		"type":          noteType,
	})
}

// FindPersonal loads the personal note authored by creatorEmail about
// memberEmail in clubName. Returns (nil, nil) when no note matches.
func (s *Store) FindPersonal(ctx context.Context, creatorEmail, memberEmail, clubName string) (*models.Note, error) {
	return s.findOne(ctx, bson.M{
		"creator_email": creatorEmail,
		"member_email":  memberEmail,
		"club_name":     clubName,
		"type":          models.NotePersonal,
	})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Note, error) {
	var n models.Note
	if err := s.c.FindOne(ctx, filter).Decode(&n); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// UpdateBodyShared replaces the shared note's body. Returns false when
// no note matched.
func (s *Store) UpdateBodyShared(ctx context.Context, memberEmail, clubName, noteType, body string) (bool, error) {
	return s.updateBody(ctx, bson.M{
		"creator_email": nil,
		"member_email":  memberEmail,
		"club_name":     clubName,
		"type":          noteType,
	}, body)
}

// UpdateBodyPersonal replaces the personal note's body. Returns false
// when no note matched.
func (s *Store) UpdateBodyPersonal(ctx context.Context, creatorEmail, memberEmail, clubName, body string) (bool, error) {
	return s.updateBody(ctx, bson.M{
		"creator_email": creatorEmail,
		"member_email":  memberEmail,
		"club_name":     clubName,
		"type":          models.NotePersonal,
	}, body)
}

func (s *Store) updateBody(ctx context.Context, filter bson.M, body string) (bool, error) {
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"note": body, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteByParticipant purges notes where email appears as creator or
// member, scoped to clubName, or across all clubs when clubName is
// empty.
func (s *Store) DeleteByParticipant(ctx context.Context, email, clubName string) (int64, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"member_email": email},
			bson.M{"creator_email": email},
		},
	}
	if clubName != "" {
		filter["club_name"] = clubName
	}
	res, err := s.c.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByClub purges every note scoped to clubName.
func (s *Store) DeleteByClub(ctx context.Context, clubName string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"club_name": clubName})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RenameClub rewrites the club name on every note scoped to it.
func (s *Store) RenameClub(ctx context.Context, oldName, newName string) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"club_name": oldName}, bson.M{
		"$set": bson.M{"club_name": newName, "updated_at": time.Now().UTC()},
	})
	return err
}

// ReplaceCreator rewrites the creator email on every note authored by
// oldEmail.
func (s *Store) ReplaceCreator(ctx context.Context, oldEmail, newEmail string) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"creator_email": oldEmail}, bson.M{
		"$set": bson.M{"creator_email": newEmail, "updated_at": time.Now().UTC()},
	})
	return err
}

// ReplaceMember rewrites the member email on every note about oldEmail.
func (s *Store) ReplaceMember(ctx context.Context, oldEmail, newEmail string) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"member_email": oldEmail}, bson.M{
		"$set": bson.M{"member_email": newEmail, "updated_at": time.Now().UTC()},
	})
	return err
}
