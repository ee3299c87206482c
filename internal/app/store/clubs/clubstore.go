// Package clubstore persists club records, including the three
// membership tier arrays, in the clubs collection. It implements the
// cascade engine's ClubStore interface.
package clubstore

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
	return &Store{c: db.Collection("clubs")}
}

// fieldNames maps API field names to their bson counterparts for direct
// edits.
var fieldNames = map[string]string{
	"dates":       "dates",
	"picture":     "picture",
	"description": "description",
}

// tierFields maps a membership role to its tier array field.
var tierFields = map[string]string{
	models.RoleStudent: "members.students",
	models.RoleOfficer: "members.officers",
	models.RoleAdvisor: "members.advisors",
}

// GetByName loads a club by name. Returns (nil, nil) when no club
// matches.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Club, error) {
	var c models.Club
	if err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// List returns every club record.
func (s *Store) List(ctx context.Context) ([]models.Club, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// Insert creates a new club record. The unique name index backs up the
// engine's existence check; races surface as Conflict.
func (s *Store) Insert(ctx context.Context, c models.Club) (models.Club, error) {
	c.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, apierr.New(apierr.Conflict, "club already exists: %s", c.Name)
		}
		return models.Club{}, err
	}
	return c, nil
}

// UpdateField sets one direct-edit field.
func (s *Store) UpdateField(ctx context.Context, name, field, value string) error {
	bsonName, ok := fieldNames[field]
	if !ok {
		return apierr.New(apierr.InvalidField, "invalid field: %s", field)
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"name": name}, bson.M{
		"$set": bson.M{bsonName: value, "updated_at": time.Now().UTC()},
	})
	return err
}

// SetName rewrites the club's name. Callers rewrite user club lists and
// notes in the same unit of work.
func (s *Store) SetName(ctx context.Context, oldName, newName string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"name": oldName}, bson.M{
		"$set": bson.M{"name": newName, "updated_at": time.Now().UTC()},
	})
	if wafflemongo.IsDup(err) {
		return apierr.New(apierr.Conflict, "club already exists: %s", newName)
	}
	return err
}

// AddToTier set-adds email to the club's tier for role.
func (s *Store) AddToTier(ctx context.Context, name, role, email string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"name": name}, bson.M{
		"$addToSet": bson.M{tierFields[role]: email},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveFromTier pulls email from the club's tier for role.
func (s *Store) RemoveFromTier(ctx context.Context, name, role, email string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"name": name}, bson.M{
		"$pull": bson.M{tierFields[role]: email},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveMemberEverywhere pulls email from all three tiers of every club.
func (s *Store) RemoveMemberEverywhere(ctx context.Context, email string) error {
	_, err := s.c.UpdateMany(ctx, bson.M{}, bson.M{
		"$pull": bson.M{
			"members.students": email,
			"members.officers": email,
			"members.advisors": email,
		},
	})
	return err
}

// ReplaceMemberEmail rewrites oldEmail to newEmail across every club's
// tiers. An email appears at most once per tier, so the positional
// operator reaches every occurrence.
func (s *Store) ReplaceMemberEmail(ctx context.Context, oldEmail, newEmail string) error {
	for _, field := range tierFields {
		if _, err := s.c.UpdateMany(ctx, bson.M{field: oldEmail}, bson.M{
			"$set": bson.M{field + ".$": newEmail, "updated_at": time.Now().UTC()},
		}); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the club record.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"name": name})
	return err
}
