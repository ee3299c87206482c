// Package userstore persists user records in the users collection.
// It implements the cascade engine's UserStore interface; emails are
// normalized before they reach this layer.
package userstore

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
	return &Store{c: db.Collection("users")}
}

// fieldNames maps API field names to their bson counterparts for direct
// edits. The cascade engine rejects anything outside this set before
// calling UpdateField.
var fieldNames = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"schoolID":  "school_id",
}

// listFields maps a membership role to the user-side club list field.
var listFields = map[string]string{
	models.RoleStudent: "clubs_attending",
	models.RoleOfficer: "clubs_officer",
	models.RoleAdvisor: "clubs_advisor",
}

// GetByEmail loads a user by email. Returns (nil, nil) when no user
// matches.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List returns every user record.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListAdmins returns every admin user.
func (s *Store) ListAdmins(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"type": models.TypeAdmin})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Insert creates a new user record. The unique email index backs up the
// engine's existence check; races surface as Conflict.
func (s *Store) Insert(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apierr.New(apierr.Conflict, "user with email %s already exists", u.Email)
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateField sets one direct-edit field.
func (s *Store) UpdateField(ctx context.Context, email, field, value string) error {
	name, ok := fieldNames[field]
	if !ok {
		return apierr.New(apierr.InvalidField, "invalid field: %s", field)
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{name: value, "updated_at": time.Now().UTC()},
	})
	return err
}

// SetEmail rewrites the user's email. Callers rewrite club tiers and
// notes in the same unit of work.
func (s *Store) SetEmail(ctx context.Context, oldEmail, newEmail string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"email": oldEmail}, bson.M{
		"$set": bson.M{"email": newEmail, "updated_at": time.Now().UTC()},
	})
	if wafflemongo.IsDup(err) {
		return apierr.New(apierr.Conflict, "user with email %s already exists", newEmail)
	}
	return err
}

// SetTypeAndLists transitions the account type and replaces all three
// club lists with the defaults for the new type (nil lists store as
// null).
func (s *Store) SetTypeAndLists(ctx context.Context, email, newType string, lists models.ClubListDefaults) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{
			"type":            newType,
			"clubs_attending": lists.Attending,
			"clubs_officer":   lists.Officer,
			"clubs_advisor":   lists.Advisor,
			"updated_at":      time.Now().UTC(),
		},
	})
	return err
}

// AddClubRef set-adds clubName to the user's list for role.
func (s *Store) AddClubRef(ctx context.Context, email, role, clubName string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$addToSet": bson.M{listFields[role]: clubName},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveClubRef pulls clubName from the user's list for role.
func (s *Store) RemoveClubRef(ctx context.Context, email, role, clubName string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"email": email, listFields[role]: clubName}, bson.M{
		"$pull": bson.M{listFields[role]: clubName},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RenameClubRefs rewrites oldName to newName across every user's club
// lists. A club name appears at most once per list, so the positional
// operator reaches every occurrence.
func (s *Store) RenameClubRefs(ctx context.Context, oldName, newName string) error {
	for _, field := range listFields {
		if _, err := s.c.UpdateMany(ctx, bson.M{field: oldName}, bson.M{
			"$set": bson.M{field + ".$": newName, "updated_at": time.Now().UTC()},
		}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveClubRefs pulls clubName from every user's club lists. Filtering
// on the name keeps $pull away from the null lists other account types
// carry.
func (s *Store) RemoveClubRefs(ctx context.Context, clubName string) error {
	for _, field := range listFields {
		if _, err := s.c.UpdateMany(ctx, bson.M{field: clubName}, bson.M{
			"$pull": bson.M{field: clubName},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		}); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the user record.
func (s *Store) Delete(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": email})
	return err
}
