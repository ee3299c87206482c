// Package indexes reconciles the schema's indexes at startup. Each
// ensure function is idempotent: an index whose keys and options
// already match is reused, a mismatched one is dropped and recreated.
// Errors are aggregated so every problem is visible and startup can
// fail fast.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup (and from store tests).
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureClubs(ctx, db); err != nil {
		problems = append(problems, "clubs: "+err.Error())
	}
	if err := ensureNotes(ctx, db); err != nil {
		problems = append(problems, "notes: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Admin listing for note seeding.
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index().SetName("idx_users_type"),
		},
	})
}

func ensureClubs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("clubs"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_clubs_name"),
		},
		// Tier scans when a member is removed everywhere or renamed.
		{
			Keys:    bson.D{{Key: "members.students", Value: 1}},
			Options: options.Index().SetName("idx_clubs_students"),
		},
		{
			Keys:    bson.D{{Key: "members.officers", Value: 1}},
			Options: options.Index().SetName("idx_clubs_officers"),
		},
		{
			Keys:    bson.D{{Key: "members.advisors", Value: 1}},
			Options: options.Index().SetName("idx_clubs_advisors"),
		},
	})
}

func ensureNotes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("notes"), []mongo.IndexModel{
		// One shared note per (member, club, type); shared notes carry a
		// null creator.
		{
			Keys: bson.D{
				{Key: "member_email", Value: 1},
				{Key: "club_name", Value: 1},
				{Key: "type", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_notes_shared").
				SetPartialFilterExpression(bson.D{
					{Key: "creator_email", Value: bson.D{{Key: "$type", Value: "null"}}},
				}),
		},
		// One personal note per (creator, member, club).
		{
			Keys: bson.D{
				{Key: "creator_email", Value: 1},
				{Key: "member_email", Value: 1},
				{Key: "club_name", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_notes_personal").
				SetPartialFilterExpression(bson.D{
					{Key: "creator_email", Value: bson.D{{Key: "$type", Value: "string"}}},
				}),
		},
		// Club-scoped purges and renames.
		{
			Keys:    bson.D{{Key: "club_name", Value: 1}},
			Options: options.Index().SetName("idx_notes_club"),
		},
		// Participant purges match either side.
		{
			Keys:    bson.D{{Key: "member_email", Value: 1}},
			Options: options.Index().SetName("idx_notes_member"),
		},
		{
			Keys:    bson.D{{Key: "creator_email", Value: 1}},
			Options: options.Index().SetName("idx_notes_creator"),
		},
	})
}

/* ------------------------- reconcile machinery ------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ",")
}

func boolOf(p *bool) bool { return p != nil && *p }

// ensureIndexSet reconciles the desired indexes on one collection.
// Indexes are matched by key signature: same keys and same uniqueness
// are reused, anything else is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return err
	}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	if err := cur.Close(ctx); err != nil {
		return err
	}

	var errs []string
	for _, m := range desired {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if boolOf(unique) == boolOf(ex.Unique) {
				continue // reuse
			}
			// Options changed (e.g. upgraded to unique): drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Bool("unique", boolOf(unique)),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolOf(unique)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
