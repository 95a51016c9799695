// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup when the Mongo backend is active. Each
ensure* function is idempotent. Errors are aggregated so every problem is
visible and startup can fail fast.

Collection names follow the document store mapping: the collection segments
of a path joined with "_" (users/{uid}/categories -> users_categories).
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"identities", ensureIdentities},
		{"users_categories", ensureCategories},
		{"users_transactions", ensureTransactions},
		{"users_todos", ensureTodos},
		{"users_todos_history", ensureTodoHistory},
		{"audit_events", ensureAuditEvents},
		{"oauth_states", ensureOAuthStates},
	}

	var problems []string
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

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
	return strings.Join(parts, ", ")
}

func isUnique(p *bool) bool { return p != nil && *p }

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates each desired index, reusing an existing index with
// the same keys and uniqueness and replacing one whose name or uniqueness
// differs.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// a collection that does not exist yet has no indexes
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(unique) == isUnique(ex.Unique) && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
			zap.L().Info("dropped index for recreation",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name))
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isDuplicateKeyErr(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureIdentities(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("identities"), []mongo.IndexModel{
		// One password identity per email; external identities may share it.
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_identities_password_email").
				SetPartialFilterExpression(bson.M{"provider": "password"}),
		},
		{
			Keys: bson.D{{Key: "provider", Value: 1}, {Key: "subject", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_identities_provider_subject").
				SetPartialFilterExpression(bson.M{"subject": bson.M{"$type": "string"}}),
		},
	})
}

func ensureCategories(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users_categories"), []mongo.IndexModel{
		// duplicate-name check and the active picker
		{
			Keys: bson.D{
				{Key: "_parent", Value: 1},
				{Key: "status", Value: 1},
				{Key: "type", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_categories_parent_status_type_nameci"),
		},
		{
			Keys:    bson.D{{Key: "_parent", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_categories_parent_nameci"),
		},
	})
}

func ensureTransactions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users_transactions"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "_parent", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_transactions_parent_date"),
		},
	})
}

func ensureTodos(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users_todos"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "_parent", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_todos_parent_createdat"),
		},
	})
}

func ensureTodoHistory(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users_todos_history"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "_parent", Value: 1}, {Key: "changed_at", Value: 1}},
			Options: options.Index().SetName("idx_todohistory_parent_changedat"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
	})
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("oauth_states"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_ttl"),
		},
	})
}
