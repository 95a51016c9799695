// Package mongodoc implements docstore.Store on MongoDB.
//
// A collection path maps to a Mongo collection named after its collection
// segments joined with "_" (users/{uid}/todos/{id}/history is stored in
// users_todos_history). Each document stores its full
// path as _id and its collection path as _parent, so owner-scoped queries
// are a single indexed equality on _parent.
package mongodoc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/txn"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	fieldID     = "_id"
	fieldParent = "_parent"

	codeUnauthorized = 13
)

// Store is a docstore.Store over one Mongo database.
type Store struct {
	db    *mongo.Database
	clock *docstore.Clock
	log   *zap.Logger
}

// New returns a Store writing to db.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{db: db, clock: docstore.DefaultClock, log: logger}
}

// CollectionName returns the Mongo collection backing a collection path.
func CollectionName(coll docstore.Path) string {
	return strings.Join(coll.Names(), "_")
}

func (s *Store) coll(doc docstore.Path) *mongo.Collection {
	return s.db.Collection(CollectionName(doc.Parent()))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *Store) Get(ctx context.Context, doc docstore.Path) (*docstore.Snapshot, error) {
	if !doc.IsDoc() {
		return nil, fmt.Errorf("%w: %q", docstore.ErrInvalidPath, doc)
	}
	raw, err := s.coll(doc).FindOne(ctx, bson.M{fieldID: string(doc)}).Raw()
	if err != nil {
		return nil, mapErr("get", doc, err)
	}
	snap, err := toSnapshot(doc, raw)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]docstore.Snapshot, error) {
	if !q.Collection.IsCollection() {
		return nil, fmt.Errorf("%w: %q", docstore.ErrInvalidPath, q.Collection)
	}
	filter := bson.M{fieldParent: string(q.Collection)}
	for _, f := range q.Filters {
		switch f.Op {
		case docstore.Eq:
			filter[f.Field] = f.Value
		case docstore.In:
			filter[f.Field] = bson.M{"$in": f.Value}
		default:
			return nil, fmt.Errorf("mongodoc: unsupported operator %q", f.Op)
		}
	}

	sort := bson.D{}
	for _, o := range q.Orders {
		sort = append(sort, bson.E{Key: o.Field, Value: int(o.Dir)})
	}
	// IDs are time-ordered, so equal sort keys come back in write order.
	sort = append(sort, bson.E{Key: fieldID, Value: 1})
	opts := options.Find().SetSort(sort)
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.db.Collection(CollectionName(q.Collection)).Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr("query", q.Collection, err)
	}
	defer cur.Close(ctx)

	var out []docstore.Snapshot
	for cur.Next(ctx) {
		id, ok := cur.Current.Lookup(fieldID).StringValueOK()
		if !ok {
			return nil, fmt.Errorf("mongodoc: %s has a non-string _id", q.Collection)
		}
		snap, err := toSnapshot(docstore.Path(id), cur.Current)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := cur.Err(); err != nil {
		return nil, mapErr("query", q.Collection, err)
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, doc docstore.Path, data docstore.Fields, opts ...docstore.SetOption) error {
	b := docstore.NewBatch(s.applyAll)
	b.Set(doc, data, opts...)
	return b.Commit(ctx)
}

func (s *Store) Add(ctx context.Context, coll docstore.Path, data docstore.Fields) (string, error) {
	if !coll.IsCollection() {
		return "", fmt.Errorf("%w: %q", docstore.ErrInvalidPath, coll)
	}
	b := docstore.NewBatch(s.applyAll)
	doc := b.Add(coll, data)
	if err := b.Commit(ctx); err != nil {
		return "", err
	}
	return doc.ID(), nil
}

func (s *Store) Update(ctx context.Context, doc docstore.Path, data docstore.Fields) error {
	b := docstore.NewBatch(s.applyAll)
	b.Update(doc, data)
	return b.Commit(ctx)
}

func (s *Store) Delete(ctx context.Context, doc docstore.Path) error {
	b := docstore.NewBatch(s.applyAll)
	b.Delete(doc)
	return b.Commit(ctx)
}

// Batch returns a batch committed inside a multi-document transaction.
func (s *Store) Batch() docstore.Batch {
	return docstore.NewBatch(s.commit)
}

func (s *Store) commit(ctx context.Context, writes []docstore.Write) error {
	err := txn.Run(ctx, s.db.Client(), func(sc mongo.SessionContext) error {
		return s.applyAll(sc, writes)
	})
	if err == nil || !txn.IsNotSupported(err) {
		return err
	}

	s.log.Warn("transactions not supported; committing batch sequentially",
		zap.Int("writes", len(writes)),
		zap.Error(err))
	return s.commitSequential(ctx, writes)
}

// applyAll runs writes in order with a single server timestamp.
func (s *Store) applyAll(ctx context.Context, writes []docstore.Write) error {
	now := s.clock.Now()
	for _, w := range writes {
		if err := s.apply(ctx, w, docstore.Resolve(w.Data, now)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) apply(ctx context.Context, w docstore.Write, data docstore.Fields) error {
	c := s.coll(w.Path)
	id := string(w.Path)
	parent := string(w.Path.Parent())

	switch w.Kind {
	case docstore.WriteSet:
		if w.Merge {
			set := bson.M{fieldParent: parent}
			for k, v := range docstore.Flatten(data) {
				set[k] = v
			}
			_, err := c.UpdateOne(ctx, bson.M{fieldID: id}, bson.M{"$set": set}, options.Update().SetUpsert(true))
			return mapErr("set", w.Path, err)
		}
		doc := bson.M{fieldID: id, fieldParent: parent}
		for k, v := range data {
			doc[k] = v
		}
		_, err := c.ReplaceOne(ctx, bson.M{fieldID: id}, doc, options.Replace().SetUpsert(true))
		return mapErr("set", w.Path, err)

	case docstore.WriteUpdate:
		set := bson.M{}
		for k, v := range data {
			set[k] = v
		}
		res, err := c.UpdateOne(ctx, bson.M{fieldID: id}, bson.M{"$set": set})
		if err != nil {
			return mapErr("update", w.Path, err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("mongodoc update %s: %w", w.Path, docstore.ErrNotFound)
		}
		return nil

	case docstore.WriteDelete:
		_, err := c.DeleteOne(ctx, bson.M{fieldID: id})
		return mapErr("delete", w.Path, err)
	}
	return fmt.Errorf("mongodoc: unknown write kind %v", w.Kind)
}

type priorState struct {
	path docstore.Path
	raw  bson.Raw // nil when the document did not exist
}

// commitSequential applies writes one by one and, on failure, restores the
// documents already touched in reverse order. Best effort: a crash midway
// leaves partial state.
func (s *Store) commitSequential(ctx context.Context, writes []docstore.Write) error {
	now := s.clock.Now()
	var applied []priorState

	for _, w := range writes {
		prior, err := s.coll(w.Path).FindOne(ctx, bson.M{fieldID: string(w.Path)}).Raw()
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			s.undo(ctx, applied)
			return mapErr("read", w.Path, err)
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			prior = nil
		}
		if err := s.apply(ctx, w, docstore.Resolve(w.Data, now)); err != nil {
			s.undo(ctx, applied)
			return err
		}
		applied = append(applied, priorState{path: w.Path, raw: prior})
	}
	return nil
}

func (s *Store) undo(ctx context.Context, applied []priorState) {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		p := applied[i]
		c := s.coll(p.path)
		var err error
		if p.raw == nil {
			_, err = c.DeleteOne(ctx, bson.M{fieldID: string(p.path)})
		} else {
			_, err = c.ReplaceOne(ctx, bson.M{fieldID: string(p.path)}, p.raw, options.Replace().SetUpsert(true))
		}
		if err != nil {
			s.log.Error("batch undo failed", zap.String("path", string(p.path)), zap.Error(err))
		}
	}
}

// toSnapshot rewrites _id to the bare document ID and drops _parent so
// callers see the same shape as every other adapter.
func toSnapshot(doc docstore.Path, raw bson.Raw) (docstore.Snapshot, error) {
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return docstore.Snapshot{}, fmt.Errorf("mongodoc: decode %s: %w", doc, err)
	}
	out := make(bson.D, 0, len(d))
	for _, e := range d {
		switch e.Key {
		case fieldParent:
			continue
		case fieldID:
			e.Value = doc.ID()
		}
		out = append(out, e)
	}
	b, err := bson.Marshal(out)
	if err != nil {
		return docstore.Snapshot{}, fmt.Errorf("mongodoc: encode %s: %w", doc, err)
	}
	return docstore.NewSnapshot(doc, b), nil
}

func mapErr(op string, p docstore.Path, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("mongodoc %s %s: %w", op, p, docstore.ErrNotFound)
	case wafflemongo.IsDup(err):
		return fmt.Errorf("mongodoc %s %s: %w: %w", op, p, docstore.ErrAlreadyExists, err)
	case isUnauthorized(err):
		return fmt.Errorf("mongodoc %s %s: %w: %w", op, p, docstore.ErrPermissionDenied, err)
	}
	return fmt.Errorf("mongodoc %s %s: %w", op, p, err)
}

func isUnauthorized(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(codeUnauthorized)
}
