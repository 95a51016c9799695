// Package memdoc is an in-memory docstore.Store.
//
// It backs the "memory" store backend in dev mode and the service tests.
// Faults can be injected per operation to exercise failure paths.
package memdoc

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"go.mongodb.org/mongo-driver/bson"
)

// Op names a store operation for fault injection.
type Op string

const (
	OpGet    Op = "get"
	OpQuery  Op = "query"
	OpSet    Op = "set"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpCommit Op = "commit"
)

// FaultFunc returns a non-nil error to make op on path fail.
type FaultFunc func(op Op, path docstore.Path) error

// Store keeps documents in a map keyed by path. Stored documents are never
// mutated in place; every write swaps in a new map.
type Store struct {
	mu    sync.RWMutex
	docs  map[docstore.Path]map[string]any
	clock *docstore.Clock
	fault FaultFunc
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the server timestamp clock.
func WithClock(c *docstore.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		docs:  make(map[docstore.Path]map[string]any),
		clock: docstore.DefaultClock,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// InjectFault installs fn; nil clears it.
func (s *Store) InjectFault(fn FaultFunc) {
	s.mu.Lock()
	s.fault = fn
	s.mu.Unlock()
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// caller holds s.mu
func (s *Store) check(op Op, p docstore.Path) error {
	if s.fault == nil {
		return nil
	}
	return s.fault(op, p)
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Get(ctx context.Context, doc docstore.Path) (*docstore.Snapshot, error) {
	if !doc.IsDoc() {
		return nil, fmt.Errorf("%w: %q", docstore.ErrInvalidPath, doc)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(OpGet, doc); err != nil {
		return nil, err
	}
	data, ok := s.docs[doc]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	snap, err := snapshot(doc, data)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) Query(ctx context.Context, q docstore.Query) ([]docstore.Snapshot, error) {
	if !q.Collection.IsCollection() {
		return nil, fmt.Errorf("%w: %q", docstore.ErrInvalidPath, q.Collection)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filters := make([]docstore.Filter, len(q.Filters))
	for i, f := range q.Filters {
		f.Value = normalize(f.Value)
		if f.Op == docstore.In {
			if _, ok := f.Value.([]any); !ok {
				return nil, fmt.Errorf("memdoc: %q in filter needs a slice", f.Field)
			}
		}
		filters[i] = f
	}

	s.mu.RLock()
	if err := s.check(OpQuery, q.Collection); err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	type hit struct {
		path docstore.Path
		data map[string]any
	}
	var hits []hit
	for p, data := range s.docs {
		if p.Parent() != q.Collection {
			continue
		}
		if matches(data, filters) {
			hits = append(hits, hit{p, data})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		for _, o := range q.Orders {
			a, aok := lookup(hits[i].data, o.Field)
			b, bok := lookup(hits[j].data, o.Field)
			// missing values sort last in either direction
			if aok != bok {
				return aok
			}
			if !aok {
				continue
			}
			c := compare(a, b)
			if c == 0 {
				continue
			}
			if o.Dir == docstore.Desc {
				return c > 0
			}
			return c < 0
		}
		return hits[i].path < hits[j].path
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]docstore.Snapshot, 0, len(hits))
	for _, h := range hits {
		snap, err := snapshot(h.path, h.data)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, doc docstore.Path, data docstore.Fields, opts ...docstore.SetOption) error {
	b := s.single(OpSet, doc)
	b.Set(doc, data, opts...)
	return b.Commit(ctx)
}

func (s *Store) Add(ctx context.Context, coll docstore.Path, data docstore.Fields) (string, error) {
	if !coll.IsCollection() {
		return "", fmt.Errorf("%w: %q", docstore.ErrInvalidPath, coll)
	}
	b := s.single(OpAdd, coll)
	doc := b.Add(coll, data)
	if err := b.Commit(ctx); err != nil {
		return "", err
	}
	return doc.ID(), nil
}

func (s *Store) Update(ctx context.Context, doc docstore.Path, data docstore.Fields) error {
	b := s.single(OpUpdate, doc)
	b.Update(doc, data)
	return b.Commit(ctx)
}

func (s *Store) Delete(ctx context.Context, doc docstore.Path) error {
	b := s.single(OpDelete, doc)
	b.Delete(doc)
	return b.Commit(ctx)
}

func (s *Store) single(op Op, p docstore.Path) *docstore.WriteBatch {
	return docstore.NewBatch(func(ctx context.Context, writes []docstore.Write) error {
		return s.apply(ctx, writes, func() error { return s.check(op, p) })
	})
}

// Batch returns a batch applied under the store lock against a staged copy
// of the document map; the copy replaces the live map only if every write
// succeeds. Faults are checked for OpCommit and then for each write.
func (s *Store) Batch() docstore.Batch {
	return docstore.NewBatch(func(ctx context.Context, writes []docstore.Write) error {
		return s.apply(ctx, writes, func() error {
			if err := s.check(OpCommit, writes[0].Path); err != nil {
				return err
			}
			for _, w := range writes {
				if err := s.check(opFor(w.Kind), w.Path); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (s *Store) apply(ctx context.Context, writes []docstore.Write, precheck func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := precheck(); err != nil {
		return err
	}

	now := s.clock.Now()
	staged := make(map[docstore.Path]map[string]any, len(s.docs)+len(writes))
	for k, v := range s.docs {
		staged[k] = v
	}

	for _, w := range writes {
		switch w.Kind {
		case docstore.WriteSet:
			data := normalizeFields(docstore.Resolve(w.Data, now))
			if w.Merge {
				if cur, ok := staged[w.Path]; ok {
					data = mergeInto(deepCopy(cur), data)
				}
			}
			staged[w.Path] = data
		case docstore.WriteUpdate:
			cur, ok := staged[w.Path]
			if !ok {
				return fmt.Errorf("update %s: %w", w.Path, docstore.ErrNotFound)
			}
			next := deepCopy(cur)
			for k, v := range normalizeFields(docstore.Resolve(w.Data, now)) {
				setDotted(next, k, v)
			}
			staged[w.Path] = next
		case docstore.WriteDelete:
			delete(staged, w.Path)
		}
	}

	s.docs = staged
	return nil
}

func opFor(k docstore.WriteKind) Op {
	switch k {
	case docstore.WriteUpdate:
		return OpUpdate
	case docstore.WriteDelete:
		return OpDelete
	default:
		return OpSet
	}
}

func snapshot(p docstore.Path, data map[string]any) (docstore.Snapshot, error) {
	doc := make(bson.M, len(data)+1)
	for k, v := range data {
		doc[k] = v
	}
	doc["_id"] = p.ID()
	raw, err := bson.Marshal(doc)
	if err != nil {
		return docstore.Snapshot{}, fmt.Errorf("memdoc: encode %s: %w", p, err)
	}
	return docstore.NewSnapshot(p, raw), nil
}

func matches(data map[string]any, filters []docstore.Filter) bool {
	for _, f := range filters {
		v, ok := lookup(data, f.Field)
		switch f.Op {
		case docstore.Eq:
			if !ok || !equal(v, f.Value) {
				return false
			}
		case docstore.In:
			if !ok {
				return false
			}
			found := false
			for _, want := range f.Value.([]any) {
				if equal(v, want) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func lookup(data map[string]any, field string) (any, bool) {
	parts := strings.Split(field, ".")
	var cur any = data
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func setDotted(data map[string]any, field string, v any) {
	parts := strings.Split(field, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

func mergeInto(dst, src map[string]any) map[string]any {
	for k, v := range src {
		sm, sok := v.(map[string]any)
		dm, dok := dst[k].(map[string]any)
		if sok && dok {
			dst[k] = mergeInto(dm, sm)
			continue
		}
		dst[k] = v
	}
	return dst
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	default:
		return v
	}
}
