package docstore

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Op is a filter operator.
type Op string

const (
	Eq Op = "=="
	In Op = "in"
)

// Direction is a sort direction.
type Direction int

const (
	Asc  Direction = 1
	Desc Direction = -1
)

// Filter restricts a query to documents whose Field matches Value.
// For In, Value must be a slice.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Order sorts query results by Field.
type Order struct {
	Field string
	Dir   Direction
}

// Query selects documents from one collection.
type Query struct {
	Collection Path
	Filters    []Filter
	Orders     []Order
	Limit      int
}

// From starts a query over coll.
func From(coll Path) Query {
	return Query{Collection: coll}
}

// Where adds a filter.
func (q Query) Where(field string, op Op, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// OrderBy adds a sort key. Later keys break ties of earlier ones.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Field: field, Dir: dir})
	return q
}

// WithLimit caps the number of results; zero means no limit.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Snapshot is one document as read from the store. The payload is BSON,
// the encoding both adapters share.
type Snapshot struct {
	Path Path
	raw  bson.Raw
}

// NewSnapshot wraps a raw document read at path.
func NewSnapshot(path Path, raw bson.Raw) Snapshot {
	return Snapshot{Path: path, raw: raw}
}

// ID returns the document ID.
func (s Snapshot) ID() string { return s.Path.ID() }

// DataTo decodes the document into v (a pointer to a struct with bson tags).
// The document ID is available under the "_id" key.
func (s Snapshot) DataTo(v any) error {
	return bson.Unmarshal(s.raw, v)
}

// Raw exposes the undecoded document.
func (s Snapshot) Raw() bson.Raw { return s.raw }
