package docstore

import (
	"context"
	"fmt"
)

// WriteKind identifies a queued batch write.
type WriteKind int

const (
	WriteSet WriteKind = iota
	WriteUpdate
	WriteDelete
)

func (k WriteKind) String() string {
	switch k {
	case WriteSet:
		return "set"
	case WriteUpdate:
		return "update"
	case WriteDelete:
		return "delete"
	default:
		return fmt.Sprintf("write(%d)", int(k))
	}
}

// Write is one queued batch operation. Adds are queued as non-merge sets
// to a freshly generated path.
type Write struct {
	Kind  WriteKind
	Path  Path
	Data  Fields
	Merge bool
}

// CommitFunc applies all writes atomically.
type CommitFunc func(ctx context.Context, writes []Write) error

// WriteBatch is a Batch that records writes and hands them to an adapter's
// CommitFunc. Invalid paths are remembered and reported at Commit.
type WriteBatch struct {
	writes []Write
	err    error
	commit CommitFunc
	done   bool
}

// NewBatch returns a batch committed by fn.
func NewBatch(fn CommitFunc) *WriteBatch {
	return &WriteBatch{commit: fn}
}

func (b *WriteBatch) fail(op string, p Path) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: batch %s %q", ErrInvalidPath, op, p)
	}
}

func (b *WriteBatch) Set(doc Path, data Fields, opts ...SetOption) Batch {
	if !doc.IsDoc() {
		b.fail("set", doc)
		return b
	}
	o := ApplySetOptions(opts)
	b.writes = append(b.writes, Write{Kind: WriteSet, Path: doc, Data: data, Merge: o.Merge})
	return b
}

func (b *WriteBatch) Add(coll Path, data Fields) Path {
	if !coll.IsCollection() {
		b.fail("add", coll)
		return ""
	}
	doc := coll.Child(NewID())
	b.writes = append(b.writes, Write{Kind: WriteSet, Path: doc, Data: data})
	return doc
}

func (b *WriteBatch) Update(doc Path, data Fields) Batch {
	if !doc.IsDoc() {
		b.fail("update", doc)
		return b
	}
	b.writes = append(b.writes, Write{Kind: WriteUpdate, Path: doc, Data: data})
	return b
}

func (b *WriteBatch) Delete(doc Path) Batch {
	if !doc.IsDoc() {
		b.fail("delete", doc)
		return b
	}
	b.writes = append(b.writes, Write{Kind: WriteDelete, Path: doc})
	return b
}

// Writes returns the queued writes.
func (b *WriteBatch) Writes() []Write { return b.writes }

// Commit applies the queued writes. A batch can be committed once.
func (b *WriteBatch) Commit(ctx context.Context) error {
	if b.done {
		return fmt.Errorf("docstore: batch already committed")
	}
	b.done = true
	if b.err != nil {
		return b.err
	}
	if len(b.writes) == 0 {
		return nil
	}
	return b.commit(ctx, b.writes)
}
