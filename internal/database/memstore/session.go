package memstore

import (
	"context"
	"fmt"

	"suggestion-tracker/internal/database"
)

type sessionKey struct{}

type session struct {
	store *Store
	tx    *txn
	ended bool
}

var _ database.Session = (*session)(nil)

// txn holds a private copy of every collection as of StartTransaction and the
// committed version of each document it wrote, taken from that copy.
type txn struct {
	snapshot map[string]*collectionData
	written  map[string]map[string]uint64
}

func (t *txn) collection(name string) *collectionData {
	c, ok := t.snapshot[name]
	if !ok {
		c = newCollectionData()
		t.snapshot[name] = c
	}
	return c
}

func (t *txn) touch(collection, id string) {
	docs, ok := t.written[collection]
	if !ok {
		docs = map[string]uint64{}
		t.written[collection] = docs
	}
	if _, seen := docs[id]; !seen {
		docs[id] = t.collection(collection).versions[id]
	}
}

func (s *session) StartTransaction() error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if s.tx != nil {
		return ErrTransactionInProgress
	}
	snapshot := make(map[string]*collectionData, len(s.store.collections))
	for name, c := range s.store.collections {
		snapshot[name] = c.clone()
	}
	s.tx = &txn{snapshot: snapshot, written: map[string]map[string]uint64{}}
	return nil
}

func (s *session) CommitTransaction(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.tx == nil {
		return ErrNoTransaction
	}
	tx := s.tx
	// A commit attempt ends the transaction whatever its outcome.
	s.tx = nil

	if err := s.store.recordLocked(OpCommit, ""); err != nil {
		return err
	}

	for name, docs := range tx.written {
		committed := s.store.committedLocked(name)
		for id, base := range docs {
			if committed.versions[id] != base {
				return fmt.Errorf("%w: %s._id %q changed since transaction start", ErrWriteConflict, name, id)
			}
		}
	}

	for name, docs := range tx.written {
		committed := s.store.committedLocked(name)
		staged := tx.snapshot[name]
		for id := range docs {
			if _, exists := committed.docs[id]; !exists {
				committed.order = append(committed.order, id)
			}
			committed.docs[id] = staged.docs[id]
			committed.versions[id]++
		}
	}
	return nil
}

func (s *session) AbortTransaction(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.calls[callKey{OpAbort, ""}]++
	if s.tx == nil {
		return ErrNoTransaction
	}
	s.tx = nil
	return nil
}

func (s *session) EndSession(_ context.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.tx = nil
	s.ended = true
}

func (s *session) Bind(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}
