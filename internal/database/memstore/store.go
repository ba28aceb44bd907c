// Package memstore is an in-process document store implementing database.Gateway.
//
// Documents are kept as encoded bson, so values read back are never aliased
// with values written. Transactions read from a snapshot taken when they
// start and fail at commit with ErrWriteConflict if a document they wrote was
// committed by someone else in the meantime (first committer wins).
//
// Filters support equality on top-level and dotted fields only.
package memstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"suggestion-tracker/internal/database"
)

var (
	ErrWriteConflict         = errors.New("write conflict")
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrMissingID             = errors.New("document has no string _id")
	ErrImmutableID           = errors.New("replacement changes _id")
	ErrNoTransaction         = errors.New("no transaction started")
	ErrTransactionInProgress = errors.New("transaction already in progress")
	ErrSessionEnded          = errors.New("session ended")
)

// Op names a store operation for call counting and fault injection.
type Op string

const (
	OpFind         Op = "find"
	OpFindOne      Op = "findOne"
	OpInsert       Op = "insertOne"
	OpReplace      Op = "replaceOne"
	OpStartSession Op = "startSession"
	OpCommit       Op = "commitTransaction"
	OpAbort        Op = "abortTransaction"
)

type callKey struct {
	op         Op
	collection string
}

type collectionData struct {
	docs     map[string]bson.Raw
	order    []string
	versions map[string]uint64
}

func newCollectionData() *collectionData {
	return &collectionData{docs: map[string]bson.Raw{}, versions: map[string]uint64{}}
}

func (c *collectionData) clone() *collectionData {
	out := &collectionData{
		docs:     make(map[string]bson.Raw, len(c.docs)),
		order:    append([]string(nil), c.order...),
		versions: make(map[string]uint64, len(c.versions)),
	}
	for k, v := range c.docs {
		out.docs[k] = v
	}
	for k, v := range c.versions {
		out.versions[k] = v
	}
	return out
}

// Store is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	collections map[string]*collectionData
	calls       map[callKey]int
	faults      map[callKey][]error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		collections: map[string]*collectionData{},
		calls:       map[callKey]int{},
		faults:      map[callKey][]error{},
	}
}

var _ database.Gateway = (*Store)(nil)

// Collection implements database.Gateway.
func (s *Store) Collection(name string) database.Collection {
	return &collection{store: s, name: name}
}

// StartSession implements database.Gateway.
func (s *Store) StartSession(_ context.Context) (database.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(OpStartSession, ""); err != nil {
		return nil, err
	}
	return &session{store: s}, nil
}

// FailNext makes the next call of op on collection return err. Commit, abort
// and session faults use an empty collection name. Faults queue up in order.
func (s *Store) FailNext(op Op, collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := callKey{op, collection}
	s.faults[k] = append(s.faults[k], err)
}

// Calls returns how many times op was invoked on collection.
func (s *Store) Calls(op Op, collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[callKey{op, collection}]
}

// Count returns the number of committed documents in collection.
func (s *Store) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[collection]; ok {
		return len(c.docs)
	}
	return 0
}

func (s *Store) recordLocked(op Op, collection string) error {
	k := callKey{op, collection}
	s.calls[k]++
	if queue := s.faults[k]; len(queue) > 0 {
		err := queue[0]
		s.faults[k] = queue[1:]
		return err
	}
	return nil
}

func (s *Store) committedLocked(name string) *collectionData {
	c, ok := s.collections[name]
	if !ok {
		c = newCollectionData()
		s.collections[name] = c
	}
	return c
}

// view returns the data an operation on ctx should see, plus the transaction
// it runs in (nil outside transactions). Callers hold s.mu.
func (s *Store) viewLocked(ctx context.Context, name string) (*collectionData, *txn) {
	if sess, ok := ctx.Value(sessionKey{}).(*session); ok && sess.store == s && sess.tx != nil {
		return sess.tx.collection(name), sess.tx
	}
	return s.committedLocked(name), nil
}

type collection struct {
	store *Store
	name  string
}

func (c *collection) Find(ctx context.Context, filter bson.M, results any) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if err := c.store.recordLocked(OpFind, c.name); err != nil {
		return err
	}

	data, _ := c.store.viewLocked(ctx, c.name)
	arr := bson.A{}
	for _, id := range data.order {
		ok, err := matches(data.docs[id], filter)
		if err != nil {
			return err
		}
		if ok {
			arr = append(arr, data.docs[id])
		}
	}

	wrapped, err := bson.Marshal(bson.D{{Key: "items", Value: arr}})
	if err != nil {
		return fmt.Errorf("memstore: encode results: %w", err)
	}
	return bson.Raw(wrapped).Lookup("items").Unmarshal(results)
}

func (c *collection) FindOne(ctx context.Context, filter bson.M, result any) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if err := c.store.recordLocked(OpFindOne, c.name); err != nil {
		return err
	}

	data, _ := c.store.viewLocked(ctx, c.name)
	id, err := firstMatch(data, filter)
	if err != nil {
		return err
	}
	if id == "" {
		return mongo.ErrNoDocuments
	}
	return bson.Unmarshal(data.docs[id], result)
}

func (c *collection) InsertOne(ctx context.Context, doc any) error {
	raw, id, err := encode(doc)
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if err := c.store.recordLocked(OpInsert, c.name); err != nil {
		return err
	}

	data, tx := c.store.viewLocked(ctx, c.name)
	if _, exists := data.docs[id]; exists {
		return fmt.Errorf("%w: %s._id %q", ErrDuplicateKey, c.name, id)
	}
	data.docs[id] = raw
	data.order = append(data.order, id)
	if tx != nil {
		tx.touch(c.name, id)
		return nil
	}
	data.versions[id]++
	return nil
}

func (c *collection) ReplaceOne(ctx context.Context, filter bson.M, doc any) (int64, error) {
	raw, newID, err := encode(doc)
	if err != nil && !errors.Is(err, ErrMissingID) {
		return 0, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if err := c.store.recordLocked(OpReplace, c.name); err != nil {
		return 0, err
	}

	data, tx := c.store.viewLocked(ctx, c.name)
	id, err := firstMatch(data, filter)
	if err != nil {
		return 0, err
	}
	if id == "" {
		return 0, nil
	}
	if newID != "" && newID != id {
		return 0, fmt.Errorf("%w: %q to %q", ErrImmutableID, id, newID)
	}
	data.docs[id] = raw
	if tx != nil {
		tx.touch(c.name, id)
		return 1, nil
	}
	data.versions[id]++
	return 1, nil
}

func firstMatch(data *collectionData, filter bson.M) (string, error) {
	for _, id := range data.order {
		ok, err := matches(data.docs[id], filter)
		if err != nil {
			return "", err
		}
		if ok {
			return id, nil
		}
	}
	return "", nil
}

func matches(doc bson.Raw, filter bson.M) (bool, error) {
	for field, want := range filter {
		got, err := doc.LookupErr(strings.Split(field, ".")...)
		if err != nil {
			return false, nil
		}
		wantType, wantValue, err := bson.MarshalValue(want)
		if err != nil {
			return false, fmt.Errorf("memstore: unsupported filter value for %s: %w", field, err)
		}
		if got.Type != wantType || !bytes.Equal(got.Value, wantValue) {
			return false, nil
		}
	}
	return true, nil
}

func encode(doc any) (bson.Raw, string, error) {
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, "", fmt.Errorf("memstore: encode document: %w", err)
	}
	raw := bson.Raw(b)
	id, ok := raw.Lookup("_id").StringValueOK()
	if !ok || id == "" {
		return raw, "", ErrMissingID
	}
	return raw, id, nil
}
