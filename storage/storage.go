// Package storage persists the election artifacts in a prefixed key-value
// store. The following prefixes are used:
//   - 'e/' for elections, keyed by election ID
//   - 'vr/' for voter records, keyed by election ID + voter identity
//   - 'b/' for encrypted ballots, keyed by election ID + voter identity
//   - 'pt/' for participation credentials, keyed by election ID + voter identity
//   - 'c/' for election whitelists, managed by the census package
//
// Voter records, ballots and participation credentials are always written
// together in a single transaction by CommitVote.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/storage/census"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	// Prefixes for the keys in the database.
	electionPrefix      = []byte("e/")
	voterRecordPrefix   = []byte("vr/")
	ballotPrefix        = []byte("b/")
	participationPrefix = []byte("pt/")
)

var (
	// ErrNotFound is returned when the requested artifact does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when creating an artifact whose key is taken.
	ErrExists = errors.New("already exists")
)

// Storage wraps the key-value database with typed accessors for the election
// artifacts.
type Storage struct {
	db       db.Database
	censusDB *census.CensusDB
	// globalLock serializes read-modify-write operations on elections.
	globalLock sync.Mutex
}

// New creates a new Storage instance.
func New(db db.Database) *Storage {
	return &Storage{
		db:       db,
		censusDB: census.NewCensusDB(db),
	}
}

// CensusDB returns the census database instance.
func (s *Storage) CensusDB() *census.CensusDB {
	return s.censusDB
}

// Close closes the storage.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnw("error closing storage", "error", err)
	}
}

// DB returns the underlying database.
func (s *Storage) DB() db.Database {
	return s.db
}

// getArtifact decodes the value stored under prefix+key into out. It returns
// ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	pr := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := pr.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get artifact: %w", err)
	}
	if err := decodeArtifact(data, out); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}

// setArtifact encodes and stores the artifact under prefix+key.
func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// iterateArtifacts calls fn with the raw value of every artifact under
// prefix whose key starts with keyPrefix.
func (s *Storage) iterateArtifacts(prefix, keyPrefix []byte, fn func(v []byte) error) error {
	pr := prefixeddb.NewPrefixedReader(s.db, prefix)
	var fnErr error
	if err := pr.Iterate(keyPrefix, func(_, v []byte) bool {
		if fnErr = fn(v); fnErr != nil {
			return false
		}
		return true
	}); err != nil {
		return err
	}
	return fnErr
}
