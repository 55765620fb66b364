// ABOUTME: Badger-backed key/value storage implementing Repository.
// ABOUTME: Handles uniqueness and cascade deletes manually since KV has no constraints.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v3"
)

const (
	ExercisePrefix        = "exercise:"
	ExerciseNamePrefix    = "exercise_name:"
	WorkoutPrefix         = "workout:"
	WorkoutExercisePrefix = "workout_exercise:"
	byWorkoutPrefix       = "idx:workout_exercise:workout:"
	byExercisePrefix      = "idx:workout_exercise:exercise:"

	sequenceBandwidth = 100
)

// KVStore stores rows as JSON values keyed by zero-padded ids so prefix scans
// return them in id order. Secondary index keys enforce uniqueness and cascades.
type KVStore struct {
	db        *badger.DB
	exercises *badger.Sequence
	workouts  *badger.Sequence
	entries   *badger.Sequence
}

var _ Repository = (*KVStore)(nil)

// OpenKV opens or creates a Badger database in dir.
func OpenKV(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return openKV(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenKVInMemory opens a Badger database that lives only in memory.
func OpenKVInMemory() (*KVStore, error) {
	return openKV(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openKV(opts badger.Options) (*KVStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}

	s := &KVStore{db: db}
	for _, seq := range []struct {
		name string
		dst  **badger.Sequence
	}{
		{"seq:exercise", &s.exercises},
		{"seq:workout", &s.workouts},
		{"seq:workout_exercise", &s.entries},
	} {
		*seq.dst, err = db.GetSequence([]byte(seq.name), sequenceBandwidth)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open sequence %s: %w", seq.name, err)
		}
	}
	return s, nil
}

// Close releases leased sequence ranges and closes the database.
func (s *KVStore) Close() error {
	for _, seq := range []*badger.Sequence{s.exercises, s.workouts, s.entries} {
		if seq != nil {
			_ = seq.Release()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	// Sequences start at zero; ids start at one.
	return int64(n) + 1, nil
}

func idKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func exerciseNameKey(name string) []byte {
	return []byte(ExerciseNamePrefix + name)
}

func byWorkoutKey(workoutID, entryID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", byWorkoutPrefix, workoutID, entryID))
}

func byExerciseKey(exerciseID, entryID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", byExercisePrefix, exerciseID, entryID))
}

func byWorkoutScan(workoutID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", byWorkoutPrefix, workoutID))
}

func byExerciseScan(exerciseID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", byExercisePrefix, exerciseID))
}

// update runs fn in a read-write transaction. A commit that loses a race is
// reported as a ConstraintError; it is not retried here.
func (s *KVStore) update(op, table string, fn func(txn *badger.Txn) error) error {
	err := s.db.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return &ConstraintError{Op: op, Table: table, Kind: KindConflict, Err: err}
	}
	return err
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalJSON[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func putJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

// getJSON loads key into a T, returning ok=false when the key is absent.
func getJSON[T any](txn *badger.Txn, key []byte) (*T, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}
	v, err := unmarshalJSON[T](data)
	if err != nil {
		return nil, false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return v, true, nil
}

func keyExists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// touchKey writes key back with its current value so that any transaction
// that read it conflicts. It returns false when the key is absent.
func touchKey(txn *badger.Txn, key []byte) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return false, err
	}
	return true, txn.Set(key, val)
}

// scanPrefix calls fn with a copy of each key and value under prefix, in key order.
func scanPrefix(txn *badger.Txn, prefix []byte, fn func(key, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(item.KeyCopy(nil), val); err != nil {
			return err
		}
	}
	return nil
}

func listJSON[T any](txn *badger.Txn, prefix string) ([]*T, error) {
	var out []*T
	err := scanPrefix(txn, []byte(prefix), func(key, val []byte) error {
		v, err := unmarshalJSON[T](val)
		if err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// indexedIDs returns the entry ids stored as values under an index prefix.
func indexedIDs(txn *badger.Txn, prefix []byte) ([]int64, error) {
	var ids []int64
	err := scanPrefix(txn, prefix, func(key, val []byte) error {
		id, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return fmt.Errorf("parse index %s: %w", key, err)
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

// deleteKeys removes every key under prefix. Keys are collected before deletion
// so the iterator is closed first.
func deleteKeys(txn *badger.Txn, prefix string) error {
	var keys [][]byte
	if err := scanPrefix(txn, []byte(prefix), func(key, _ []byte) error {
		keys = append(keys, key)
		return nil
	}); err != nil {
		return err
	}
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
