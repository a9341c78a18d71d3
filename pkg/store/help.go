package store

import (
	"encoding/binary"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
	. "src.optscan.sh/pkg/store/storedefs"
)

const bucketHelp = "help"

// Separates the words of a command path in keys. Command words never contain
// NUL.
const pathSep = "\x00"

func init() {
	initDB["initialize help text table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketHelp))
		return err
	}
}

// HelpText returns the help text cached for a command path.
func (s *dbStore) HelpText(path []string, maxAge time.Duration) (string, error) {
	s.waits.Add(1)
	defer s.waits.Done()
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHelp))
		v := b.Get(marshalPath(path))
		if v == nil {
			return ErrNoHelpText
		}
		captured, t, ok := unmarshalEntry(v)
		if !ok {
			logger.Printf("malformed entry for %q", path)
			return ErrNoHelpText
		}
		if maxAge > 0 && time.Since(captured) > maxAge {
			return ErrNoHelpText
		}
		text = t
		return nil
	})
	return text, err
}

// PutHelpText caches the help text of a command path, stamped with the
// current time.
func (s *dbStore) PutHelpText(path []string, text string) error {
	s.waits.Add(1)
	defer s.waits.Done()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHelp))
		return b.Put(marshalPath(path), marshalEntry(time.Now(), text))
	})
}

// DelHelpText deletes the cached help text of a command path.
func (s *dbStore) DelHelpText(path []string) error {
	s.waits.Add(1)
	defer s.waits.Done()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHelp))
		return b.Delete(marshalPath(path))
	})
}

// HelpTextPaths returns the command paths of all cached entries.
func (s *dbStore) HelpTextPaths() ([][]string, error) {
	s.waits.Add(1)
	defer s.waits.Done()
	var paths [][]string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketHelp))
		return b.ForEach(func(k, _ []byte) error {
			paths = append(paths, unmarshalPath(k))
			return nil
		})
	})
	sort.Slice(paths, func(i, j int) bool {
		return strings.Join(paths[i], pathSep) < strings.Join(paths[j], pathSep)
	})
	return paths, err
}

func marshalPath(path []string) []byte {
	return []byte(strings.Join(path, pathSep))
}

func unmarshalPath(key []byte) []string {
	return strings.Split(string(key), pathSep)
}

func marshalEntry(t time.Time, text string) []byte {
	b := make([]byte, 8+len(text))
	binary.BigEndian.PutUint64(b, uint64(t.UnixNano()))
	copy(b[8:], text)
	return b
}

func unmarshalEntry(v []byte) (time.Time, string, bool) {
	if len(v) < 8 {
		return time.Time{}, "", false
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(v))), string(v[8:]), true
}
