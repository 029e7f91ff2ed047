// Package recordstore reads and writes partitions: named storage keys whose
// value is one JSON array of records, always rewritten whole.
package recordstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/temple/internal/storage"
	"github.com/mesh-intelligence/temple/pkg/types"
)

// CorruptSuffix is appended to a partition key to hold the raw bytes of a
// value that failed to parse.
const CorruptSuffix = ".corrupt"

// DroppedSuffix is appended to a partition key to hold, as a JSON array, the
// raw records removed from the partition because they could not be decoded.
const DroppedSuffix = ".dropped"

// Store serializes partitions onto a storage.Backend.
type Store struct {
	backend storage.Backend
	quota   int64
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithQuota caps the serialized size of a single value. Zero or negative
// means types.DefaultQuotaBytes.
func WithQuota(bytes int64) Option {
	return func(s *Store) {
		if bytes > 0 {
			s.quota = bytes
		}
	}
}

// WithLogger sets the logger used for storage warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l.With().Str("component", "recordstore").Logger()
	}
}

// New returns a Store writing to backend.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		quota:   types.DefaultQuotaBytes,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying storage backend.
func (s *Store) Backend() storage.Backend { return s.backend }

// Read returns the records of the partition at key in stored order.
// found is false when the key is absent. When the stored value is not a
// JSON array the raw bytes are copied to key+CorruptSuffix and the error
// wraps types.ErrMalformedPartition.
func (s *Store) Read(key string) ([]json.RawMessage, bool, error) {
	data, found, err := s.backend.Get(key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.backupCorrupt(key, data)
		return nil, true, fmt.Errorf("%w: %s: %v", types.ErrMalformedPartition, key, err)
	}
	return records, true, nil
}

// Write serializes list and replaces the partition at key. Values larger
// than the quota are rejected with types.ErrQuotaExceeded and the stored
// value is left untouched.
func (s *Store) Write(key string, list any) error {
	return s.WriteValue(key, list)
}

// ReadValue decodes the single JSON value stored at key into v.
func (s *Store) ReadValue(key string, v any) (bool, error) {
	data, found, err := s.backend.Get(key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", types.ErrMalformedPartition, key, err)
	}
	return true, nil
}

// WriteValue serializes v and stores it at key, subject to the quota.
func (s *Store) WriteValue(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", key, err)
	}
	if int64(len(data)) > s.quota {
		s.log.Error().
			Str("key", key).
			Int("bytes", len(data)).
			Int64("quota", s.quota).
			Msg("Write rejected: quota exceeded")
		return fmt.Errorf("%w: %s is %d bytes, quota %d", types.ErrQuotaExceeded, key, len(data), s.quota)
	}
	if err := s.backend.Set(key, data); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Write failed")
		return err
	}
	return nil
}

// Append adds items to the end of the JSON array at key, creating the key
// when absent. A malformed existing value is backed up like a partition and
// replaced.
func (s *Store) Append(key string, items []json.RawMessage) error {
	existing, _, err := s.Read(key)
	if err != nil && !errors.Is(err, types.ErrMalformedPartition) {
		return err
	}
	return s.WriteValue(key, append(existing, items...))
}

// Remove deletes the value at key.
func (s *Store) Remove(key string) error {
	return s.backend.Remove(key)
}

func (s *Store) backupCorrupt(key string, data []byte) {
	backupKey := key + CorruptSuffix
	if err := s.backend.Set(backupKey, data); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Could not back up malformed partition")
		return
	}
	s.log.Warn().Str("key", key).Str("backup", backupKey).Msg("Malformed partition backed up")
}
