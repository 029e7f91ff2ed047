// Package repository provides typed CRUD over one record partition.
//
// Every operation reads the whole partition, applies its change, and writes
// the whole partition back through the record store. A partition that has
// never been written is seeded on first access.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/temple/internal/recordstore"
	"github.com/mesh-intelligence/temple/internal/telemetry"
	"github.com/mesh-intelligence/temple/pkg/types"
)

// Repair kinds recorded when stored data is fixed up on load.
const (
	RepairReseed    = "reseed"
	RepairMissingID = "missing_id"
	RepairDuplicate = "duplicate_id"
	RepairDropped   = "dropped"
)

// Entity is the constraint satisfied by a pointer to a record struct that
// embeds types.Base.
type Entity[T any] interface {
	*T
	Meta() *types.Base
}

// Config describes one partition.
type Config[T any] struct {
	Name      string     // Table name used in logs and errors.
	Partition string     // Storage key.
	Seed      func() []T // Records written when the partition is absent. Must return a fresh slice.

	Validate *validator.Validate
	Logger   zerolog.Logger
	Metrics  *telemetry.Metrics
	Now      func() time.Time
	NewID    func() string
}

// Repository is safe for concurrent use within a process. Writers in other
// processes sharing the same backend follow last-write-wins per partition.
type Repository[T any, P Entity[T]] struct {
	mu sync.Mutex

	store     *recordstore.Store
	name      string
	partition string
	seed      func() []T
	validate  *validator.Validate
	log       zerolog.Logger
	metrics   *telemetry.Metrics
	now       func() time.Time
	newID     func() string
}

// New returns a repository for cfg.Partition on store.
func New[T any, P Entity[T]](store *recordstore.Store, cfg Config[T]) *Repository[T, P] {
	r := &Repository[T, P]{
		store:     store,
		name:      cfg.Name,
		partition: cfg.Partition,
		seed:      cfg.Seed,
		validate:  cfg.Validate,
		metrics:   cfg.Metrics,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	if r.name == "" {
		r.name = cfg.Partition
	}
	if r.validate == nil {
		r.validate = NewValidator()
	}
	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	}
	if r.newID == nil {
		r.newID = generateID
	}
	r.log = cfg.Logger.With().
		Str("component", "repository").
		Str("partition", cfg.Partition).
		Logger()
	return r
}

// generateID returns a UUID v7, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Name returns the table name.
func (r *Repository[T, P]) Name() string { return r.name }

// Partition returns the storage key.
func (r *Repository[T, P]) Partition() string { return r.partition }

// GetAll returns every record in stored order.
func (r *Repository[T, P]) GetAll() (_ []T, err error) {
	defer r.observe("get_all", time.Now(), &err)
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// GetByID returns the record with the given id.
// Returns ErrInvalidID if id is empty, ErrNotFound if absent.
func (r *Repository[T, P]) GetByID(id string) (_ T, err error) {
	defer r.observe("get", time.Now(), &err)
	var zero T
	if id == "" {
		return zero, types.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return zero, err
	}
	i := indexOf[T, P](records, id)
	if i < 0 {
		return zero, r.notFound(id)
	}
	return records[i], nil
}

// Create assigns a fresh id and timestamps, applies defaults, validates,
// and appends the record. Any id or timestamps on rec are ignored.
func (r *Repository[T, P]) Create(rec T) (_ T, err error) {
	defer r.observe("create", time.Now(), &err)
	var zero T
	p := P(&rec)
	if d, ok := any(p).(types.Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := r.check(p); err != nil {
		return zero, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return zero, err
	}
	now := r.now()
	meta := p.Meta()
	meta.ID = r.uniqueID(records)
	meta.CreatedAt = now
	meta.UpdatedAt = now

	records = append(records, rec)
	if err := r.persist(records); err != nil {
		return zero, err
	}
	r.log.Debug().Str("id", meta.ID.String()).Msg("Record created")
	return rec, nil
}

// Update applies mutate to a copy of the record with the given id and
// stores the result. The id and createdAt are preserved; updatedAt is
// refreshed. Errors from mutate are returned unchanged and nothing is
// written.
func (r *Repository[T, P]) Update(id string, mutate func(P) error) (_ T, err error) {
	defer r.observe("update", time.Now(), &err)
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.updateLocked(id, mutate)
}

func (r *Repository[T, P]) updateLocked(id string, mutate func(P) error) (T, error) {
	var zero T
	if id == "" {
		return zero, types.ErrInvalidID
	}
	records, err := r.load()
	if err != nil {
		return zero, err
	}
	i := indexOf[T, P](records, id)
	if i < 0 {
		return zero, r.notFound(id)
	}

	updated := records[i]
	p := P(&updated)
	orig := *p.Meta()
	if err := mutate(p); err != nil {
		return zero, err
	}
	meta := p.Meta()
	meta.ID = orig.ID
	meta.CreatedAt = orig.CreatedAt
	meta.UpdatedAt = r.now()
	if err := r.check(p); err != nil {
		return zero, err
	}

	records[i] = updated
	if err := r.persist(records); err != nil {
		return zero, err
	}
	r.log.Debug().Str("id", id).Msg("Record updated")
	return updated, nil
}

// Patch shallow-merges a JSON object into the record with the given id.
// Fields not named in patch are kept. id, createdAt, and updatedAt in the
// patch are ignored. Unknown fields are rejected with ErrInvalidData.
func (r *Repository[T, P]) Patch(id string, patch []byte) (_ T, err error) {
	defer r.observe("patch", time.Now(), &err)
	var zero T
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil || fields == nil {
		return zero, fmt.Errorf("%w: patch must be a JSON object", types.ErrInvalidData)
	}
	for _, k := range []string{"id", "createdAt", "updatedAt"} {
		delete(fields, k)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.updateLocked(id, func(p P) error {
		merged, err := mergeJSON(*p, fields)
		if err != nil {
			return err
		}
		*p = merged
		return nil
	})
}

// Delete removes the record with the given id. It reports whether a record
// was removed; deleting an absent id is a no-op that writes nothing.
func (r *Repository[T, P]) Delete(id string) (_ bool, err error) {
	defer r.observe("delete", time.Now(), &err)
	if id == "" {
		return false, types.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return false, err
	}
	n := len(records)
	records = slices.DeleteFunc(records, func(rec T) bool {
		return P(&rec).Meta().ID == types.ID(id)
	})
	if len(records) == n {
		return false, nil
	}
	if err := r.persist(records); err != nil {
		return false, err
	}
	r.log.Debug().Str("id", id).Msg("Record deleted")
	return true, nil
}

// Count returns the number of records.
func (r *Repository[T, P]) Count() (int, error) {
	records, err := r.GetAll()
	return len(records), err
}

// Reset removes the partition so that the next access reseeds it.
func (r *Repository[T, P]) Reset() (err error) {
	defer r.observe("reset", time.Now(), &err)
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Remove(r.partition); err != nil {
		return err
	}
	r.log.Info().Msg("Partition reset")
	return nil
}

// load reads the partition, seeding it when absent and repairing malformed
// content. Repairs are written back before returning. Callers hold r.mu.
func (r *Repository[T, P]) load() ([]T, error) {
	raw, found, err := r.store.Read(r.partition)
	switch {
	case errors.Is(err, types.ErrMalformedPartition):
		r.log.Warn().Err(err).Msg("Reseeding malformed partition")
		r.metrics.IncRepair(r.partition, RepairReseed)
		return r.seedLocked()
	case err != nil:
		return nil, err
	case !found:
		return r.seedLocked()
	}

	records := make([]T, 0, len(raw))
	seen := make(map[types.ID]bool, len(raw))
	var dropped []json.RawMessage
	repaired := false
	for i, msg := range raw {
		rec, idDiscarded, err := decodeStored[T](msg)
		if err != nil {
			r.log.Warn().Err(err).Int("index", i).Msg("Dropping undecodable record")
			r.metrics.IncRepair(r.partition, RepairDropped)
			if !errors.Is(err, errNullRecord) {
				dropped = append(dropped, msg)
			}
			repaired = true
			continue
		}

		meta := P(&rec).Meta()
		if meta.ID == "" || seen[meta.ID] {
			kind := RepairMissingID
			if meta.ID != "" {
				kind = RepairDuplicate
			}
			old := meta.ID
			meta.ID = r.freshID(seen)
			r.log.Warn().
				Str("kind", kind).
				Str("old_id", old.String()).
				Bool("id_unreadable", idDiscarded).
				Str("new_id", meta.ID.String()).
				Msg("Reassigned record id")
			r.metrics.IncRepair(r.partition, kind)
			repaired = true
		}
		seen[meta.ID] = true
		records = append(records, rec)
	}

	if len(dropped) > 0 {
		backupKey := r.partition + recordstore.DroppedSuffix
		if err := r.store.Append(backupKey, dropped); err != nil {
			return nil, fmt.Errorf("backing up %d undecodable records to %s: %w", len(dropped), backupKey, err)
		}
		r.log.Warn().Int("records", len(dropped)).Str("backup", backupKey).Msg("Undecodable records backed up")
	}
	if repaired {
		if err := r.persist(records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *Repository[T, P]) seedLocked() ([]T, error) {
	var records []T
	if r.seed != nil {
		records = r.seed()
	}
	if records == nil {
		records = []T{}
	}
	now := r.now()
	seen := make(map[types.ID]bool, len(records))
	for i := range records {
		p := P(&records[i])
		if d, ok := any(p).(types.Defaulter); ok {
			d.ApplyDefaults()
		}
		meta := p.Meta()
		meta.ID = r.freshID(seen)
		meta.CreatedAt = now
		meta.UpdatedAt = now
		seen[meta.ID] = true
	}
	if err := r.persist(records); err != nil {
		return nil, err
	}
	r.log.Info().Int("records", len(records)).Msg("Partition seeded")
	return records, nil
}

func (r *Repository[T, P]) persist(records []T) error {
	if err := r.store.Write(r.partition, records); err != nil {
		return err
	}
	r.metrics.SetRecords(r.partition, len(records))
	return nil
}

// uniqueID returns an id not used by any of records.
func (r *Repository[T, P]) uniqueID(records []T) types.ID {
	seen := make(map[types.ID]bool, len(records))
	for i := range records {
		seen[P(&records[i]).Meta().ID] = true
	}
	return r.freshID(seen)
}

func (r *Repository[T, P]) freshID(seen map[types.ID]bool) types.ID {
	for {
		id := types.ID(r.newID())
		if id != "" && !seen[id] {
			return id
		}
	}
}

func (r *Repository[T, P]) check(p P) error {
	if err := r.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s: %s", types.ErrInvalidData, r.name, describeValidation(err))
	}
	return nil
}

func (r *Repository[T, P]) notFound(id string) error {
	return fmt.Errorf("%w: %s %q", types.ErrNotFound, r.name, id)
}

func (r *Repository[T, P]) observe(op string, start time.Time, errp *error) {
	r.metrics.ObserveOperation(r.partition, op, start, *errp)
}

func indexOf[T any, P Entity[T]](records []T, id string) int {
	return slices.IndexFunc(records, func(rec T) bool {
		return P(&rec).Meta().ID == types.ID(id)
	})
}
