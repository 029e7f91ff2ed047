// Package temple assembles the storage backend, record store, and one
// repository per entity into a single handle.
package temple

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/temple/internal/auth"
	"github.com/mesh-intelligence/temple/internal/recordstore"
	"github.com/mesh-intelligence/temple/internal/repository"
	"github.com/mesh-intelligence/temple/internal/storage"
	"github.com/mesh-intelligence/temple/internal/telemetry"
	"github.com/mesh-intelligence/temple/pkg/types"
)

// Temple owns an open backend and the repositories built on it. The typed
// repository fields are set by Open and stay usable until Close.
type Temple struct {
	mu      sync.RWMutex
	open    bool
	config  types.Config
	backend storage.Backend
	store   *recordstore.Store
	tables  map[string]repository.Table

	log      zerolog.Logger
	metrics  *telemetry.Metrics
	validate *validator.Validate

	Auth *auth.Service

	Events        *repository.Repository[types.Event, *types.Event]
	Services      *repository.Repository[types.Service, *types.Service]
	Staff         *repository.Repository[types.StaffMember, *types.StaffMember]
	BoardMembers  *repository.Repository[types.BoardMember, *types.BoardMember]
	Donors        *repository.Repository[types.Donor, *types.Donor]
	DailyPoojas   *repository.Repository[types.DailyPooja, *types.DailyPooja]
	Bajanas       *repository.Repository[types.Bajana, *types.Bajana]
	Gallery       *repository.Repository[types.GalleryImage, *types.GalleryImage]
	Subscribers   *repository.Repository[types.Subscriber, *types.Subscriber]
	Registrations *repository.Repository[types.Registration, *types.Registration]
	Visitors      *repository.Repository[types.Visitor, *types.Visitor]
	Analytics     *repository.Repository[types.AnalyticsEntry, *types.AnalyticsEntry]
}

// Option configures a Temple.
type Option func(*Temple)

// WithLogger sets the parent logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Temple) { t.log = l }
}

// WithMetrics records repository operations on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(t *Temple) { t.metrics = m }
}

// New creates a Temple that is not yet open; call Open with a Config.
func New(opts ...Option) *Temple {
	t := &Temple{
		log:      zerolog.Nop(),
		validate: repository.NewValidator(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open validates cfg, opens the configured backend, and builds every
// repository. Partitions are seeded lazily on first access.
// Returns ErrAlreadyOpen if already open.
func (t *Temple) Open(cfg types.Config) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.open {
		return types.ErrAlreadyOpen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, err := storage.Open(cfg, t.log)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	store := recordstore.New(backend,
		recordstore.WithQuota(cfg.Quota()),
		recordstore.WithLogger(t.log),
	)
	authSvc, err := auth.New(store, auth.Config{
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPasswordHash,
	}, t.log)
	if err != nil {
		backend.Close()
		return err
	}

	t.config = cfg
	t.backend = backend
	t.store = store
	t.Auth = authSvc
	t.tables = make(map[string]repository.Table, len(types.StandardTableNames))

	t.Events = register(t, types.EventsTable, seedEvents)
	t.Services = register(t, types.ServicesTable, seedServices)
	t.Staff = register(t, types.StaffTable, seedStaff)
	t.BoardMembers = register(t, types.BoardMembersTable, seedBoardMembers)
	t.Donors = register[types.Donor](t, types.DonorsTable, nil)
	t.DailyPoojas = register(t, types.DailyPoojasTable, seedDailyPoojas)
	t.Bajanas = register(t, types.BajanasTable, seedBajanas)
	t.Gallery = register[types.GalleryImage](t, types.GalleryTable, nil)
	t.Subscribers = register[types.Subscriber](t, types.SubscribersTable, nil)
	t.Registrations = register[types.Registration](t, types.RegistrationsTable, nil)
	t.Visitors = register[types.Visitor](t, types.VisitorsTable, nil)
	t.Analytics = register[types.AnalyticsEntry](t, types.AnalyticsTable, nil)

	t.open = true
	t.log.Debug().
		Str("backend", cfg.Backend).
		Str("data_dir", cfg.DataDir).
		Msg("Temple opened")
	return nil
}

// register builds the repository for one table and records its untyped view.
func register[T any, P repository.Entity[T]](t *Temple, name string, seed func() []T) *repository.Repository[T, P] {
	repo := repository.New[T, P](t.store, repository.Config[T]{
		Name:      name,
		Partition: types.TablePartitions[name],
		Seed:      seed,
		Validate:  t.validate,
		Logger:    t.log,
		Metrics:   t.metrics,
	})
	t.tables[name] = repo.Table()
	return repo
}

// Close releases the backend. After Close, Table returns ErrStoreClosed and
// the typed repositories fail with ErrStoreClosed. Close is idempotent.
func (t *Temple) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.open {
		return nil
	}
	t.open = false
	t.tables = nil
	return t.backend.Close()
}

// Config returns the configuration passed to Open.
func (t *Temple) Config() types.Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config
}

// Metrics returns the metrics the repositories record to, possibly nil.
func (t *Temple) Metrics() *telemetry.Metrics { return t.metrics }

// Table returns the untyped view of the named table.
func (t *Temple) Table(name string) (repository.Table, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.open {
		return nil, types.ErrStoreClosed
	}
	tbl, ok := t.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, name)
	}
	return tbl, nil
}

// Tables returns every table in display order.
func (t *Temple) Tables() ([]repository.Table, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.open {
		return nil, types.ErrStoreClosed
	}
	out := make([]repository.Table, 0, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		out = append(out, t.tables[name])
	}
	return out, nil
}

// TableStats reports the size of one table.
type TableStats struct {
	Table     string `json:"table"`
	Partition string `json:"partition"`
	Records   int    `json:"records"`
}

// Stats counts the records in every table. Counting seeds absent
// partitions.
func (t *Temple) Stats() ([]TableStats, error) {
	tables, err := t.Tables()
	if err != nil {
		return nil, err
	}
	stats := make([]TableStats, 0, len(tables))
	for _, tbl := range tables {
		n, err := tbl.Count()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tbl.Name(), err)
		}
		stats = append(stats, TableStats{Table: tbl.Name(), Partition: tbl.Partition(), Records: n})
	}
	return stats, nil
}

// ResetAll drops every partition so that each reseeds on next access.
func (t *Temple) ResetAll() error {
	tables, err := t.Tables()
	if err != nil {
		return err
	}
	for _, tbl := range tables {
		if err := tbl.Reset(); err != nil {
			return fmt.Errorf("%s: %w", tbl.Name(), err)
		}
	}
	return nil
}

// Watch calls fn with the table name whenever the table's partition file
// changes, whether the write came from this process or another, until ctx
// is done. Only the files backend supports watching; others return
// ErrWatchUnsupported.
func (t *Temple) Watch(ctx context.Context, fn func(table string)) error {
	t.mu.RLock()
	if !t.open {
		t.mu.RUnlock()
		return types.ErrStoreClosed
	}
	w, ok := t.backend.(storage.Watcher)
	backendName := t.config.Backend
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrWatchUnsupported, backendName)
	}

	byPartition := make(map[string]string, len(types.TablePartitions))
	for name, key := range types.TablePartitions {
		byPartition[key] = name
	}
	return w.Watch(ctx, func(key string) {
		// Backup keys (.corrupt, .dropped) are not partitions and map to
		// no table.
		if name, ok := byPartition[key]; ok {
			fn(name)
		}
	})
}
