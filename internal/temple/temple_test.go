package temple

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/temple/internal/telemetry"
	"github.com/mesh-intelligence/temple/pkg/types"
)

func openTemple(t *testing.T, cfg types.Config) *Temple {
	t.Helper()
	tp := New(WithMetrics(telemetry.NewMetrics()))
	require.NoError(t, tp.Open(cfg))
	t.Cleanup(func() { tp.Close() })
	return tp
}

func memoryConfig() types.Config {
	return types.Config{Backend: types.BackendMemory}
}

func TestOpenLifecycle(t *testing.T) {
	tp := New()
	require.NoError(t, tp.Open(memoryConfig()))
	assert.ErrorIs(t, tp.Open(memoryConfig()), types.ErrAlreadyOpen)

	require.NoError(t, tp.Close())
	require.NoError(t, tp.Close(), "close is idempotent")

	_, err := tp.Table(types.EventsTable)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = tp.Events.GetAll()
	assert.ErrorIs(t, err, types.ErrStoreClosed)

	require.NoError(t, tp.Open(memoryConfig()), "a closed temple can be reopened")
	require.NoError(t, tp.Close())
}

func TestOpenRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.Config
		want error
	}{
		{name: "empty backend", cfg: types.Config{}, want: types.ErrBackendEmpty},
		{name: "unknown backend", cfg: types.Config{Backend: "redis"}, want: types.ErrBackendUnknown},
		{name: "negative quota", cfg: types.Config{Backend: types.BackendMemory, QuotaBytes: -1}, want: types.ErrQuotaInvalid},
		{name: "bad hash", cfg: types.Config{Backend: types.BackendMemory, AdminPasswordHash: "x"}, want: types.ErrInvalidPasswordHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, New().Open(tt.cfg), tt.want)
		})
	}
}

func TestTableLookup(t *testing.T) {
	tp := openTemple(t, memoryConfig())

	for _, name := range types.StandardTableNames {
		tbl, err := tp.Table(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, tbl.Name())
		assert.Equal(t, types.TablePartitions[name], tbl.Partition())
	}

	_, err := tp.Table("prasadam")
	assert.ErrorIs(t, err, types.ErrTableNotFound)

	tables, err := tp.Tables()
	require.NoError(t, err)
	require.Len(t, tables, len(types.StandardTableNames))
	assert.Equal(t, types.EventsTable, tables[0].Name())
}

func TestSeeds(t *testing.T) {
	tp := openTemple(t, memoryConfig())

	events, err := tp.Events.GetAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Diwali Celebration", events[0].Title)
	assert.Equal(t, "Lord Shiva Puja", events[1].Title)

	services, err := tp.Services.GetAll()
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, types.ServiceAvailable, services[0].Status, "seeds get defaults")

	poojas, err := tp.DailyPoojas.GetAll()
	require.NoError(t, err)
	assert.Len(t, poojas, 2)

	donors, err := tp.Donors.GetAll()
	require.NoError(t, err)
	assert.Empty(t, donors)
}

func TestStats(t *testing.T) {
	tp := openTemple(t, memoryConfig())

	stats, err := tp.Stats()
	require.NoError(t, err)
	require.Len(t, stats, len(types.StandardTableNames))

	counts := map[string]int{}
	for _, s := range stats {
		counts[s.Table] = s.Records
	}
	assert.Equal(t, 2, counts[types.EventsTable])
	assert.Equal(t, 1, counts[types.StaffTable])
	assert.Equal(t, 1, counts[types.BoardMembersTable])
	assert.Equal(t, 1, counts[types.BajanasTable])
	assert.Equal(t, 0, counts[types.VisitorsTable])
}

// The create/get/delete walk-through used by the admin staff page.
func TestStaffScenario(t *testing.T) {
	tp := openTemple(t, memoryConfig())
	staff, err := tp.Table(types.StaffTable)
	require.NoError(t, err)

	created, err := staff.Create([]byte(`{"name":"Test Priest","position":"Priest"}`))
	require.NoError(t, err)
	member := created.(types.StaffMember)
	assert.NotEmpty(t, member.ID)
	assert.Equal(t, "Test Priest", member.Name)
	assert.Equal(t, "Priest", member.Position)
	assert.Equal(t, "Test Priest", member.FullName)
	assert.False(t, member.CreatedAt.IsZero())

	all, err := tp.Staff.GetAll()
	require.NoError(t, err)
	assert.Contains(t, all, member)

	removed, err := tp.Staff.Delete(member.ID.String())
	require.NoError(t, err)
	assert.True(t, removed)

	all, err = tp.Staff.GetAll()
	require.NoError(t, err)
	assert.NotContains(t, all, member)
}

func TestCountFollowsCreatesAndDeletes(t *testing.T) {
	tp := openTemple(t, memoryConfig())

	var ids []string
	for _, name := range []string{"Asha", "Bala", "Chitra"} {
		d, err := tp.Donors.Create(types.Donor{Name: name, Amount: 21})
		require.NoError(t, err)
		ids = append(ids, d.ID.String())
	}
	_, err := tp.Donors.Delete(ids[1])
	require.NoError(t, err)
	_, err = tp.Donors.Delete("never-existed")
	require.NoError(t, err)

	n, err := tp.Donors.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetAllIsIdempotent(t *testing.T) {
	tp := openTemple(t, memoryConfig())

	first, err := tp.BoardMembers.GetAll()
	require.NoError(t, err)
	second, err := tp.BoardMembers.GetAll()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResetAllReseeds(t *testing.T) {
	tp := openTemple(t, memoryConfig())

	events, err := tp.Events.GetAll()
	require.NoError(t, err)
	for _, e := range events {
		_, err := tp.Events.Delete(e.ID.String())
		require.NoError(t, err)
	}
	_, err = tp.Visitors.Create(types.Visitor{Page: "/gallery"})
	require.NoError(t, err)

	require.NoError(t, tp.ResetAll())

	events, err = tp.Events.GetAll()
	require.NoError(t, err)
	assert.Len(t, events, 2)
	visitors, err := tp.Visitors.GetAll()
	require.NoError(t, err)
	assert.Empty(t, visitors)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	for _, backend := range []string{types.BackendFiles, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := types.Config{Backend: backend, DataDir: t.TempDir()}

			first := New()
			require.NoError(t, first.Open(cfg))
			created, err := first.Events.Create(types.Event{Title: "Navaratri", Date: "2025-09-22"})
			require.NoError(t, err)
			require.NoError(t, first.Close())

			second := New()
			require.NoError(t, second.Open(cfg))
			defer second.Close()

			got, err := second.Events.GetByID(created.ID.String())
			require.NoError(t, err)
			assert.Equal(t, created, got)

			all, err := second.Events.GetAll()
			require.NoError(t, err)
			assert.Len(t, all, 3, "seed plus one create")
		})
	}
}

func TestQuotaFromConfig(t *testing.T) {
	tp := openTemple(t, types.Config{Backend: types.BackendMemory, QuotaBytes: 2048})

	big := make([]byte, 4096)
	for i := range big {
		big[i] = 'a'
	}
	_, err := tp.Gallery.Create(types.GalleryImage{Title: "Gopuram", ImageURL: "data:image/png;base64," + string(big)})
	assert.ErrorIs(t, err, types.ErrQuotaExceeded)

	n, err := tp.Gallery.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthIsWired(t *testing.T) {
	tp := openTemple(t, memoryConfig())

	_, err := tp.Auth.Login("admin", "admin123")
	require.NoError(t, err)
	user, err := tp.Auth.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	watcher := openTemple(t, types.Config{Backend: types.BackendFiles, DataDir: dir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan string, 16)
	require.NoError(t, watcher.Watch(ctx, func(table string) { changed <- table }))

	writer := openTemple(t, types.Config{Backend: types.BackendFiles, DataDir: dir})
	_, err := writer.Subscribers.Create(types.Subscriber{Email: "devotee@example.org"})
	require.NoError(t, err)

	select {
	case table := <-changed:
		assert.Equal(t, types.SubscribersTable, table)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchReportsOwnWrites(t *testing.T) {
	tp := openTemple(t, types.Config{Backend: types.BackendFiles, DataDir: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan string, 16)
	require.NoError(t, tp.Watch(ctx, func(table string) { changed <- table }))

	_, err := tp.Donors.Create(types.Donor{Name: "Ravi", Amount: 501})
	require.NoError(t, err)

	select {
	case table := <-changed:
		assert.Equal(t, types.DonorsTable, table)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported for a write from the same temple")
	}
}

func TestWatchUnsupported(t *testing.T) {
	tp := openTemple(t, memoryConfig())
	err := tp.Watch(context.Background(), func(string) {})
	assert.ErrorIs(t, err, types.ErrWatchUnsupported)
}

func TestStoredLayout(t *testing.T) {
	tp := openTemple(t, memoryConfig())
	_, err := tp.Events.GetAll()
	require.NoError(t, err)

	data, found, err := tp.backend.Get(types.EventsPartition)
	require.NoError(t, err)
	require.True(t, found)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Contains(t, r, "id")
		assert.Contains(t, r, "createdAt")
		assert.Contains(t, r, "updatedAt")
	}
}
