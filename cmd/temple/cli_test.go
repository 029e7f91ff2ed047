package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/temple/pkg/types"
)

// cliEnv is one isolated config and data directory pair.
type cliEnv struct {
	configDir string
	dataDir   string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	root := t.TempDir()
	return cliEnv{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes the CLI with args and returns stdout.
func (e cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--json", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	require.NoError(t, json.Unmarshal(env.Data, v), out)
}

func TestInitWritesConfigAndSeeds(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "", "init")
	require.NoError(t, err)

	var res initResult
	decodeData(t, out, &res)
	assert.Equal(t, types.BackendFiles, res.Backend)
	assert.Equal(t, env.dataDir, res.DataDir)
	assert.Len(t, res.Tables, len(types.StandardTableNames))

	_, err = os.Stat(filepath.Join(env.configDir, configFileExt))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dataDir, types.EventsPartition+".json"))
	assert.NoError(t, err)
}

func TestRecordLifecycle(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "", "create", "staff", "--data", `{"name":"Test Priest","position":"Priest"}`)
	require.NoError(t, err)
	var created types.StaffMember
	decodeData(t, out, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Test Priest", created.Name)

	out, err = env.run(t, "", "get", "staff", created.ID.String())
	require.NoError(t, err)
	var got types.StaffMember
	decodeData(t, out, &got)
	assert.Equal(t, created.ID, got.ID)

	out, err = env.run(t, "", "update", "staff", created.ID.String(), "--data", `{"department":"priests"}`)
	require.NoError(t, err)
	var updated types.StaffMember
	decodeData(t, out, &updated)
	assert.Equal(t, "priests", updated.Department)
	assert.Equal(t, "Priest", updated.Role)

	out, err = env.run(t, "", "list", "staff", "department=priests")
	require.NoError(t, err)
	var listed []types.StaffMember
	decodeData(t, out, &listed)
	assert.Len(t, listed, 2, "seeded head priest and the new record")

	out, err = env.run(t, "", "delete", "staff", created.ID.String())
	require.NoError(t, err)
	var del deleteResult
	decodeData(t, out, &del)
	assert.True(t, del.Deleted)

	_, err = env.run(t, "", "get", "staff", created.ID.String())
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))

	out, err = env.run(t, "", "delete", "staff", created.ID.String())
	require.NoError(t, err, "deleting again is a no-op")
	decodeData(t, out, &del)
	assert.False(t, del.Deleted)
}

func TestCreateFromStdin(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, `{"email":"devotee@example.org"}`, "create", "subscribers", "--file", "-")
	require.NoError(t, err)
	var sub types.Subscriber
	decodeData(t, out, &sub)
	assert.Equal(t, types.SubscriberActive, sub.Status)
}

func TestCreateWithImage(t *testing.T) {
	env := newCLIEnv(t)
	img := filepath.Join(t.TempDir(), "gopuram.gif")
	require.NoError(t, os.WriteFile(img, []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 0o644))

	out, err := env.run(t, "", "create", "gallery", "--data", `{"title":"Gopuram"}`, "--image", img)
	require.NoError(t, err)
	var g types.GalleryImage
	decodeData(t, out, &g)
	assert.True(t, strings.HasPrefix(g.ImageURL, "data:image/gif;base64,"))

	_, err = env.run(t, "", "create", "donors", "--data", `{"name":"A"}`, "--image", img)
	assert.Equal(t, exitUserError, exitCode(err), "donors have no image field")
}

func writeConfig(t *testing.T, env cliEnv, yaml string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte(yaml), 0o644))
}

func TestUserErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, env cliEnv)
		args  []string
	}{
		{name: "unknown table", args: []string{"list", "prasadam"}},
		{name: "missing args", args: []string{"get", "events"}},
		{name: "bad filter", args: []string{"list", "events", "category"}},
		{name: "invalid record", args: []string{"create", "events", "--data", `{"title":"No date"}`}},
		{name: "unknown field", args: []string{"create", "events", "--data", `{"title":"x","date":"y","color":"red"}`}},
		{name: "update without fields", args: []string{"update", "events", "id"}},
		{name: "reset without target", args: []string{"reset"}},
		{name: "unknown flag", args: []string{"list", "events", "--colour"}},
		{
			name: "watch unsupported",
			setup: func(t *testing.T, env cliEnv) {
				writeConfig(t, env, "backend: memory\n")
			},
			args: []string{"watch"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			if tt.setup != nil {
				tt.setup(t, env)
			}
			_, err := env.run(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err), err.Error())
		})
	}
}

func TestWatchReportsChange(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run(t, "", "init")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config-dir", env.configDir, "--data-dir", env.dataDir, "--log-level", "error",
			"watch", "--max-events", "1"})
		done <- cmd.ExecuteContext(ctx)
	}()

	// The watcher may not be running yet, so keep writing until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			var ev changeEvent
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &ev), out.String())
			assert.Equal(t, types.SubscribersTable, ev.Table)
			assert.False(t, ev.At.IsZero())
			return
		case <-tick.C:
			_, err := env.run(t, "", "create", "subscribers", "--data", `{"email":"devotee@example.org"}`)
			require.NoError(t, err)
		case <-deadline:
			t.Fatal("watch did not report the change")
		}
	}
}

func TestResetTable(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "", "list", "events")
	require.NoError(t, err)
	var events []types.Event
	decodeData(t, out, &events)
	require.Len(t, events, 2)

	for _, e := range events {
		_, err := env.run(t, "", "delete", "events", e.ID.String())
		require.NoError(t, err)
	}
	_, err = env.run(t, "", "reset", "events")
	require.NoError(t, err)

	out, err = env.run(t, "", "list", "events")
	require.NoError(t, err)
	decodeData(t, out, &events)
	assert.Len(t, events, 2)
}

func TestStats(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "", "stats")
	require.NoError(t, err)
	var res statsResult
	decodeData(t, out, &res)
	require.Len(t, res.Tables, len(types.StandardTableNames))
	assert.Equal(t, types.EventsTable, res.Tables[0].Table)
	assert.Equal(t, 2, res.Tables[0].Records)
}

func TestLoginFlow(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "", "whoami")
	assert.ErrorIs(t, err, types.ErrNotLoggedIn)

	_, err = env.run(t, "wrong\n", "login")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)

	out, err := env.run(t, "admin123\n", "login")
	require.NoError(t, err)
	var session types.Session
	decodeData(t, out, &session)
	assert.NotEmpty(t, session.Token)

	out, err = env.run(t, "", "whoami")
	require.NoError(t, err)
	var user types.User
	decodeData(t, out, &user)
	assert.Equal(t, "admin", user.Username)

	_, err = env.run(t, "", "logout")
	require.NoError(t, err)
	_, err = env.run(t, "", "whoami")
	assert.ErrorIs(t, err, types.ErrNotLoggedIn)
}

func TestConfiguredPasswordHash(t *testing.T) {
	env := newCLIEnv(t)

	hash, err := env.run(t, "", "hash-password", "s3cret", "--cost", "4")
	require.NoError(t, err)
	hash = strings.TrimSpace(hash)
	require.True(t, strings.HasPrefix(hash, "$2a$04$"), hash)

	writeConfig(t, env, "backend: files\nadmin_username: priest\nadmin_password_hash: '"+hash+"'\n")

	_, err = env.run(t, "", "login", "--username", "priest", "--password", "s3cret")
	require.NoError(t, err)
	_, err = env.run(t, "", "login", "--password", "admin123")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestMetricsTextfile(t *testing.T) {
	env := newCLIEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "temple.prom")
	t.Setenv("TEMPLE_METRICS_TEXTFILE", metricsPath)

	_, err := env.run(t, "", "list", "events")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `temple_repository_operations_total{operation="fetch",partition="temple_events",result="ok"} 1`)
}

func TestSQLiteBackendFromEnv(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("TEMPLE_BACKEND", types.BackendSQLite)

	_, err := env.run(t, "", "create", "donors", "--data", `{"name":"Ravi","amount":101}`)
	require.NoError(t, err)

	out, err := env.run(t, "", "list", "donors", "amount=101")
	require.NoError(t, err)
	var donors []types.Donor
	decodeData(t, out, &donors)
	assert.Len(t, donors, 1)

	_, err = os.Stat(filepath.Join(env.dataDir, "temple.db"))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "temple v"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(userErrorf("bad")))
	assert.Equal(t, exitUserError, exitCode(errors.Join(errors.New("ctx"), types.ErrTableNotFound)))
	assert.Equal(t, exitSysError, exitCode(errors.New("disk on fire")))
	assert.Equal(t, exitSysError, exitCode(types.ErrStoreClosed))
}

func TestParseFilterArgs(t *testing.T) {
	filter, err := parseFilterArgs([]string{"category=festival", "limit=5", "anonymous=true", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "festival", filter["category"])
	assert.Equal(t, 5.0, filter["limit"])
	assert.Equal(t, true, filter["anonymous"])
	assert.Equal(t, "a=b", filter["note"])

	_, err = parseFilterArgs([]string{"=x"})
	assert.Error(t, err)
}

func TestDefaultConfigYAML(t *testing.T) {
	data, err := defaultConfigYAML()
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "# Temple CLI configuration")
	assert.Contains(t, s, "backend: files")
	assert.Contains(t, s, "# Storage backend: memory, files, or sqlite")
	assert.Contains(t, s, "quota_bytes: 5242880")
}
