package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/temple/internal/media"
	"github.com/mesh-intelligence/temple/internal/paths"
	"github.com/mesh-intelligence/temple/internal/repository"
	"github.com/mesh-intelligence/temple/internal/telemetry"
	"github.com/mesh-intelligence/temple/pkg/temple"
	"github.com/mesh-intelligence/temple/pkg/types"
)

// validTableNamesStr lists the table names for error output.
var validTableNamesStr = strings.Join(types.StandardTableNames, ", ")

// userError marks an error caused by the invocation rather than the system.
type userError struct{ err error }

func (e userError) Error() string { return e.err.Error() }
func (e userError) Unwrap() error { return e.err }

func userErrorf(format string, args ...any) error {
	return userError{fmt.Errorf(format, args...)}
}

// userArgs marks positional argument errors as user errors.
func userArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return userError{err}
		}
		return nil
	}
}

// userSentinels are store errors caused by bad input.
var userSentinels = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrInvalidFilter,
	types.ErrTableNotFound,
	types.ErrQuotaExceeded,
	types.ErrInvalidCredentials,
	types.ErrNotLoggedIn,
	types.ErrNotImage,
	types.ErrImageTooLarge,
	types.ErrWatchUnsupported,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrQuotaInvalid,
	types.ErrInvalidPasswordHash,
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue userError
	if errors.As(err, &ue) {
		return exitUserError
	}
	for _, s := range userSentinels {
		if errors.Is(err, s) {
			return exitUserError
		}
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return exitUserError
	}
	return exitSysError
}

// openTemple resolves the data directory and opens the configured store.
func (a *app) openTemple() (*temple.Temple, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir), a.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	a.metrics = telemetry.NewMetrics()
	tp, err := temple.Open(storeConfig(a.v, dataDir),
		temple.WithLogger(a.log),
		temple.WithMetrics(a.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return tp, nil
}

// withTemple opens the store, runs fn, closes the store, and writes the
// metrics textfile when one is configured.
func (a *app) withTemple(fn func(tp *temple.Temple) error) (err error) {
	tp, err := a.openTemple()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, tp.Close())
		if path := a.v.GetString(cfgKeyMetricsTextfile); path != "" {
			if werr := a.metrics.WriteTextfile(path); werr != nil {
				a.log.Error().Err(werr).Str("path", path).Msg("Could not write metrics")
			}
		}
	}()
	return fn(tp)
}

// table looks up name, listing the valid names on failure.
func table(tp *temple.Temple, name string) (repository.Table, error) {
	tbl, err := tp.Table(name)
	if errors.Is(err, types.ErrTableNotFound) {
		return nil, userErrorf("unknown table %q (valid: %s)", name, validTableNamesStr)
	}
	return tbl, err
}

// envelope is the --json output shape.
type envelope struct {
	Data any `json:"data"`
}

// print writes v as a JSON envelope with --json, or as indented JSON.
func (a *app) print(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	if a.flags.json {
		return json.NewEncoder(out).Encode(envelope{Data: v})
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// parseFilterArgs turns key=value arguments into a Fetch filter. Values
// that parse as JSON keep their JSON type; others are strings.
func parseFilterArgs(args []string) (map[string]any, error) {
	filter := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, userErrorf("invalid filter %q (expected key=value)", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		filter[key] = parsed
	}
	return filter, nil
}

// readRecordJSON returns the record body from --data, or from --file where
// "-" means stdin.
func readRecordJSON(cmd *cobra.Command, data, file string) ([]byte, error) {
	switch {
	case data != "" && file != "":
		return nil, userErrorf("use only one of --data and --file")
	case data != "":
		return []byte(data), nil
	case file == "-":
		return io.ReadAll(cmd.InOrStdin())
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, userError{err}
		}
		return b, nil
	default:
		return []byte("{}"), nil
	}
}

// attachImage encodes the image at path into field of the JSON object body.
func attachImage(body []byte, tableName, field, path string) ([]byte, error) {
	if path == "" {
		return body, nil
	}
	if field == "" {
		return nil, userErrorf("table %q has no image field", tableName)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: record must be a JSON object", types.ErrInvalidData)
	}
	uri, err := media.DataURIFromFile(path, 0)
	if errors.Is(err, os.ErrNotExist) {
		return nil, userError{err}
	}
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(uri)
	if err != nil {
		return nil, err
	}
	fields[field] = encoded
	return json.Marshal(fields)
}
