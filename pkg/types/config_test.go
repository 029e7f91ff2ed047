package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "negative quota returns ErrQuotaInvalid",
			config:  Config{Backend: BackendFiles, QuotaBytes: -1},
			wantErr: ErrQuotaInvalid,
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "valid files config",
			config: Config{Backend: BackendFiles, DataDir: "/tmp/data"},
		},
		{
			name:   "memory with empty DataDir is valid",
			config: Config{Backend: BackendMemory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigQuota(t *testing.T) {
	if got := (Config{}).Quota(); got != DefaultQuotaBytes {
		t.Errorf("zero quota: got %d, want %d", got, DefaultQuotaBytes)
	}
	if got := (Config{QuotaBytes: 1024}).Quota(); got != 1024 {
		t.Errorf("explicit quota: got %d, want 1024", got)
	}
}
