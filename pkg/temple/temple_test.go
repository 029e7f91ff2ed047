package temple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/temple/pkg/types"
)

func TestOpen(t *testing.T) {
	tp, err := Open(types.Config{Backend: types.BackendFiles, DataDir: t.TempDir()})
	require.NoError(t, err)
	defer tp.Close()

	events, err := tp.Events.GetAll()
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestOpenInvalidConfig(t *testing.T) {
	tp, err := Open(types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
	assert.Nil(t, tp)
}
