package penalty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/penaltymodel/penalty"
)

func TestConfig_KeyRoundTrip(t *testing.T) {
	cfg := penalty.Config{-1, 1, 1}
	require.Equal(t, "-1,1,1", cfg.Key())

	back, err := penalty.ParseKey(cfg.Key())
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestParseKey_Malformed(t *testing.T) {
	_, err := penalty.ParseKey("")
	require.ErrorIs(t, err, penalty.ErrBadConfigKey)

	_, err = penalty.ParseKey("1,x,1")
	require.ErrorIs(t, err, penalty.ErrBadConfigKey)
}

func TestNewTable_SetFormNormalization(t *testing.T) {
	// Set-form input: every row becomes a zero-target mapping entry.
	table := penalty.NewTable(
		penalty.Config{-1, -1},
		penalty.Config{1, 1},
	)

	require.Len(t, table, 2)
	for _, cfg := range table.Configs() {
		target, ok := table.Target(cfg)
		require.True(t, ok)
		assert.Equal(t, 0.0, target)
	}
}

func TestTable_Targets(t *testing.T) {
	table := penalty.Table{}
	table.Set(penalty.Config{1, 1}, 1)
	table.Set(penalty.Config{-1, 1}, 0)
	table.Set(penalty.Config{1, -1}, 0)

	assert.Equal(t, 1.0, table.MaxTarget())
	assert.Equal(t, 0.0, table.MinTarget())
	assert.True(t, table.Contains(penalty.Config{1, 1}))
	assert.False(t, table.Contains(penalty.Config{-1, -1}))
}

func TestTable_ConfigsDeterministic(t *testing.T) {
	table := penalty.NewTable(
		penalty.Config{1, -1},
		penalty.Config{-1, 1},
		penalty.Config{-1, -1},
	)

	first := table.Configs()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, table.Configs())
	}
}

func TestTable_CopyAndEqual(t *testing.T) {
	table := penalty.NewTable(penalty.Config{1})
	cp := table.Copy()
	require.True(t, table.Equal(cp))

	cp.Set(penalty.Config{-1}, 2)
	assert.False(t, table.Equal(cp))
}
