package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/V2__second.sql": {Data: []byte("SELECT 2;")},
		"sql/V1__first.sql":  {Data: []byte("  SELECT 1;\n")},
		"sql/README.md":      {Data: []byte("ignored")},
		"sql/v3__lower.sql":  {Data: []byte("SELECT 3;")},
	}

	migs, err := Load(fsys, "sql")
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "first", migs[0].Name)
	assert.Equal(t, "SELECT 1;", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoad_Duplicate(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := Load(fsys, "")
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(fstest.MapFS{"V1__a.sql": {Data: []byte("   ")}}, ".")
	assert.ErrorContains(t, err, "empty migration file")

	migs, err := Load(fstest.MapFS{}, "missing")
	assert.NoError(t, err)
	assert.Empty(t, migs)
}
