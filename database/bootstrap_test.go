package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaadss/entities"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "eaa.db"))
	require.NoError(t, err)

	for _, m := range []any{&entities.Field{}, &entities.Assessment{}, &entities.SoilTest{}, &entities.PracticeItem{}, &entities.KBDocument{}, &entities.KBChunk{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestOpenSQLiteMemoryIsIsolated(t *testing.T) {
	a, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	b, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	require.NoError(t, a.Create(&entities.Field{SessionID: "s1", Mode: entities.ModePoint}).Error)

	var n int64
	require.NoError(t, b.Model(&entities.Field{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, a.Model(&entities.Field{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
