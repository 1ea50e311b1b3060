package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	d, err := Dir("mysql")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d)

	_, err = Dir("memory")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsHaveGooseMarkers(t *testing.T) {
	for _, dir := range []string{"mysql", "postgres"} {
		entries, err := fs.ReadDir(files, dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries, dir)
		for _, e := range entries {
			b, err := fs.ReadFile(files, dir+"/"+e.Name())
			require.NoError(t, err)
			body := string(b)
			assert.True(t, strings.Contains(body, "-- +goose Up"), e.Name())
			assert.True(t, strings.Contains(body, "-- +goose Down"), e.Name())
			for _, table := range []string{"vehicles", "audio_analyses", "mechanic_reports"} {
				assert.Contains(t, body, table, "%s/%s", dir, e.Name())
			}
		}
	}
}

func TestInsertSequenceColumn(t *testing.T) {
	for _, dir := range []string{"mysql", "postgres"} {
		b, err := fs.ReadFile(files, dir+"/00002_insert_seq.sql")
		require.NoError(t, err, dir)
		up, down, ok := strings.Cut(string(b), "-- +goose Down")
		require.True(t, ok, dir)
		for _, table := range []string{"vehicles", "audio_analyses", "mechanic_reports"} {
			assert.Contains(t, up, "ALTER TABLE "+table+" ADD COLUMN", "%s up", dir)
			assert.Contains(t, down, "ALTER TABLE "+table+" DROP COLUMN", "%s down", dir)
		}
	}
}
