package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsSourceURLAbsolutePath(t *testing.T) {
	url, err := MigrationsSourceURL("/srv/interestledger/db/migrations")
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/interestledger/db/migrations", url)
}

func TestMigrationsSourceURLRelativePath(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	url, err := MigrationsSourceURL("db/migrations")
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(cwd, "db", "migrations")), url)
}
