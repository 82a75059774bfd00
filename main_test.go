package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout returns what fn printed to standard output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestMigrateDb(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("DATABASE_URL", "sqlite://"+path)

	out := captureStdout(t, migrateDb)
	assert.Equal(t, []string{"Start migrating database...", "Migration done!"},
		strings.Split(strings.TrimSpace(out), "\n"))

	require.NoError(t, initDB())
	defer database.CloseDB()
	var count int64
	require.NoError(t, database.GetDB().Model(&model.Role{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}
