package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSessionDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			token TEXT NOT NULL UNIQUE,
			refresh_token TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMP NOT NULL,
			refresh_expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`)
	require.NoError(t, err)
	return db
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := openSessionDB(t)
	now := time.Now()

	live := &Session{
		UserID: 1, Token: "live-token", RefreshToken: "live-refresh",
		ExpiresAt: now.Add(time.Hour), RefreshExpiresAt: now.Add(24 * time.Hour),
	}
	lapsed := &Session{
		UserID: 1, Token: "lapsed-token", RefreshToken: "lapsed-refresh",
		ExpiresAt: now.Add(-2 * time.Hour), RefreshExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, CreateSession(db, live))
	require.NoError(t, CreateSession(db, lapsed))

	pruned, err := DeleteExpiredSessions(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	kept, err := GetSessionByToken(db, "live-token")
	require.NoError(t, err)
	assert.Equal(t, live.ID, kept.ID)

	_, err = GetSessionByToken(db, "lapsed-token")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
