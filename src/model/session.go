package model

import (
	"database/sql"
	"time"
)

// Session ties an issued access/refresh token pair to a user. The auth
// middleware rejects access tokens without a live session row, so deleting a
// session is an immediate logout.
type Session struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Token            string    `json:"-"`
	RefreshToken     string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	CreatedAt        time.Time `json:"created_at"`
}

func CreateSession(db *sql.DB, s *Session) error {
	s.CreatedAt = time.Now()
	query := `
	INSERT INTO sessions (user_id, token, refresh_token, expires_at, refresh_expires_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	res, err := db.Exec(query, s.UserID, s.Token, s.RefreshToken, s.ExpiresAt, s.RefreshExpiresAt, s.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func scanSession(row *sql.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.RefreshToken, &s.ExpiresAt, &s.RefreshExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const sessionColumns = "id, user_id, token, refresh_token, expires_at, refresh_expires_at, created_at"

// GetSessionByToken returns the session for an access token, provided it has
// not expired.
func GetSessionByToken(db *sql.DB, token string) (*Session, error) {
	return scanSession(db.QueryRow(
		"SELECT "+sessionColumns+" FROM sessions WHERE token = ? AND expires_at > ?", token, time.Now()))
}

// GetSessionByRefreshToken returns the session for a refresh token, provided
// the refresh window has not expired.
func GetSessionByRefreshToken(db *sql.DB, refreshToken string) (*Session, error) {
	return scanSession(db.QueryRow(
		"SELECT "+sessionColumns+" FROM sessions WHERE refresh_token = ? AND refresh_expires_at > ?", refreshToken, time.Now()))
}

func DeleteSessionByToken(db *sql.DB, token string) error {
	_, err := db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

func DeleteSessionByRefreshToken(db *sql.DB, refreshToken string) error {
	_, err := db.Exec("DELETE FROM sessions WHERE refresh_token = ?", refreshToken)
	return err
}

// DeleteExpiredSessions is run periodically to prune sessions whose refresh
// window has lapsed.
func DeleteExpiredSessions(db *sql.DB) (int64, error) {
	res, err := db.Exec("DELETE FROM sessions WHERE refresh_expires_at <= ?", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
