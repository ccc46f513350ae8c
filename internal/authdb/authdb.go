// Package authdb resolves a bearer token to a tenant ID against the
// Postgres table that also backs the dashboard's API key management.
package authdb

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mlop-ingest/internal/apperror"
)

// apiKey mirrors the "api_key" table's columns. The struct is unexported:
// nothing outside this package needs the raw row.
type apiKey struct {
	ID             string     `gorm:"column:id"`
	OrganizationID string     `gorm:"column:organizationId"`
	Key            string     `gorm:"column:key"`
	ExpiresAt      *time.Time `gorm:"column:expiresAt"`
	LastUsed       *time.Time `gorm:"column:lastUsed"`
	CreatedAt      time.Time  `gorm:"column:createdAt"`
}

func (apiKey) TableName() string { return "api_key" }

// acquireTimeout bounds how long a single lookup waits on the connection
// pool, mirroring the original service's 3s pool acquire timeout.
const acquireTimeout = 3 * time.Second

// DB is a GORM-backed handle onto the tenant/API-key database.
type DB struct {
	gorm *gorm.DB
}

// Open connects to Postgres at dsn and tunes the pool the way the teacher
// service tunes its MySQL pool: a small, bounded number of connections for
// a lookup that sits on the hot path of every request.
func Open(dsn string) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{gorm: db}, nil
}

// HashToken hashes an API key the way the issuing side does: SHA-256 hex,
// unless the key already carries the "mlpi_" prefix that marks it as
// pre-hashed (or otherwise exempt from hashing).
func HashToken(token string) string {
	if strings.HasPrefix(token, "mlpi_") {
		return token
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ResolveTenant looks up token (already validated as well-formed by the
// caller) and returns the tenant ID it belongs to, or an *apperror.Error if
// the token is unknown, expired, or the database can't be reached.
func (db *DB) ResolveTenant(ctx context.Context, token string) (string, *apperror.Error) {
	ctx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	hashed := HashToken(token)

	var key apiKey
	result := db.gorm.WithContext(ctx).Where(`"key" = ?`, hashed).First(&key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", apperror.New(apperror.InvalidToken, "invalid API key")
	}
	if result.Error != nil {
		return "", apperror.New(apperror.DatabaseError, "failed to validate API key")
	}

	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return "", apperror.New(apperror.TokenExpired, "API key has expired")
	}

	return key.OrganizationID, nil
}

// Ping checks connectivity, used by the health endpoint.
func (db *DB) Ping() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
