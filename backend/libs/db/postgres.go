package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultMaxOpenConns = 1
	defaultMaxIdleConns = 1
	defaultConnLifetime = time.Hour
	defaultPingTimeout  = 5 * time.Second
	defaultPort         = "5432"
)

// Params describes a server connection when no DSN is configured.
type Params struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN renders params as a postgres:// URL understood by pgx.
func (p Params) DSN() (string, error) {
	host := strings.TrimSpace(p.Host)
	if host == "" {
		return "", errors.New("db: empty host")
	}
	if strings.TrimSpace(p.Database) == "" {
		return "", errors.New("db: empty database name")
	}

	port := strings.TrimSpace(p.Port)
	if port == "" {
		port = defaultPort
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + p.Database,
	}
	if p.User != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.User, p.Password)
		} else {
			u.User = url.User(p.User)
		}
	}
	if p.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", p.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// NewPostgresDB opens a pgx/stdlib backed *sql.DB limited to one connection
// and validates it with a ping.
func NewPostgresDB(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("db: empty DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return db, nil
}
