package repository

import (
	"context"
	"fmt"
	"time"

	"apodweb/pkg/consts"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Config struct {
	Driver string
	// DSN is used as is when set, postgres settings are built from the fields below otherwise.
	DSN      string
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  string
}

func (c Config) dataSource() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s", c.Host, c.Port, c.Username, c.DBName, c.Password, c.SSLMode)
}

// NewDB opens and pings a postgres or sqlite database.
func NewDB(ctx context.Context, c Config) (*sqlx.DB, error) {

	switch c.Driver {
	case consts.DriverPostgres, consts.DriverSqlite:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", c.Driver)
	}

	db, err := sqlx.Open(c.Driver, c.dataSource())
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if c.Driver == consts.DriverSqlite {
		// an in-memory sqlite database lives in a single connection
		db.SetMaxOpenConns(1)
		return db, nil
	}

	db.SetConnMaxIdleTime(10 * time.Second)
	db.SetConnMaxLifetime(10 * time.Second)
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(5)

	return db, nil
}
