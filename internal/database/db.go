package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	poolSize     = 25
	connLifetime = 30 * time.Minute
	pingTimeout  = 5 * time.Second
)

// Open returns a pooled MySQL handle that has answered a ping.
func Open(ctx context.Context, user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(user, pass, host, port, name))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)
	db.SetConnMaxLifetime(connLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if perr := db.PingContext(pingCtx); perr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql at %s:%s: %w", host, port, perr)
	}
	return db, nil
}

// DSN builds the driver connection string.  Times are parsed in UTC and
// UPDATE reports matched rows (clientFoundRows) so an unchanged row still
// counts as found.
func DSN(user, pass, host, port, name string) string {
	c := mysql.NewConfig()
	c.User, c.Passwd = user, pass
	c.Net, c.Addr = "tcp", host+":"+port
	c.DBName = name
	c.ParseTime = true
	c.ClientFoundRows = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}
