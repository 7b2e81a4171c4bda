package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/gommon/log"
)

// Pool settings shared by both services.
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
	pingAttempts    = 5
)

// driverConfig builds the driver settings.  parseTime maps DATETIME to
// time.Time and loc=UTC keeps stored times in UTC.
func driverConfig(user, pass, host, port, name string) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg
}

// Open connects to MySQL and waits until the server answers a ping.  A
// database container that is still starting gets pingAttempts tries
// with a growing pause in between.
func Open(ctx context.Context, user, pass, host, port, name string) (*sql.DB, error) {
	connector, err := mysql.NewConnector(driverConfig(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	wait := time.Second
	for attempt := 1; ; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt == pingAttempts || ctx.Err() != nil {
			db.Close()
			return nil, err
		}
		log.Warnf("database: %s not ready (attempt %d/%d): %v", host, attempt, pingAttempts, err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}
