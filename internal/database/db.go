package database

import (
    "context"
    "database/sql"
    "net"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/larsholm/event-ticketing/internal/config"
)

// pingTimeout bounds the startup connectivity check so a wrong DB_HOST
// fails fast instead of hanging the boot.
const pingTimeout = 5 * time.Second

// Open builds the MySQL pool every repository shares.  DATETIME columns are
// scanned as time.Time in UTC so booking timestamps compare directly
// against event start times; pool sizing comes from the configuration so
// deployments can match it to their MySQL max_connections.
func Open(cfg config.Config) (*sql.DB, error) {
    mc := mysql.NewConfig()
    mc.User = cfg.DBUser
    mc.Passwd = cfg.DBPass
    mc.Net = "tcp"
    mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
    mc.DBName = cfg.DBName
    mc.ParseTime = true
    mc.Loc = time.UTC
    mc.Params = map[string]string{"charset": "utf8mb4"}

    db, err := sql.Open("mysql", mc.FormatDSN())
    if err != nil {
        return nil, err
    }
    db.SetMaxOpenConns(cfg.DBMaxConns)
    db.SetMaxIdleConns(cfg.DBMaxConns)
    db.SetConnMaxLifetime(time.Duration(cfg.DBConnLifetimeMin) * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
