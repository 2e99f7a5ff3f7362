package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Driver 根据 DATABASE_URL 选择的存储后端
type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DetectDriver picks a backend from the connection string.
//
//	mongodb://, mongodb+srv://     -> mongo
//	postgres://, postgresql://, host=... -> postgres
//	sqlite:<path>, file:<path>, *.db     -> sqlite
func DetectDriver(dsn string) (Driver, error) {
	switch {
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return DriverMongo, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return DriverPostgres, nil
	case strings.HasPrefix(dsn, "sqlite:"), strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".db"):
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("unsupported DATABASE_URL %q", dsn)
}

// OpenPostgres 连接 postgres
func OpenPostgres(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return gdb, nil
}

// OpenSQLite opens a sqlite database through the pure-Go modernc driver.
// The pool is limited to one connection so concurrent writers queue instead
// of failing with SQLITE_BUSY.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimPrefix(dsn, "sqlite:")
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	gdb, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// OpenMongo connects and pings. The database name comes from the URI path,
// falling back to fallbackDB.
func OpenMongo(ctx context.Context, uri, fallbackDB string) (*mongo.Client, string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, "", fmt.Errorf("parse mongo uri: %w", err)
	}
	database := cs.Database
	if database == "" {
		database = fallbackDB
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, "", fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, "", fmt.Errorf("ping mongo: %w", err)
	}
	return client, database, nil
}
