package store

import (
	"context"
	"fmt"

	"lostfound/internal/db"

	"gorm.io/gorm"
)

// Open 根据连接串选择后端并返回 ItemStore
func Open(ctx context.Context, dsn, mongoDatabase string) (ItemStore, db.Driver, error) {
	driver, err := db.DetectDriver(dsn)
	if err != nil {
		return nil, "", err
	}

	switch driver {
	case db.DriverMongo:
		client, database, err := db.OpenMongo(ctx, dsn, mongoDatabase)
		if err != nil {
			return nil, driver, err
		}
		s, err := NewMongoStore(ctx, client, database)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, driver, err
		}
		return s, driver, nil
	case db.DriverPostgres:
		gdb, err := db.OpenPostgres(dsn)
		if err != nil {
			return nil, driver, err
		}
		s, err := openGorm(gdb)
		if err != nil {
			return nil, driver, err
		}
		return s, driver, nil
	case db.DriverSQLite:
		gdb, err := db.OpenSQLite(dsn)
		if err != nil {
			return nil, driver, err
		}
		s, err := openGorm(gdb)
		if err != nil {
			return nil, driver, err
		}
		return s, driver, nil
	}
	return nil, driver, fmt.Errorf("no store for driver %q", driver)
}

// openGorm 迁移失败时关闭已打开的连接池
func openGorm(gdb *gorm.DB) (*GormStore, error) {
	s, err := NewGormStore(gdb)
	if err != nil {
		if sqlDB, dbErr := gdb.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}
