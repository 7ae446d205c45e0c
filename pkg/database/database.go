// Package database 数据库操作
package database

import (
	"database/sql"
	"fmt"

	"tarot-agent/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 对象
var DB *gorm.DB
var SQLDB *sql.DB

// Connect 连接数据库
func Connect(dbConfig gorm.Dialector, _logger gormlogger.Interface) error {
	db, err := gorm.Open(dbConfig, &gorm.Config{
		Logger: _logger,
	})
	if err != nil {
		logger.ErrorString("数据库", "连接", err.Error())
		return fmt.Errorf("database unavailable: %w", err)
	}

	// 获取底层的 sqlDB
	sqlDB, err := db.DB()
	if err != nil {
		logger.ErrorString("数据库", "获取底层SQL", err.Error())
		return fmt.Errorf("database unavailable: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		logger.ErrorString("数据库", "Ping", err.Error())
		_ = sqlDB.Close()
		return fmt.Errorf("database unavailable: %w", err)
	}

	DB, SQLDB = db, sqlDB
	return nil
}

// AutoMigrate 自动迁移所有数据表
func AutoMigrate(tables []interface{}) error {
	return DB.AutoMigrate(tables...)
}

// Close 关闭连接
func Close() error {
	if SQLDB == nil {
		return nil
	}
	return SQLDB.Close()
}
