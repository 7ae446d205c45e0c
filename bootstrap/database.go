package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tarot-agent/pkg/config"
	"tarot-agent/pkg/database"
	"tarot-agent/pkg/database/migrations"
	"tarot-agent/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupDB 初始化数据库和 ORM，存储不可用时返回错误
func SetupDB() error {
	// 根据配置文件选择数据库类型
	var dbConfig gorm.Dialector
	switch connection := config.GetString("database.connection"); connection {
	case "postgresql", "postgres":
		dbConfig = setupPostgreSQL()
	case "sqlite":
		dialector, err := setupSQLite()
		if err != nil {
			return err
		}
		dbConfig = dialector
	default:
		return fmt.Errorf("暂不支持该数据库类型: %q", connection)
	}

	// 连接数据库，并设置 GORM 的日志模式
	if err := database.Connect(dbConfig, logger.NewGormLogger()); err != nil {
		return err
	}

	// 设置连接池
	setupDBPool()

	// 自动迁移数据库结构
	if err := database.AutoMigrate(migrations.RegisterTables()); err != nil {
		logger.ErrorString("数据库", "自动迁移", "数据表结构迁移失败："+err.Error())
		return fmt.Errorf("database unavailable: %w", err)
	}
	logger.InfoString("数据库", "自动迁移", "数据表结构迁移成功")
	return nil
}

// setupPostgreSQL 配置 PostgreSQL 连接
func setupPostgreSQL() gorm.Dialector {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		config.GetString("database.postgresql.host"),
		config.GetString("database.postgresql.port"),
		config.GetString("database.postgresql.username"),
		config.GetString("database.postgresql.password"),
		config.GetString("database.postgresql.database"),
		config.GetString("database.postgresql.sslmode", "disable"),
		config.GetString("app.timezone", "Asia/Shanghai"),
	)
	return postgres.New(postgres.Config{
		DSN: dsn,
	})
}

// setupSQLite 配置 SQLite 连接，自动创建数据库文件所在目录
func setupSQLite() (gorm.Dialector, error) {
	path := config.GetString("database.sqlite.database", "database/tarot.db")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("database unavailable: %w", err)
		}
	}
	return sqlite.Open(path), nil
}

// setupDBPool 配置数据库连接池
func setupDBPool() {
	if config.GetString("database.connection") == "sqlite" {
		// SQLite 单写者，限制为一个连接避免 database is locked
		database.SQLDB.SetMaxOpenConns(1)
		return
	}
	database.SQLDB.SetMaxOpenConns(config.GetInt("database.postgresql.max_open_connections"))
	database.SQLDB.SetMaxIdleConns(config.GetInt("database.postgresql.max_idle_connections"))
	database.SQLDB.SetConnMaxLifetime(time.Duration(config.GetInt("database.postgresql.max_life_seconds")) * time.Second)
}
