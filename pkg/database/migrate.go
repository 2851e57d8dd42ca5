package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 把内嵌的日历库表结构迁移追平到最新版本。
// 已是最新版本时为空操作，启动阶段可无条件调用。
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("读取内嵌迁移脚本失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("创建 postgres 迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("应用日历库迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		// dirty 表示上次迁移中途失败，需人工介入修复 schema_migrations
		logger.Warn("日历库迁移处于 dirty 状态", zap.Uint("version", version))
	} else {
		logger.Info("日历库迁移已追平", zap.Uint("version", version))
	}

	return nil
}
