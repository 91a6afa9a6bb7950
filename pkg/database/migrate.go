package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable 版本记录表，与应用表共用 public schema
const migrationsTable = "planner_schema_migrations"

// migrator *migrate.Migrate 中启动时用到的部分
type migrator interface {
	Up() error
	Version() (uint, bool, error)
}

// RunMigrations 将嵌入的 SQL 迁移应用到 db，已是最新时为空操作
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	return applyMigrations(m, logger)
}

// applyMigrations 执行 Up 并校验结果版本；dirty 状态需人工修复，直接返回错误
func applyMigrations(m migrator, logger *zap.Logger) error {
	upErr := m.Up()
	switch {
	case upErr == nil:
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.Debug("数据库迁移已是最新")
	default:
		return fmt.Errorf("执行迁移失败: %w", upErr)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		// 迁移目录为空
		logger.Warn("数据库尚无迁移版本")
		return nil
	case err != nil:
		return fmt.Errorf("读取迁移版本失败: %w", err)
	}

	if dirty {
		return fmt.Errorf("数据库迁移处于 dirty 状态: version=%d", version)
	}

	logger.Info("数据库迁移完成", zap.Uint("version", version))
	return nil
}
