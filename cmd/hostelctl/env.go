package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/config"
	"github.com/shiven424/hostel-system/internal/repository"
	"github.com/shiven424/hostel-system/pkg/database"
	applogger "github.com/shiven424/hostel-system/pkg/logger"
)

// env 单条命令运行所需的依赖
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	sqlDB  *sql.DB
}

func openEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	return &env{cfg: cfg, logger: logger, db: db, sqlDB: sqlDB}, nil
}

func (e *env) repo() *repository.Repository {
	return repository.NewRepository(e.db)
}

func (e *env) Close() {
	_ = e.sqlDB.Close()
	_ = e.logger.Sync()
}
