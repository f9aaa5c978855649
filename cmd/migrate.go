package cmd

import (
	"campus_club_backend/internal/config"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/service"
	"campus_club_backend/pkg/database"
	"campus_club_backend/pkg/logger"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移并写入初始数据，完成后退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.InitLogger(cfg)
		defer logger.Log.Sync()

		db, err := database.InitDB(&cfg.Database, false)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		auth := service.NewAuthService(repository.NewUserRepository(db), cfg)
		if err := auth.EnsureAdmin(); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		logger.Log.Info("数据库迁移完成")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
