package cmd

import (
	"campus_club_backend/internal/app"
	"campus_club_backend/internal/config"
	"campus_club_backend/pkg/logger"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var forceMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// release 模式默认不自动迁移
		migrate := forceMigrate || cfg.Server.Mode != gin.ReleaseMode

		application, err := app.NewApp(cfg, migrate)
		if err != nil {
			return err
		}
		defer logger.Log.Sync()

		return application.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	serveCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
}
