package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// rootCmd 不带子命令时等同于 serve
var rootCmd = &cobra.Command{
	Use:   "campus-club",
	Short: "校园社团平台后端服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "config.yaml 所在目录")
}
