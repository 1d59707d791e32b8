package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snapptale/internal/config"
	"snapptale/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "snapptale",
		Short:         "Turn a photo and a name into an illustrated story",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")

	// 子命令共用的配置加载与日志初始化
	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(serveCmd(load), exportCmd(load), checkCmd(load))
	return root
}

type configLoader func() (*config.Config, error)
