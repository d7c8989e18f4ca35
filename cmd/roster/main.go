package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/client"
	"github.com/ward-roster/roster/backend/internal/config"
	"github.com/ward-roster/roster/backend/internal/session"
)

var (
	month int
	year  int
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "查看和编辑某个月的排班表",
	Long: `roster 通过 API 读取和保存排班表。

连接信息来自环境变量：
  ROSTER_API_URL        API 地址
  ROSTER_GENERATOR_URL  排班服务地址，为空时使用 API 地址
  ROSTER_TOKEN          访问令牌`,
	SilenceUsage: true,
}

func init() {
	now := time.Now()
	rootCmd.PersistentFlags().IntVar(&month, "month", int(now.Month()), "月份 (1-12)")
	rootCmd.PersistentFlags().IntVar(&year, "year", now.Year(), "年份")

	rootCmd.AddCommand(showCmd, assignCmd, clearCmd, importCmd, exportCmd, generateCmd, checkCmd)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openSession 从 API 获取班次定义后创建会话并加载排班表
func openSession(ctx context.Context) (*session.Session, error) {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return nil, fmt.Errorf("无法读取配置: %w", err)
	}

	cl := client.New(client.Options{
		BaseURL:      cfg.APIURL,
		GeneratorURL: cfg.GeneratorURL,
		Token:        cfg.Token,
		Timeout:      time.Duration(cfg.RequestTimeout) * time.Second,
	})

	defs, err := cl.Shifts(ctx)
	if err != nil {
		return nil, err
	}
	shifts, err := catalog.New(defs)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(session.Options{
		Catalog:     shifts,
		Store:       cl,
		Generator:   cl,
		Directories: cl,
	}, month, year)
	if err != nil {
		return nil, err
	}
	if err := sess.Load(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}
