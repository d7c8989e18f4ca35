package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ward-roster/roster/backend/internal/catalog"
	"github.com/ward-roster/roster/backend/internal/config"
	"github.com/ward-roster/roster/backend/internal/repository"
	"github.com/ward-roster/roster/backend/internal/seed"
	"github.com/ward-roster/roster/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var seedValue int64
	var file string
	var emailDomain string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机意愿, 3: 插入随机缺勤, 4: 从 CSV 导入员工)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量，为 0 时使用配置中的默认值")
	flag.Int64Var(&seedValue, "seed", 0, "随机数种子，为 0 时使用当前时间")
	flag.StringVar(&file, "file", "", "员工名单 CSV 文件路径")
	flag.StringVar(&emailDomain, "email-domain", "", "随机员工的邮箱域名，为空时不生成邮箱")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shifts, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		logger.Error("无法加载班次定义", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(dbpool); err != nil {
			logger.Error("无法执行数据库迁移", "error", err)
			return
		}
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)
	rng := utils.NewRand(seedValue)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			n = cfg.Seed.StaffCount
		}
		staff := utils.GenerateRandomStaff(rng, n, shifts.OrderedKeys(), emailDomain)
		if err := repo.ReplaceStaff(staff); err != nil {
			slog.Error("无法插入员工", slog.String("error", err.Error()))
			return
		}
		for _, s := range staff {
			fmt.Println(utils.FormatStaffLine(s))
		}
		slog.Info("插入员工成功", slog.Int("count", len(staff)))
	case 2:
		if n <= 0 {
			n = cfg.Seed.WishCount
		}
		staff, err := repo.GetAllStaff()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}
		if len(staff) == 0 {
			slog.Error("数据库中没有员工，请先插入员工")
			return
		}

		wishes := utils.GenerateRandomWishes(rng, n, staff, shifts.OrderedKeys(), cfg.Seed.Year)
		if err := repo.ReplaceWishes(wishes); err != nil {
			slog.Error("无法插入意愿", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入意愿成功", slog.Int("count", len(wishes)))
	case 3:
		if n <= 0 {
			n = cfg.Seed.StaffCount
		}
		staff, err := repo.GetAllStaff()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}
		if len(staff) == 0 {
			slog.Error("数据库中没有员工，请先插入员工")
			return
		}

		absences := utils.GenerateRandomAbsences(rng, n, staff, cfg.Seed.Year)
		if err := repo.ReplaceAbsences(absences); err != nil {
			slog.Error("无法插入缺勤记录", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入缺勤记录成功", slog.Int("count", len(absences)))
	case 4:
		if file == "" {
			slog.Error("请通过 -file 指定员工名单")
			return
		}
		fd, err := os.Open(file)
		if err != nil {
			slog.Error("打开文件失败", "error", err)
			return
		}
		defer fd.Close()

		staff, err := seed.LoadStaffCSV(fd)
		if err != nil {
			slog.Error("解析员工名单失败", "error", err)
			return
		}
		if err := utils.ValidateStaffList(staff, shifts); err != nil {
			slog.Error("员工名单不合法", "error", err)
			return
		}
		if err := repo.ReplaceStaff(staff); err != nil {
			slog.Error("无法导入员工", slog.String("error", err.Error()))
			return
		}
		slog.Info("导入员工成功", slog.Int("count", len(staff)))
	default:
		slog.Error("指定的操作非法")
	}
}
