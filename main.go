// @title CareerZoom 后端 API
// @version 1.0
// @description CareerZoom 模拟面试与改进计划服务。

// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"careerzoom_backend/internal/app"
	"careerzoom_backend/internal/config"
	"careerzoom_backend/pkg/logger"
	"flag"
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	// .env 可选，缺失时只读环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		application.Close()
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
