package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"StockDeck/pkg/api"
	"StockDeck/pkg/collector"
	"StockDeck/pkg/config"
	"StockDeck/pkg/database"
	"StockDeck/pkg/repository"
	"StockDeck/pkg/schema"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	log.Info("启动API服务...")

	// 加载配置，配置文件不存在时使用缺省配置
	cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("未找到配置文件，使用缺省配置")
			cfg = config.Default()
		} else {
			log.Fatalf("加载配置失败: %v", err)
		}
	}

	// 列模式进程内只构造一次，以只读句柄传给各组件
	columnSchema := schema.New()

	// 打开数据库
	db, err := database.New(cfg.Database.Path, columnSchema)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer db.Close()

	// 创建数据仓库
	repo := repository.NewRepository(db, columnSchema, cfg.Import.ChunkSize, log)

	// 创建行情客户端
	klineClient := collector.NewKlineClient(cfg.Kline.BaseURL, cfg.Kline.Timeout)

	// 创建API处理程序并启动服务器
	handlers := api.NewHandlers(repo, klineClient)
	server := api.NewServer(cfg, log)
	server.SetupRoutes(handlers)
	server.Start()
}
