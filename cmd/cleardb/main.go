package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"StockDeck/pkg/config"
	"StockDeck/pkg/database"
	"StockDeck/pkg/schema"
)

// cleardb 清空数据库数据并重置自增ID，保留表结构

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
		} else {
			log.Fatalf("加载配置失败: %v", err)
		}
	}

	if _, err := os.Stat(cfg.Database.Path); err != nil {
		log.Info("数据库文件不存在，无需清空")
		return
	}

	db, err := database.New(cfg.Database.Path, schema.New())
	if err != nil {
		log.Fatalf("打开数据库失败: %v", err)
	}
	defer db.Close()

	before, err := db.Count()
	if err != nil {
		log.Fatalf("统计记录数失败: %v", err)
	}
	log.WithField("count", before).Info("当前记录数")

	if err := db.Clear(); err != nil {
		log.Fatalf("清空数据失败: %v", err)
	}

	after, err := db.Count()
	if err != nil {
		log.Fatalf("统计记录数失败: %v", err)
	}
	log.WithField("count", after).Info("数据已清空，自增ID已重置（表结构保留）")
}
