package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"StockDeck/pkg/schema"
)

// StockDB SQLite 数据库连接
// 进程启动时打开一次，各请求共享同一个受管连接池，
// 不再每个请求单独开关连接
type StockDB struct {
	db     *gorm.DB
	schema *schema.Schema
}

// New 打开数据库连接并确保表结构存在
func New(path string, s *schema.Schema) (*StockDB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 设置连接池参数；SQLite 为单写者，限制单连接避免写锁竞争
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("测试数据库连接失败: %w", err)
	}

	stockDB := &StockDB{db: db, schema: s}
	if err := stockDB.EnsureTable(); err != nil {
		return nil, err
	}

	return stockDB, nil
}

// Close 关闭数据库连接
func (d *StockDB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// tableDDL 根据列模式生成建表语句
func (d *StockDB) tableDDL() string {
	defs := make([]string, 0, d.schema.Total()+1)
	defs = append(defs, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, f := range d.schema.Fields() {
		defs = append(defs, fmt.Sprintf("%q %s", f.Name, f.SQLType))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS stock_data (\n  %s\n)", strings.Join(defs, ",\n  "))
}

// EnsureTable 创建 stock_data 表（若不存在）
func (d *StockDB) EnsureTable() error {
	if err := d.db.Exec(d.tableDDL()).Error; err != nil {
		return fmt.Errorf("创建数据表失败: %w", err)
	}
	return nil
}

// RecreateTable 删除并重建数据表
func (d *StockDB) RecreateTable() error {
	if err := d.db.Exec("DROP TABLE IF EXISTS stock_data").Error; err != nil {
		return fmt.Errorf("删除数据表失败: %w", err)
	}
	return d.EnsureTable()
}

// TableDDL 返回当前表的建表语句
func (d *StockDB) TableDDL() (string, error) {
	var ddl string
	err := d.db.Raw("SELECT sql FROM sqlite_master WHERE type='table' AND name='stock_data'").Scan(&ddl).Error
	if err != nil {
		return "", fmt.Errorf("查询表结构失败: %w", err)
	}
	return ddl, nil
}

// Count 返回当前记录总数
func (d *StockDB) Count() (int64, error) {
	var count int64
	err := d.db.Table("stock_data").Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计记录数失败: %w", err)
	}
	return count, nil
}

// Clear 删除所有数据并重置自增ID，保留表结构
func (d *StockDB) Clear() error {
	if err := d.db.Exec("DELETE FROM stock_data").Error; err != nil {
		return fmt.Errorf("删除数据失败: %w", err)
	}
	// sqlite_sequence 在表从未插入过时不存在，忽略这种情况
	if err := d.db.Exec("DELETE FROM sqlite_sequence WHERE name='stock_data'").Error; err != nil {
		if !strings.Contains(err.Error(), "no such table") {
			return fmt.Errorf("重置自增ID失败: %w", err)
		}
	}
	return nil
}
