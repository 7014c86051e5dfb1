package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"StockDeck/pkg/model"
)

// Exists 检查 (T日, 代码) 对应的记录是否已入库
// 只查询已提交的数据；同一批次内尚未落库的记录不参与判断
func (d *StockDB) Exists(date, code string) (bool, error) {
	var count int64
	err := d.db.Raw(`SELECT COUNT(*) FROM stock_data WHERE "T日" = ? AND "代码" = ?`, date, code).
		Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询记录是否存在失败: %w", err)
	}
	return count > 0, nil
}

// insertSQL 根据列模式生成插入语句（id 自增，不在列表里）
func (d *StockDB) insertSQL() string {
	names := d.schema.ColumnNames()
	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO stock_data (%s) VALUES (%s)",
		strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// InsertChunk 在单个事务内逐行插入一批记录
// 单行插入失败只记为 failed，不中断事务；事务本身失败才返回 error
func (d *StockDB) InsertChunk(records []model.Record) (inserted, failed int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	sql := d.insertSQL()
	err = d.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if insertErr := tx.Exec(sql, record.Values...).Error; insertErr != nil {
				failed++
				continue
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("插入数据块失败: %w", err)
	}
	return inserted, failed, nil
}

// QueryAll 按插入顺序（id 升序）读出所有记录
// 每行为列名到值的映射；NULL 在这里保留为 nil，由上层决定展示形式
func (d *StockDB) QueryAll() ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	err := d.db.Table("stock_data").Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询数据失败: %w", err)
	}
	return rows, nil
}

// Preview 读出前 limit 条记录，供命令行查看
func (d *StockDB) Preview(limit int) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	err := d.db.Table("stock_data").Order("id").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询数据失败: %w", err)
	}
	return rows, nil
}
