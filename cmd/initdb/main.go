package main

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"StockDeck/pkg/config"
	"StockDeck/pkg/database"
	"StockDeck/pkg/mapper"
	"StockDeck/pkg/model"
	"StockDeck/pkg/normalize"
	"StockDeck/pkg/schema"
)

// initdb 从 Excel 文件重建数据库：
// 读取第一个工作表，表头按旧名/规范名解析，T日列做序列号转换，
// 股票列拆分出名称和代码，整表重建后批量入库。

const importBatchSize = 100

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	excelPath := flag.String("excel", "data/stock_data.xlsx", "Excel 数据文件路径")
	flag.Parse()

	cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
		} else {
			log.Fatalf("加载配置失败: %v", err)
		}
	}

	log.Info("股票数据数据库初始化")

	headers, rows, err := readExcel(*excelPath)
	if err != nil {
		log.Fatalf("读取Excel文件失败: %v", err)
	}
	log.WithFields(logrus.Fields{"columns": len(headers), "rows": len(rows)}).Info("Excel读取完成")

	columnSchema := schema.New()

	db, err := database.New(cfg.Database.Path, columnSchema)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer db.Close()

	// 重建数据表
	if err := db.RecreateTable(); err != nil {
		log.Fatalf("重建数据表失败: %v", err)
	}

	imported, skipped := importRows(db, columnSchema, headers, rows, log)

	count, err := db.Count()
	if err != nil {
		log.Fatalf("统计记录数失败: %v", err)
	}

	log.WithFields(logrus.Fields{
		"imported": imported,
		"skipped":  skipped,
		"total":    count,
		"database": cfg.Database.Path,
	}).Info("数据库初始化完成")
}

// readExcel 读取第一个工作表，返回表头和数据行
func readExcel(path string) (headers []string, rows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("Excel文件没有工作表")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, errors.New("Excel文件为空")
	}

	headers = all[0]
	// 去掉末尾的空白行
	for _, row := range all[1:] {
		if !rowEmpty(row) {
			rows = append(rows, row)
		}
	}
	return headers, rows, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// importRows 把表格行映射为规范记录并分批入库
func importRows(db *database.StockDB, s *schema.Schema, headers []string, rows [][]string, log *logrus.Logger) (imported, skipped int) {
	pending := make([]model.Record, 0, importBatchSize)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		inserted, failed, err := db.InsertChunk(pending)
		if err != nil {
			log.Fatalf("导入数据失败: %v", err)
		}
		imported += inserted
		skipped += failed
		pending = pending[:0]
		log.WithField("imported", imported).Info("已导入")
	}

	for i, row := range rows {
		record, err := buildRecord(headers, row, s)
		if err != nil {
			log.WithField("row", i).WithError(err).Warn("跳过无法映射的行")
			skipped++
			continue
		}
		pending = append(pending, record)
		if len(pending) >= importBatchSize {
			flush()
		}
	}
	flush()
	return imported, skipped
}

// buildRecord 把一行表格数据转换为规范记录
// T日做序列号转换，股票列拆出代码；表头旧名由列模式解析
func buildRecord(headers []string, row []string, s *schema.Schema) (model.Record, error) {
	keyed := make(map[string]interface{}, len(headers))
	var derived interface{}

	for i, header := range headers {
		value := ""
		if i < len(row) {
			value = row[i]
		}

		field, ok := s.Resolve(strings.TrimSpace(header))
		if !ok {
			continue
		}

		switch field.Index {
		case schema.DateIndex:
			keyed[field.Name] = normalize.ExcelSerialToDate(value)
		case s.DerivedField().Index:
			// 工作表带了量比列时沿用表里的值
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				if num, err := strconv.ParseFloat(trimmed, 64); err == nil {
					derived = num
				} else {
					derived = trimmed
				}
			}
		default:
			keyed[field.Name] = value
		}
	}

	// 股票列拆分出名称和代码；代码列已有值时保留
	if stockValue, ok := keyed["股票"].(string); ok {
		code, name := normalize.ParseCompositeNameCode(stockValue)
		keyed["股票"] = name
		if existing, ok := keyed["代码"].(string); !ok || strings.TrimSpace(existing) == "" {
			keyed["代码"] = code
		}
	}

	record, err := mapper.MapKeyedRow(keyed, s)
	if err != nil {
		return model.Record{}, err
	}

	if derived != nil {
		record.Values[s.DerivedField().Index] = derived
	}
	return record, nil
}
