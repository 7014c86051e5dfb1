package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"StockDeck/pkg/mapper"
	"StockDeck/pkg/model"
	"StockDeck/pkg/schema"
)

// Storage 入库与查询所需的存储能力
type Storage interface {
	Exists(date, code string) (bool, error)
	InsertChunk(records []model.Record) (inserted, failed int, err error)
	QueryAll() ([]map[string]interface{}, error)
}

// ErrEmptyBatch 顶层输入缺失或为空，属于客户端错误
var ErrEmptyBatch = errors.New("数据格式错误")

// Repository 数据仓库：去重入库引擎 + 查询服务
type Repository struct {
	storage   Storage
	schema    *schema.Schema
	chunkSize int
	log       *logrus.Logger
}

// NewRepository 创建数据仓库
func NewRepository(storage Storage, s *schema.Schema, chunkSize int, log *logrus.Logger) *Repository {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Repository{
		storage:   storage,
		schema:    s,
		chunkSize: chunkSize,
		log:       log,
	}
}

// ImportBatch 批量去重入库
//
// 按输入顺序逐行处理：映射失败（缺键/字段数不符）记 skipped；
// (T日, 代码) 已入库的记 skipped；其余缓冲，每满一个块在一个事务内落库。
// 去重只对照已提交的数据，同一批次内两行新数据共用一个键时两行都会入库，
// 存在性检查与插入也不构成跨批次的原子操作（单写者假设，见接口文档）。
// 单行插入失败记 skipped，不中断批次；total 恒等于输入行数。
func (r *Repository) ImportBatch(rows [][]interface{}) (model.ImportResult, error) {
	if len(rows) == 0 {
		return model.ImportResult{}, ErrEmptyBatch
	}

	batchID := uuid.NewString()
	log := r.log.WithFields(logrus.Fields{"batch": batchID, "rows": len(rows)})
	log.Info("开始批量入库")

	result := model.ImportResult{Total: len(rows)}
	pending := make([]model.Record, 0, r.chunkSize)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		inserted, failed, err := r.storage.InsertChunk(pending)
		if err != nil {
			return err
		}
		result.Inserted += inserted
		result.Skipped += failed
		pending = pending[:0]
		return nil
	}

	for i, row := range rows {
		record, err := mapper.MapRow(row, r.schema)
		if err != nil {
			log.WithField("row", i).WithError(err).Debug("跳过无法映射的行")
			result.Skipped++
			continue
		}

		exists, err := r.storage.Exists(record.Date, record.Code)
		if err != nil {
			// 连接级错误，整个批次失败
			return model.ImportResult{}, fmt.Errorf("检查记录是否存在失败: %w", err)
		}
		if exists {
			log.WithFields(logrus.Fields{"row": i, "date": record.Date, "code": record.Code}).
				Debug("跳过已存在的记录")
			result.Skipped++
			continue
		}

		pending = append(pending, record)
		if len(pending) >= r.chunkSize {
			if err := flush(); err != nil {
				return model.ImportResult{}, err
			}
		}
	}

	if err := flush(); err != nil {
		return model.ImportResult{}, err
	}

	log.WithFields(logrus.Fields{"inserted": result.Inserted, "skipped": result.Skipped}).
		Info("批量入库完成")
	return result, nil
}

// QueryAll 按插入顺序读出所有记录
// 返回规范表头和按列名取值的行；存储里的 NULL 统一转为空字符串，
// 前端只认统一的字符串缺失标记
func (r *Repository) QueryAll() (headers []string, data []map[string]interface{}, err error) {
	rows, err := r.storage.QueryAll()
	if err != nil {
		return nil, nil, err
	}

	headers = r.schema.ColumnNames()
	data = make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]interface{}, len(headers))
		for _, name := range headers {
			obj[name] = displayValue(row[name])
		}
		data = append(data, obj)
	}
	return headers, data, nil
}

// displayValue 存储值到展示值的转换
func displayValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	default:
		return v
	}
}
