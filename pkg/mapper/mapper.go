package mapper

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"StockDeck/pkg/model"
	"StockDeck/pkg/normalize"
	"StockDeck/pkg/schema"
)

// 行映射器：把一行原始数据（按位置排列的单元格值，或按表头取值的对象）
// 转换为与列模式对齐的规范记录。无状态，逐行独立。

var (
	// ErrMissingKey 日期或代码为空，无法构成去重键
	ErrMissingKey = errors.New("日期或代码为空")
	// ErrSchemaMismatch 映射结果与列模式的字段数不一致
	ErrSchemaMismatch = errors.New("字段数量与列模式不匹配")
)

// MapRow 把一行按位置排列的原始值映射为规范记录
//
// 位置0为T日、位置1为代码，均强制保留为字符串；两者任一为空则拒绝。
// 位置2..34尝试数值解析，可解析保留为数字，否则保留为去空格后的字符串；
// 不足35个位置用 nil 补齐，多余位置忽略。
// 第36个字段为派生量比，用原始位置上未归一的源值计算。
func MapRow(raw []interface{}, s *schema.Schema) (model.Record, error) {
	date := cellString(at(raw, schema.DateIndex))
	code := cellString(at(raw, schema.CodeIndex))
	if date == "" || code == "" {
		return model.Record{}, ErrMissingKey
	}

	values := make([]interface{}, 0, s.Total())
	values = append(values, date, code)

	for i := 2; i < schema.DirectFieldCount; i++ {
		values = append(values, normalizeCell(at(raw, i)))
	}

	// 派生量比：直接取固定位置上的原始源值（可能是带中文单位的字符串），
	// 与位置20/21在输出里存成什么无关
	dividendRaw := cellString(at(raw, s.DividendField().Index))
	divisorRaw := cellString(at(raw, s.DivisorField().Index))
	if ratio, ok := normalize.ComputeRatio(dividendRaw, divisorRaw); ok {
		values = append(values, ratio)
	} else {
		values = append(values, nil)
	}

	if len(values) != s.Total() {
		return model.Record{}, fmt.Errorf("%w: 得到%d个字段, 期望%d个", ErrSchemaMismatch, len(values), s.Total())
	}

	return model.Record{Date: date, Code: code, Values: values}, nil
}

// MapKeyedRow 把一行按表头取值的数据映射为规范记录
// 表头可以是旧名或规范名，无法解析的表头忽略
func MapKeyedRow(row map[string]interface{}, s *schema.Schema) (model.Record, error) {
	positional := make([]interface{}, schema.DirectFieldCount)
	for header, value := range row {
		field, ok := s.Resolve(strings.TrimSpace(header))
		if !ok || field.Index >= schema.DirectFieldCount {
			continue
		}
		positional[field.Index] = value
	}
	return MapRow(positional, s)
}

// at 越界安全取值
func at(raw []interface{}, i int) interface{} {
	if i < 0 || i >= len(raw) {
		return nil
	}
	return raw[i]
}

// cellString 把单元格值统一为字符串；nil 视为空串
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// normalizeCell 普通字段的规范化：空值 -> nil，可解析的有限数字 -> float64，
// 其余 -> 去空格字符串
func normalizeCell(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return nil
		}
		if num, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(num, 0) {
			return num
		}
		return trimmed
	default:
		return fmt.Sprint(t)
	}
}
