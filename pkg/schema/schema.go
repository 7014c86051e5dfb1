package schema

// 列模式：stock_data 表的规范列定义。
// 进程启动时构造一次，作为只读句柄传给各组件，运行期不再变化。

// Field 描述一个规范字段
type Field struct {
	Name     string // 规范列名
	Index    int    // 在记录中的固定位置（从0开始）
	SQLType  string // TEXT 或 REAL
	Nullable bool
}

// 关键字段的固定位置
const (
	DateIndex = 0 // T日
	CodeIndex = 1 // 代码

	// DirectFieldCount 前端/表格直接提供的字段数
	DirectFieldCount = 35
	// TotalFieldCount 含派生字段在内的总字段数
	TotalFieldCount = 36
)

// canonicalNames 规范列名，顺序即存储顺序
var canonicalNames = []string{
	"T日",
	"代码",
	"股票",
	"现价_元",
	"T减1收盘价",
	"T减2的MA5",
	"T减2的MA10",
	"T减2的MA20",
	"T减1的MA5",
	"T减1的MA10",
	"T减1的MA20",
	"T的MA5",
	"T的MA10",
	"T的MA20",
	"T减1收盘价减MA5",
	"T减1涨幅",
	"T涨幅",
	"T最低价",
	"T最低价减MA5",
	"T减2成交量_股",
	"T减1成交量_股",
	"T成交量_股",
	"涨跌幅",
	"T减2的MA5减MA10",
	"T减1的MA5减MA10",
	"T的MA5减MA10",
	"T减2的MA10减MA20",
	"T减1的MA10减MA20",
	"T的MA10减MA20",
	"T减1开盘价",
	"T减1开盘价减MA5",
	"T减1成交量除T减2成交量",
	"T换手率",
	"T振幅",
	"T加1最大涨幅",
	"T成交量除T减1成交量",
}

// sqlTypes 各列的声明类型；成交量列保留原始字符串（可能带中文单位），故为 TEXT
var sqlTypes = map[string]string{
	"T日":            "TEXT",
	"代码":            "TEXT",
	"股票":            "TEXT",
	"现价_元":          "REAL",
	"T减1收盘价":        "REAL",
	"T减2的MA5":       "REAL",
	"T减2的MA10":      "REAL",
	"T减2的MA20":      "REAL",
	"T减1的MA5":       "REAL",
	"T减1的MA10":      "REAL",
	"T减1的MA20":      "REAL",
	"T的MA5":         "REAL",
	"T的MA10":        "REAL",
	"T的MA20":        "REAL",
	"T减1收盘价减MA5":    "REAL",
	"T减1涨幅":         "REAL",
	"T涨幅":           "REAL",
	"T最低价":          "REAL",
	"T最低价减MA5":      "REAL",
	"T减2成交量_股":      "TEXT",
	"T减1成交量_股":      "TEXT",
	"T成交量_股":        "TEXT",
	"涨跌幅":           "TEXT",
	"T减2的MA5减MA10":  "REAL",
	"T减1的MA5减MA10":  "REAL",
	"T的MA5减MA10":    "REAL",
	"T减2的MA10减MA20": "REAL",
	"T减1的MA10减MA20": "REAL",
	"T的MA10减MA20":   "REAL",
	"T减1开盘价":        "REAL",
	"T减1开盘价减MA5":    "REAL",
	"T减1成交量除T减2成交量": "REAL",
	"T换手率":          "REAL",
	"T振幅":           "REAL",
	"T加1最大涨幅":       "REAL",
	"T成交量除T减1成交量":   "REAL",
}

// legacyNames 旧表头到规范列名的映射
var legacyNames = map[string]string{
	"T日":              "T日",
	"代码":              "代码",
	"股票":              "股票",
	"现价_元":            "现价_元",
	"T_1收盘价":          "T减1收盘价",
	"T_2_MA5":         "T减2的MA5",
	"T_2_MA10":        "T减2的MA10",
	"T_2_MA20":        "T减2的MA20",
	"T_1_MA5":         "T减1的MA5",
	"T_1_MA10":        "T减1的MA10",
	"T_1_MA20":        "T减1的MA20",
	"T_MA5":           "T的MA5",
	"T_MA10":          "T的MA10",
	"T_MA20":          "T的MA20",
	"T_1收盘价_MA5":      "T减1收盘价减MA5",
	"T_1涨幅":           "T减1涨幅",
	"T涨幅":             "T涨幅",
	"T最低价":            "T最低价",
	"T最低价_MA5":        "T最低价减MA5",
	"T_2成交量_股":        "T减2成交量_股",
	"T_1成交量_股":        "T减1成交量_股",
	"T成交量_股":          "T成交量_股",
	"涨跌幅":             "涨跌幅",
	"T_2的MA5_MA10":    "T减2的MA5减MA10",
	"T_1的MA5_MA10":    "T减1的MA5减MA10",
	"T的MA5_MA10":      "T的MA5减MA10",
	"T_2的MA10_MA20":   "T减2的MA10减MA20",
	"T_1的MA10_MA20":   "T减1的MA10减MA20",
	"T的MA10_MA20":     "T的MA10减MA20",
	"T_1开盘价":          "T减1开盘价",
	"T_1的开盘价_MA5":     "T减1开盘价减MA5",
	"T_1成交量_T_2成交量":   "T减1成交量除T减2成交量",
	"T换手率":            "T换手率",
	"T振幅":             "T振幅",
	"T_1的最大涨幅":        "T加1最大涨幅",
	"T成交量_T_1成交量":     "T成交量除T减1成交量",
}

// Schema 规范列模式，构造后不可变
type Schema struct {
	fields []Field
	byName map[string]int
}

// New 构造列模式
func New() *Schema {
	s := &Schema{
		fields: make([]Field, 0, len(canonicalNames)),
		byName: make(map[string]int, len(canonicalNames)),
	}
	for i, name := range canonicalNames {
		s.fields = append(s.fields, Field{
			Name:     name,
			Index:    i,
			SQLType:  sqlTypes[name],
			Nullable: i != DateIndex && i != CodeIndex,
		})
		s.byName[name] = i
	}
	return s
}

// Total 总字段数
func (s *Schema) Total() int { return len(s.fields) }

// Fields 返回字段描述表的副本
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// ColumnNames 返回规范列名的副本，顺序固定
func (s *Schema) ColumnNames() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// FieldByName 按规范列名查找字段
func (s *Schema) FieldByName(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Resolve 将旧表头或规范表头解析为规范字段
func (s *Schema) Resolve(header string) (Field, bool) {
	if canonical, ok := legacyNames[header]; ok {
		return s.FieldByName(canonical)
	}
	return s.FieldByName(header)
}

// DividendField 派生比值的被除数字段（T成交量_股）
func (s *Schema) DividendField() Field {
	f, _ := s.FieldByName("T成交量_股")
	return f
}

// DivisorField 派生比值的除数字段（T减1成交量_股）
func (s *Schema) DivisorField() Field {
	f, _ := s.FieldByName("T减1成交量_股")
	return f
}

// DerivedField 派生的量比字段（T成交量除T减1成交量），入库前计算
func (s *Schema) DerivedField() Field {
	f, _ := s.FieldByName("T成交量除T减1成交量")
	return f
}
