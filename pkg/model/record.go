package model

// Record 一条规范化后的股票观测记录
// Values 与列模式的规范顺序对齐，共36个值；
// 每个值为 nil、float64 或 string（异构容忍，不强制类型）
type Record struct {
	Date   string        // T日，始终为字符串
	Code   string        // 代码，始终为字符串
	Values []interface{} // 按列模式顺序排列的全部字段值
}

// ImportResult 批量入库结果
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}
