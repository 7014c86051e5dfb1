package model

// KlineType K线周期类型
type KlineType string

const (
	KlineMinute KlineType = "minute"
	KlineDay    KlineType = "day"
	KlineWeek   KlineType = "week"
	KlineMonth  KlineType = "month"
)

// Valid 判断周期类型是否受支持
func (t KlineType) Valid() bool {
	switch t {
	case KlineMinute, KlineDay, KlineWeek, KlineMonth:
		return true
	}
	return false
}

// KlineBar 单根K线柱
type KlineBar struct {
	Timestamp int64   `json:"timestamp"` // 毫秒时间戳
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}
