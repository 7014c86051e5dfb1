package collector

import (
	"time"

	"StockDeck/pkg/model"
)

// 日K到周K/月K的聚合：开盘取周期首根、收盘取末根、
// 最高/最低取极值、成交量求和，时间戳取周期起点

// AggregateWeekly 把连续日K聚合为自然周K，周期键为周一
func AggregateWeekly(daily []model.KlineBar) []model.KlineBar {
	return aggregate(daily, weekStart)
}

// AggregateMonthly 把连续日K聚合为自然月K，周期键为月初
func AggregateMonthly(daily []model.KlineBar) []model.KlineBar {
	return aggregate(daily, monthStart)
}

// aggregate 按周期起点分组聚合，保持输入顺序
func aggregate(daily []model.KlineBar, periodStart func(time.Time) time.Time) []model.KlineBar {
	var out []model.KlineBar
	index := make(map[int64]int)

	for _, bar := range daily {
		start := periodStart(time.UnixMilli(bar.Timestamp).In(time.Local))
		key := start.UnixMilli()

		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, model.KlineBar{
				Timestamp: key,
				Open:      bar.Open,
				High:      bar.High,
				Low:       bar.Low,
				Close:     bar.Close,
				Volume:    bar.Volume,
			})
			continue
		}

		agg := &out[i]
		if bar.High > agg.High {
			agg.High = bar.High
		}
		if bar.Low < agg.Low {
			agg.Low = bar.Low
		}
		agg.Close = bar.Close
		agg.Volume += bar.Volume
	}
	return out
}

// weekStart 所在ISO周的周一零点
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// monthStart 所在自然月的月初零点
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
