package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 单元格值规范化：把半结构化来源（表格文本、电子表格单元格）里的
// 原始值转换为类型化标量。全部为无状态纯函数。

var (
	magnitudeRe   = regexp.MustCompile(`^([\d.]+)([万亿])?$`)
	stockCodeRe   = regexp.MustCompile(`\d{6}\.[A-Z]{2}`)
	leadingNumRe  = regexp.MustCompile(`^\d+\s*`)
	chineseDateRe = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日`)
	headerDateRe  = regexp.MustCompile(`(\d{4})[.\-](\d{1,2})[.\-](\d{1,2})`)
)

// ParseMagnitudeNumber 解析可能带中文数量单位的数字字符串
// 如 "509.87万" -> 5098700，"2.46亿" -> 246000000，"1,234.5" -> 1234.5
// 空串或无法解析时返回 ok=false
func ParseMagnitudeNumber(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}

	// 去掉千分位逗号
	cleaned := strings.ReplaceAll(trimmed, ",", "")

	m := magnitudeRe.FindStringSubmatch(cleaned)
	if m == nil {
		// 不是带单位的格式，尝试直接按浮点数解析
		num, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
			return 0, false
		}
		return num, true
	}

	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "万":
		return num * 10000, true
	case "亿":
		return num * 100000000, true
	}
	return num, true
}

// ComputeRatio 计算 T成交量 / T减1成交量
// 两个操作数先经过 ParseMagnitudeNumber 归一；任一解析失败或除数为0时返回 ok=false，
// 否则返回保留2位小数的商（四舍五入，远离零）
func ComputeRatio(dividendRaw, divisorRaw string) (float64, bool) {
	dividend, ok := ParseMagnitudeNumber(dividendRaw)
	if !ok {
		return 0, false
	}
	divisor, ok := ParseMagnitudeNumber(divisorRaw)
	if !ok || divisor == 0 {
		return 0, false
	}

	ratio := decimal.NewFromFloat(dividend).
		Div(decimal.NewFromFloat(divisor)).
		Round(2)
	return ratio.InexactFloat64(), true
}

// ParseCompositeNameCode 解析股票列，提取代码和名称
// 输入格式如 "2 富信科技688662.SH"，返回 code="688662.SH"，name="富信科技"
// 未匹配到代码时整个输入作为名称，code 为空
func ParseCompositeNameCode(s string) (code, name string) {
	if s == "" {
		return "", ""
	}

	loc := stockCodeRe.FindStringIndex(s)
	if loc == nil {
		return "", s
	}

	code = s[loc[0]:loc[1]]
	// 代码之前的部分作为名称，去掉开头的序号和空格
	name = strings.TrimSpace(s[:loc[0]])
	name = strings.TrimSpace(leadingNumRe.ReplaceAllString(name, ""))
	if name == "" {
		name = s
	}
	return code, name
}

// excelEpoch 电子表格纪元（1899-12-30，已吸收历史闰年bug的偏移）
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerialToDate 把 Excel 日期序列号转换为 YYYY-MM-DD
// 已经是格式化日期（含 / 或 -）的输入原样返回；无法解析的输入按原字符串返回
func ExcelSerialToDate(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "/") || strings.Contains(s, "-") {
		return s
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}

	days := math.Floor(serial)
	frac := time.Duration((serial - days) * 24 * float64(time.Hour))
	t := excelEpoch.AddDate(0, 0, int(days)-1).Add(frac)

	return t.Format("2006-01-02")
}

// ConvertChineseCalendarDate 把 "X月X日" 转换为 "当前年-MM-DD"，其他输入原样返回
func ConvertChineseCalendarDate(s string) string {
	m := chineseDateRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%d-%02d-%02d", time.Now().Year(), month, day)
}

// ParseDateFromHeader 从列头文本中提取日期
// 支持 YYYY.MM.DD / YYYY-MM-DD 以及 "X月X日" 两种形式，提取不到返回空串
func ParseDateFromHeader(s string) string {
	if s == "" {
		return ""
	}

	if m := headerDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%d-%02d-%02d", year, month, day)
	}

	if m := chineseDateRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%d-%02d-%02d", time.Now().Year(), month, day)
	}

	return ""
}
