package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"StockDeck/pkg/model"
)

// K线行情客户端：从外部行情源拉取分时/日K数据并整形，
// 周K/月K由日K在服务端聚合得到

// ErrBadStockCode 股票代码格式不正确
var ErrBadStockCode = errors.New("股票代码格式不正确")

var (
	prefixedCodeRe = regexp.MustCompile(`^(?i)(sh|sz|bj)\d{6}$`)
	bareCodeRe     = regexp.MustCompile(`^\d{6}$`)
	dottedCodeRe   = regexp.MustCompile(`^(\d{6})\.(?i)(SH|SZ|BJ)$`)
)

// KlineClient K线行情API客户端
type KlineClient struct {
	BaseURL string
	Client  *http.Client
}

// NewKlineClient 创建新的K线行情客户端
func NewKlineClient(baseURL string, timeout time.Duration) *KlineClient {
	return &KlineClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NormalizeCode 把各种写法的股票代码归一为行情源使用的形式（如 sh600000）
// 支持 600000、sh600000、600000.SH 三种写法；6位纯数字按首位推断交易所
func NormalizeCode(code string) (string, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	if code == "" {
		return "", ErrBadStockCode
	}

	if prefixedCodeRe.MatchString(code) {
		return strings.ToLower(code), nil
	}

	if bareCodeRe.MatchString(code) {
		switch code[0] {
		case '6', '9':
			return "sh" + code, nil
		case '0', '3':
			return "sz" + code, nil
		case '8', '4':
			return "bj" + code, nil
		}
		return "sh" + code, nil
	}

	if m := dottedCodeRe.FindStringSubmatch(code); m != nil {
		return strings.ToLower(m[2]) + m[1], nil
	}

	return "", ErrBadStockCode
}

// FetchKline 获取指定周期的K线数据
// 周K/月K先取日K再按自然周/自然月聚合
func (c *KlineClient) FetchKline(ctx context.Context, code string, typ model.KlineType) ([]model.KlineBar, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	switch typ {
	case model.KlineMinute:
		return c.fetchMinute(ctx, normalized)
	case model.KlineDay:
		return c.fetchDaily(ctx, normalized)
	case model.KlineWeek:
		bars, err := c.fetchDaily(ctx, normalized)
		if err != nil {
			return nil, err
		}
		return AggregateWeekly(bars), nil
	case model.KlineMonth:
		bars, err := c.fetchDaily(ctx, normalized)
		if err != nil {
			return nil, err
		}
		return AggregateMonthly(bars), nil
	}
	return nil, fmt.Errorf("不支持的K线类型: %s", typ)
}

// dailyResponse 日K接口响应
// data[代码] 下的 qfqday（前复权）或 day 为二维数组，
// 每项依次为 [日期, 开盘, 收盘, 最高, 最低, 成交量]
type dailyResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data map[string]struct {
		Qfqday [][]interface{} `json:"qfqday"`
		Day    [][]interface{} `json:"day"`
	} `json:"data"`
}

// fetchDaily 获取日K数据
func (c *KlineClient) fetchDaily(ctx context.Context, code string) ([]model.KlineBar, error) {
	url := fmt.Sprintf("%s/appstock/app/fqkline/get?param=%s,day,,,320,qfq", c.BaseURL, code)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp dailyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("解析日K响应失败: %w", err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("行情源返回错误: %s", resp.Msg)
	}

	entry, ok := resp.Data[code]
	if !ok {
		return nil, fmt.Errorf("行情源未返回代码 %s 的数据", code)
	}

	items := entry.Qfqday
	if len(items) == 0 {
		items = entry.Day
	}

	bars := make([]model.KlineBar, 0, len(items))
	for _, item := range items {
		if len(item) < 6 {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", toString(item[0]), time.Local)
		if err != nil {
			continue
		}
		bars = append(bars, model.KlineBar{
			Timestamp: day.UnixMilli(),
			Open:      toFloat(item[1]),
			Close:     toFloat(item[2]),
			High:      toFloat(item[3]),
			Low:       toFloat(item[4]),
			Volume:    toFloat(item[5]),
		})
	}
	return bars, nil
}

// minuteResponse 分时接口响应
// data[代码].data.date 为交易日，data 为 "HHMM 价格 累计量" 的字符串数组
type minuteResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data map[string]struct {
		Data struct {
			Date string   `json:"date"`
			Data []string `json:"data"`
		} `json:"data"`
	} `json:"data"`
}

// fetchMinute 获取当日分时数据
func (c *KlineClient) fetchMinute(ctx context.Context, code string) ([]model.KlineBar, error) {
	url := fmt.Sprintf("%s/appstock/app/minute/query?code=%s", c.BaseURL, code)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp minuteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("解析分时响应失败: %w", err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("行情源返回错误: %s", resp.Msg)
	}

	entry, ok := resp.Data[code]
	if !ok {
		return nil, fmt.Errorf("行情源未返回代码 %s 的数据", code)
	}

	date := entry.Data.Date
	bars := make([]model.KlineBar, 0, len(entry.Data.Data))
	prevVolume := 0.0
	for _, line := range entry.Data.Data {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ts, err := time.ParseInLocation("20060102 1504", date+" "+fields[0], time.Local)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		// 第三列为累计成交量，差分得到单分钟量
		volume := 0.0
		if len(fields) >= 3 {
			if total, err := strconv.ParseFloat(fields[2], 64); err == nil {
				volume = total - prevVolume
				if volume < 0 {
					volume = 0
				}
				prevVolume = total
			}
		}
		bars = append(bars, model.KlineBar{
			Timestamp: ts.UnixMilli(),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    volume,
		})
	}
	return bars, nil
}

func (c *KlineClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("执行HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("行情源返回非200状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}
	return body, nil
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		return 0
	}
}
