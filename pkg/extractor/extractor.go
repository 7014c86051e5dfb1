package extractor

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"StockDeck/pkg/normalize"
)

// HTML 表格提取器：把粘贴的 HTML 解析为行数组，
// 经过列过滤、双表合并、股票列装饰、日期归一四个阶段。
// 每个阶段都返回新的行结构，不原地修改上一阶段的结果。

var (
	// ErrNoTable 输入里没有任何表格元素
	ErrNoTable = errors.New("未找到表格数据")
	// ErrEmptyTable 表格里没有任何非空行
	ErrEmptyTable = errors.New("表格中没有有效数据")
)

// DefaultDropColumns 按表头精确匹配整列删除的标签
var DefaultDropColumns = []string{"所属概念", "股票市场类型"}

// Table 一张提取出的表格
type Table struct {
	Index  int        `json:"index"`
	Rows   [][]string `json:"rows"`
	Merged bool       `json:"merged"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extract 解析 HTML 并提取所有表格
//
// 恰好两张表时，把第二张表作为首列并入第一张表（见 merge）；
// 其余情况各表独立返回。所有表都会经过列过滤和股票列装饰。
func Extract(html string) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, ErrNoTable
	}

	var raw [][][]string
	tables.Each(func(_ int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			hasContent := false
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				text := cellText(cell)
				if text != "" {
					hasContent = true
				}
				cells = append(cells, text)
			})
			// 跳过完全为空的行
			if len(cells) > 0 && hasContent {
				rows = append(rows, cells)
			}
		})
		if len(rows) > 0 {
			raw = append(raw, rows)
		}
	})

	if len(raw) == 0 {
		return nil, ErrEmptyTable
	}

	// 恰好两张表：表2作为首列并入表1
	if len(raw) == 2 {
		merged := merge(raw[0], raw[1])
		merged = filterColumns(merged, DefaultDropColumns)
		merged = decorateStockColumn(merged)
		return []Table{{Index: 1, Rows: merged, Merged: true}}, nil
	}

	out := make([]Table, 0, len(raw))
	for i, rows := range raw {
		rows = filterColumns(rows, DefaultDropColumns)
		rows = decorateStockColumn(rows)
		if len(rows) == 0 {
			continue
		}
		out = append(out, Table{Index: i + 1, Rows: rows})
	}
	return out, nil
}

// cellText 取单元格文本：去首尾空白、内部空白折叠为单个空格；
// 文本为空时回退到 data-value / value 属性
func cellText(cell *goquery.Selection) string {
	text := strings.TrimSpace(cell.Text())
	text = whitespaceRe.ReplaceAllString(text, " ")
	if text == "" {
		if v, ok := cell.Attr("data-value"); ok && v != "" {
			return v
		}
		if v, ok := cell.Attr("value"); ok && v != "" {
			return v
		}
	}
	return text
}

// merge 把表2作为首列并入表1
//
// 合并行为 [日期列, 表2整行拼接, 表1整行...]。
// 数据行的日期取自表1表头倒数第二列里的日期文本，表头行固定写"日期"。
func merge(table1, table2 [][]string) [][]string {
	dateValue := ""
	if len(table1) > 0 && len(table1[0]) >= 2 {
		headerText := table1[0][len(table1[0])-2]
		dateValue = normalize.ParseDateFromHeader(headerText)
	}

	maxRows := len(table1)
	if len(table2) > maxRows {
		maxRows = len(table2)
	}

	merged := make([][]string, 0, maxRows)
	for i := 0; i < maxRows; i++ {
		// 表2对应行的所有非空单元格用空格连接
		joined := ""
		if i < len(table2) {
			var parts []string
			for _, cell := range table2[i] {
				if strings.TrimSpace(cell) != "" {
					parts = append(parts, cell)
				}
			}
			joined = strings.TrimSpace(strings.Join(parts, " "))
		}

		dateColumn := dateValue
		if i == 0 {
			dateColumn = "日期"
		}

		row := make([]string, 0, 2)
		row = append(row, dateColumn, joined)
		if i < len(table1) {
			row = append(row, table1[i]...)
		}
		merged = append(merged, row)
	}
	return merged
}

// filterColumns 删除表头等于删除标签的整列
func filterColumns(rows [][]string, dropLabels []string) [][]string {
	if len(rows) == 0 {
		return rows
	}

	drop := make(map[int]bool)
	for i, cell := range rows[0] {
		for _, label := range dropLabels {
			if strings.TrimSpace(cell) == label {
				drop[i] = true
			}
		}
	}
	if len(drop) == 0 {
		return rows
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		newRow := make([]string, 0, len(row))
		for i, cell := range row {
			if drop[i] {
				continue
			}
			newRow = append(newRow, cell)
		}
		out = append(out, newRow)
	}
	return out
}

// decorateStockColumn 股票列装饰
//
// 定位"股票"列和日期列（"T日"或"日期"）；在日期列后插入（或复用已有的）
// "代码"列；每个数据行的股票单元格拆成名称+代码分别写回；
// 日期列的中文日期独立做一次归一。找不到两列之一时原样返回。
func decorateStockColumn(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}

	header := rows[0]
	dateIdx := findHeader(header, "T日", "日期")
	stockIdx := findHeader(header, "股票")
	if dateIdx == -1 || stockIdx == -1 {
		return rows
	}

	codeIdx := findHeader(header, "代码")
	if codeIdx != -1 {
		// 代码列已存在，只更新值
		out := make([][]string, 0, len(rows))
		out = append(out, cloneRow(header))
		for _, row := range rows[1:] {
			newRow := cloneRow(row)
			stockValue := cellAt(newRow, stockIdx)
			code, name := normalize.ParseCompositeNameCode(stockValue)
			setCell(newRow, codeIdx, code)
			setCell(newRow, stockIdx, name)
			if dateIdx < len(newRow) {
				newRow[dateIdx] = normalize.ConvertChineseCalendarDate(newRow[dateIdx])
			}
			out = append(out, newRow)
		}
		return out
	}

	// 在日期列后插入新的代码列
	codeIdx = dateIdx + 1
	newStockIdx := stockIdx
	if stockIdx >= codeIdx {
		newStockIdx = stockIdx + 1
	}
	newDateIdx := dateIdx
	if dateIdx >= codeIdx {
		newDateIdx = dateIdx + 1
	}

	out := make([][]string, 0, len(rows))
	out = append(out, insertCell(header, codeIdx, "代码"))
	for _, row := range rows[1:] {
		// 插入前先取原始索引上的股票值
		stockValue := cellAt(row, stockIdx)
		code, name := normalize.ParseCompositeNameCode(stockValue)

		newRow := insertCell(row, codeIdx, code)
		setCell(newRow, newStockIdx, name)
		if newDateIdx < len(newRow) {
			newRow[newDateIdx] = normalize.ConvertChineseCalendarDate(newRow[newDateIdx])
		}
		out = append(out, newRow)
	}
	return out
}

func findHeader(header []string, labels ...string) int {
	for i, cell := range header {
		trimmed := strings.TrimSpace(cell)
		for _, label := range labels {
			if trimmed == label {
				return i
			}
		}
	}
	return -1
}

func cloneRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}

// insertCell 在 idx 处插入一个单元格并返回新行；idx 超出行长时追加到末尾
func insertCell(row []string, idx int, value string) []string {
	if idx > len(row) {
		idx = len(row)
	}
	out := make([]string, 0, len(row)+1)
	out = append(out, row[:idx]...)
	out = append(out, value)
	out = append(out, row[idx:]...)
	return out
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func setCell(row []string, idx int, value string) {
	if idx >= 0 && idx < len(row) {
		row[idx] = value
	}
}
