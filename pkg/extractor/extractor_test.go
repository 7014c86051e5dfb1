package extractor

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestExtractNoTable(t *testing.T) {
	if _, err := Extract("<div>没有表格</div>"); !errors.Is(err, ErrNoTable) {
		t.Errorf("error = %v, want ErrNoTable", err)
	}
}

func TestExtractEmptyTable(t *testing.T) {
	html := `<table><tr><td>  </td><td></td></tr></table>`
	if _, err := Extract(html); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("error = %v, want ErrEmptyTable", err)
	}
}

func TestExtractCellTextNormalization(t *testing.T) {
	html := `<table>
		<tr><td>日期</td><td>  富信
		科技  </td></tr>
		<tr><td>2025-09-08</td><td data-value="42"></td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}

	rows := tables[0].Rows
	if rows[0][1] != "富信 科技" {
		t.Errorf("内部空白应折叠为单个空格, got %q", rows[0][1])
	}
	if rows[1][1] != "42" {
		t.Errorf("空单元格应回退到 data-value, got %q", rows[1][1])
	}
}

func TestExtractDropsConfiguredColumns(t *testing.T) {
	html := `<table>
		<tr><td>日期</td><td>所属概念</td><td>价格</td><td>股票市场类型</td></tr>
		<tr><td>2025-09-08</td><td>半导体</td><td>10.5</td><td>科创板</td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := [][]string{
		{"日期", "价格"},
		{"2025-09-08", "10.5"},
	}
	if !reflect.DeepEqual(tables[0].Rows, want) {
		t.Errorf("rows = %v, want %v", tables[0].Rows, want)
	}
}

func TestExtractInsertsCodeColumn(t *testing.T) {
	html := `<table>
		<tr><th>日期</th><th>股票</th><th>价格</th></tr>
		<tr><td>9月8日</td><td>2 富信科技688662.SH</td><td>10.5</td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	wantDate := fmt.Sprintf("%d-09-08", time.Now().Year())
	want := [][]string{
		{"日期", "代码", "股票", "价格"},
		{wantDate, "688662.SH", "富信科技", "10.5"},
	}
	if !reflect.DeepEqual(tables[0].Rows, want) {
		t.Errorf("rows = %v, want %v", tables[0].Rows, want)
	}
	if tables[0].Merged {
		t.Error("single table must not be marked merged")
	}
}

func TestExtractReusesExistingCodeColumn(t *testing.T) {
	html := `<table>
		<tr><td>T日</td><td>代码</td><td>股票</td></tr>
		<tr><td>2025-09-08</td><td>-</td><td>富信科技688662.SH</td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	row := tables[0].Rows[1]
	// 列数不变，代码写入已有的列
	if len(row) != 3 {
		t.Fatalf("len(row) = %d, want 3", len(row))
	}
	if row[1] != "688662.SH" || row[2] != "富信科技" {
		t.Errorf("row = %v, want code/name split in place", row)
	}
}

func TestExtractDecorationSkippedWithoutStockColumn(t *testing.T) {
	html := `<table>
		<tr><td>日期</td><td>价格</td></tr>
		<tr><td>2025-09-08</td><td>10.5</td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := [][]string{
		{"日期", "价格"},
		{"2025-09-08", "10.5"},
	}
	if !reflect.DeepEqual(tables[0].Rows, want) {
		t.Errorf("rows = %v, want untouched %v", tables[0].Rows, want)
	}
}

func TestExtractMergesTwoTables(t *testing.T) {
	html := `
	<table>
		<tr><td>股票</td><td>现价</td><td>2025.09.08涨幅</td><td>所属概念</td></tr>
		<tr><td>富信科技688662.SH</td><td>10.5</td><td>5.00%</td><td>半导体</td></tr>
	</table>
	<table>
		<tr><td>排名</td></tr>
		<tr><td>1</td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("恰好两张表应合并为一张, got %d", len(tables))
	}
	if !tables[0].Merged || tables[0].Index != 1 {
		t.Errorf("table meta = %+v, want merged index 1", tables[0])
	}

	// 合并后: 日期列来自表1表头倒数第二列，表2整行拼接为第二列，
	// 再经过列过滤（所属概念）和股票列装饰（插入代码列）
	want := [][]string{
		{"日期", "代码", "排名", "股票", "现价", "2025.09.08涨幅"},
		{"2025-09-08", "688662.SH", "1", "富信科技", "10.5", "5.00%"},
	}
	if !reflect.DeepEqual(tables[0].Rows, want) {
		t.Errorf("rows = %v\nwant  %v", tables[0].Rows, want)
	}
}

func TestExtractMergeJoinsSecondTableCells(t *testing.T) {
	html := `
	<table>
		<tr><td>名称</td><td>2025-09-08</td><td>备注</td></tr>
		<tr><td>甲</td><td>1</td><td>x</td></tr>
	</table>
	<table>
		<tr><td>序号</td><td></td><td>分组</td></tr>
		<tr><td>1</td><td>  </td><td>A组</td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	rows := tables[0].Rows
	// 非空单元格用空格连接，空白单元格被丢弃
	if rows[0][1] != "序号 分组" {
		t.Errorf("joined header cell = %q, want %q", rows[0][1], "序号 分组")
	}
	if rows[1][1] != "1 A组" {
		t.Errorf("joined data cell = %q, want %q", rows[1][1], "1 A组")
	}
	if rows[1][0] != "2025-09-08" {
		t.Errorf("date column = %q, want %q", rows[1][0], "2025-09-08")
	}
}

func TestExtractMultipleTablesKeptSeparate(t *testing.T) {
	html := `
	<table><tr><td>a</td></tr></table>
	<table><tr><td>b</td></tr></table>
	<table><tr><td>c</td></tr></table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(tables) != 3 {
		t.Fatalf("got %d tables, want 3", len(tables))
	}
	for i, table := range tables {
		if table.Index != i+1 {
			t.Errorf("tables[%d].Index = %d, want %d", i, table.Index, i+1)
		}
		if table.Merged {
			t.Errorf("tables[%d] wrongly marked merged", i)
		}
	}
}

func TestExtractSkipsEmptyRows(t *testing.T) {
	html := `<table>
		<tr><td>日期</td><td>价格</td></tr>
		<tr><td></td><td>  </td></tr>
		<tr><td>2025-09-08</td><td>10.5</td></tr>
	</table>`

	tables, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(tables[0].Rows) != 2 {
		t.Errorf("got %d rows, want 2 (empty row dropped)", len(tables[0].Rows))
	}
}
