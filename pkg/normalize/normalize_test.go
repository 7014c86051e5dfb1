package normalize

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestParseMagnitudeNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"万 suffix", "509.87万", 5098700, true},
		{"亿 suffix", "2.46亿", 246000000, true},
		{"comma separated", "1,234.5", 1234.5, true},
		{"plain number", "123", 123, true},
		{"plain float", "12.5", 12.5, true},
		{"negative via fallback", "-5", -5, true},
		{"whitespace around", " 45万 ", 450000, true},
		{"empty", "", 0, false},
		{"spaces only", "   ", 0, false},
		{"garbage", "abc", 0, false},
		{"unit only", "万", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMagnitudeNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseMagnitudeNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !almostEqual(got, tt.want) {
				t.Errorf("ParseMagnitudeNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestComputeRatio(t *testing.T) {
	tests := []struct {
		name        string
		dividend    string
		divisor     string
		want        float64
		ok          bool
	}{
		{"both with units", "100万", "50万", 2, true},
		{"mixed units", "2亿", "100万", 200, true},
		{"rounded to 2 decimals", "1", "3", 0.33, true},
		{"half away from zero", "1.115", "1", 1.12, true},
		{"zero divisor", "100万", "0万", 0, false},
		{"empty divisor", "100万", "", 0, false},
		{"empty dividend", "", "50万", 0, false},
		{"garbage dividend", "abc", "50万", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeRatio(tt.dividend, tt.divisor)
			if ok != tt.ok {
				t.Fatalf("ComputeRatio(%q, %q) ok = %v, want %v", tt.dividend, tt.divisor, ok, tt.ok)
			}
			if ok && !almostEqual(got, tt.want) {
				t.Errorf("ComputeRatio(%q, %q) = %v, want %v", tt.dividend, tt.divisor, got, tt.want)
			}
		})
	}
}

func TestParseCompositeNameCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantName string
	}{
		{"ordinal prefix", "2 富信科技688662.SH", "688662.SH", "富信科技"},
		{"no ordinal", "富信科技688662.SH", "688662.SH", "富信科技"},
		{"no code", "无代码的名字", "", "无代码的名字"},
		{"code only falls back to input", "600000.SH", "600000.SH", "600000.SH"},
		{"multiple spaces", "12  平安银行000001.SZ", "000001.SZ", "平安银行"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, name := ParseCompositeNameCode(tt.input)
			if code != tt.wantCode || name != tt.wantName {
				t.Errorf("ParseCompositeNameCode(%q) = (%q, %q), want (%q, %q)",
					tt.input, code, name, tt.wantCode, tt.wantName)
			}
		})
	}
}

func TestExcelSerialToDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dash date is identity", "2024-01-02", "2024-01-02"},
		{"slash date is identity", "2024/1/2", "2024/1/2"},
		{"unparseable returned as-is", "abc", "abc"},
		{"empty", "", ""},
		// 45292 是 2024-01-01 的序列号；纪元已含一天的历史偏移
		{"serial number", "45292", "2023-12-31"},
		{"serial with fraction", "45292.5", "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExcelSerialToDate(tt.input); got != tt.want {
				t.Errorf("ExcelSerialToDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvertChineseCalendarDate(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		input string
		want  string
	}{
		{"9月8日", fmt.Sprintf("%d-09-08", year)},
		{"12月31日", fmt.Sprintf("%d-12-31", year)},
		{"2025-09-08", "2025-09-08"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ConvertChineseCalendarDate(tt.input); got != tt.want {
			t.Errorf("ConvertChineseCalendarDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDateFromHeader(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		input string
		want  string
	}{
		{"涨幅 2025.09.08", "2025-09-08"},
		{"2025-9-8", "2025-09-08"},
		{"9月8日涨幅", fmt.Sprintf("%d-09-08", year)},
		{"no date here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ParseDateFromHeader(tt.input); got != tt.want {
			t.Errorf("ParseDateFromHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
