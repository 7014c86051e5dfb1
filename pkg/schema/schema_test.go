package schema

import (
	"testing"
)

func TestSchemaShape(t *testing.T) {
	s := New()

	if s.Total() != TotalFieldCount {
		t.Fatalf("Total() = %d, want %d", s.Total(), TotalFieldCount)
	}

	names := s.ColumnNames()
	if len(names) != TotalFieldCount {
		t.Fatalf("ColumnNames() has %d entries, want %d", len(names), TotalFieldCount)
	}
	if names[DateIndex] != "T日" {
		t.Errorf("column %d = %q, want T日", DateIndex, names[DateIndex])
	}
	if names[CodeIndex] != "代码" {
		t.Errorf("column %d = %q, want 代码", CodeIndex, names[CodeIndex])
	}
	if names[TotalFieldCount-1] != "T成交量除T减1成交量" {
		t.Errorf("last column = %q, want T成交量除T减1成交量", names[TotalFieldCount-1])
	}
}

func TestFieldTypes(t *testing.T) {
	s := New()

	tests := []struct {
		name    string
		sqlType string
	}{
		{"T日", "TEXT"},
		{"代码", "TEXT"},
		{"现价_元", "REAL"},
		{"T成交量_股", "TEXT"},
		{"T成交量除T减1成交量", "REAL"},
	}

	for _, tt := range tests {
		f, ok := s.FieldByName(tt.name)
		if !ok {
			t.Errorf("FieldByName(%q) not found", tt.name)
			continue
		}
		if f.SQLType != tt.sqlType {
			t.Errorf("%q SQLType = %q, want %q", tt.name, f.SQLType, tt.sqlType)
		}
	}

	for _, f := range s.Fields() {
		nullable := f.Index != DateIndex && f.Index != CodeIndex
		if f.Nullable != nullable {
			t.Errorf("%q Nullable = %v, want %v", f.Name, f.Nullable, nullable)
		}
	}
}

func TestResolveLegacyHeaders(t *testing.T) {
	s := New()

	tests := []struct {
		header    string
		wantName  string
		wantIndex int
	}{
		{"T日", "T日", 0},
		{"T_1收盘价", "T减1收盘价", 4},
		{"T_2_MA5", "T减2的MA5", 5},
		{"T成交量_T_1成交量", "T成交量除T减1成交量", 35},
		{"T减1涨幅", "T减1涨幅", 15},
	}

	for _, tt := range tests {
		f, ok := s.Resolve(tt.header)
		if !ok {
			t.Errorf("Resolve(%q) not found", tt.header)
			continue
		}
		if f.Name != tt.wantName || f.Index != tt.wantIndex {
			t.Errorf("Resolve(%q) = (%q, %d), want (%q, %d)",
				tt.header, f.Name, f.Index, tt.wantName, tt.wantIndex)
		}
	}

	if _, ok := s.Resolve("不存在的列"); ok {
		t.Error("Resolve of unknown header should fail")
	}
}

func TestDerivedFieldLookups(t *testing.T) {
	s := New()

	if f := s.DividendField(); f.Name != "T成交量_股" || f.Index != 21 {
		t.Errorf("DividendField() = (%q, %d), want (T成交量_股, 21)", f.Name, f.Index)
	}
	if f := s.DivisorField(); f.Name != "T减1成交量_股" || f.Index != 20 {
		t.Errorf("DivisorField() = (%q, %d), want (T减1成交量_股, 20)", f.Name, f.Index)
	}
	if f := s.DerivedField(); f.Name != "T成交量除T减1成交量" || f.Index != 35 {
		t.Errorf("DerivedField() = (%q, %d), want (T成交量除T减1成交量, 35)", f.Name, f.Index)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := New()

	names := s.ColumnNames()
	names[0] = "篡改"
	if s.ColumnNames()[0] != "T日" {
		t.Error("mutating ColumnNames() result must not affect the schema")
	}

	fields := s.Fields()
	fields[0].Name = "篡改"
	if s.Fields()[0].Name != "T日" {
		t.Error("mutating Fields() result must not affect the schema")
	}
}
