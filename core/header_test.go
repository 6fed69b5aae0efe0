package core

import (
	"testing"

	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
	"github.com/xuri/excelize/v2"
)

func TestLocateHeader(t *testing.T) {
	wb, _ := newTestWorkbook(t)
	h := &config.DefaultReportConfig().Header

	tests := []struct {
		sheet     string
		wantRow   int
		wantFound bool
	}{
		{sheet: testMeals, wantRow: 4, wantFound: true},
		{sheet: testTransport, wantRow: 2, wantFound: true},
		{sheet: testSummary, wantRow: h.FallbackRow, wantFound: false},
	}
	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			row, found, err := LocateHeader(wb, tt.sheet, h)
			if err != nil {
				t.Fatalf("LocateHeader() error = %v", err)
			}
			if row != tt.wantRow || found != tt.wantFound {
				t.Errorf("LocateHeader() = (%d, %v), want (%d, %v)", row, found, tt.wantRow, tt.wantFound)
			}
		})
	}
}

func TestLocateHeader_ScanLimit(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A8", "DATE"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B8", "AMOUNT"); err != nil {
		t.Fatal(err)
	}
	wb := openBytes(t, fileBytes(t, f))

	h := config.DefaultReportConfig().Header
	h.ScanLimit = 5
	if _, found, _ := LocateHeader(wb, "Sheet1", &h); found {
		t.Errorf("header below the scan limit was found")
	}
	h.ScanLimit = 8
	if row, found, _ := LocateHeader(wb, "Sheet1", &h); !found || row != 8 {
		t.Errorf("LocateHeader() = (%d, %v), want (8, true)", row, found)
	}
}

func TestMapColumns(t *testing.T) {
	h := &config.DefaultReportConfig().Header

	tests := []struct {
		name    string
		headers []string
		want    ColumnMap
	}{
		{
			name:    "turkish headers",
			headers: []string{"TARİH", "FİŞ NO", "TUTAR", "AÇIKLAMA", "KDV"},
			want:    ColumnMap{Date: 1, ReceiptNo: 2, Amount: 3, Description: 4},
		},
		{
			name:    "english headers in another order",
			headers: []string{"DESCRIPTION", "DATE", "AMOUNT", "RECEIPT NO"},
			want:    ColumnMap{Date: 2, ReceiptNo: 4, Amount: 3, Description: 1},
		},
		{
			name:    "exact total beats containing total",
			headers: []string{"GÜN", "KDV TUTARI", "ARA TOPLAM", "TOPLAM", "NOT"},
			want:    ColumnMap{Date: 1, Amount: 4, Description: 5},
		},
		{
			name:    "containing total beats plain amount",
			headers: []string{"TARİHİ", "TUTAR", "GENEL TOPLAM", "AÇIKLAMA"},
			want:    ColumnMap{Date: 1, Amount: 3, Description: 4},
		},
		{
			name:    "leftmost wins within a rank",
			headers: []string{"DATE", "AMOUNT", "TUTAR"},
			want:    ColumnMap{Date: 1, Amount: 2, Description: h.FallbackDescriptionColumn},
		},
		{
			name:    "document without number is not a receipt",
			headers: []string{"TARİH", "BELGE", "TUTAR"},
			want:    ColumnMap{Date: 1, Amount: 3, Description: h.FallbackDescriptionColumn},
		},
		{
			name:    "nothing recognized falls back",
			headers: []string{"X", "Y"},
			want:    ColumnMap{Date: h.FallbackDateColumn, Amount: h.FallbackAmountColumn, Description: h.FallbackDescriptionColumn},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			for i, text := range tt.headers {
				cell, _ := excelize.CoordinatesToCellName(i+1, 3)
				if err := f.SetCellValue("Sheet1", cell, text); err != nil {
					t.Fatal(err)
				}
			}
			wb := openBytes(t, fileBytes(t, f))
			if got := MapColumns(wb, "Sheet1", 3, h); got != tt.want {
				t.Errorf("MapColumns() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
