package config

// DefaultReportConfig returns the contract of the stock reconciliation template.
// YAML files are decoded on top of it, so a file only names what it changes.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Name:      "hesap-kapama",
		Template:  "templates/hesap_kapama.xlsx",
		OutputDir: "output",
		Filename:  "${project}_hesap_kapama_${date}.xlsx",
		Parameters: map[string]string{
			"date": "$date:compact:day:0",
		},
		Summary: SummaryConfig{
			Sheet: SheetSummary,
			Anchors: AnchorConfig{
				ProjectName: "C3",
				GeneratedAt: "C4",
				Reporter:    "C5",
			},
		},
		Received: TableConfig{
			Name:             "advances received",
			Sheet:            SheetSummary,
			StartRow:         28,
			Capacity:         5,
			FallbackTotalRow: 33,
			LabelColumn:      "A",
			AmountColumn:     "B",
			Bounded:          true,
			OtherLabel:       "Other",
			UnnamedLabel:     "Unnamed",
		},
		Given: TableConfig{
			Name:             "advances given",
			Sheet:            SheetAdvancesGiven,
			StartRow:         6,
			FallbackTotalRow: 16,
			TotalMarker:      "TOTAL",
			LabelColumn:      "A",
			AmountColumn:     "B",
			UnnamedLabel:     "Unnamed",
			Dependents: []DependentFormulaConfig{
				{Sheet: SheetAdvancesGiven, Cell: "E3", Formula: "B${total_row}"},
				{Sheet: SheetSummary, Cell: "B36", Formula: "'" + SheetAdvancesGiven + "'!B${total_row}"},
				{Sheet: SheetSummary, Cell: "B38", Formula: "B33-B36"},
				{Sheet: SheetSummary, Cell: "B41", Formula: "B40+B36"},
			},
		},
		Header: HeaderConfig{
			ScanLimit:         140,
			FallbackRow:       5,
			DateTokens:        []string{"DAY", "DATE", "TARIH", "TARIHI", "GUN", "GUNU"},
			DocumentTokens:    []string{"RECEIPT", "DOCUMENT", "DOC", "VOUCHER", "INVOICE", "BELGE", "FIS", "FATURA", "SIRA"},
			NumberTokens:      []string{"NO", "NUMBER", "NUM", "NUMARA", "NUMARASI", "NR"},
			AmountTokens:      []string{"TOTAL", "TOPLAM", "TUTAR", "AMOUNT"},
			PreferredAmount:   []string{"TOTAL", "TOPLAM"},
			DescriptionTokens: []string{"DESCRIPTION", "NOTE", "NOTES", "ACIKLAMA", "NOT"},
			TotalMarkers:      []string{"TOTAL", "TOPLAM", "GENEL TOPLAM", "GRAND TOTAL"},

			FallbackDateColumn:        1,
			FallbackAmountColumn:      3,
			FallbackDescriptionColumn: 4,
		},
		Categories: []CategoryConfig{
			{Name: "MEALS", Sheet: "MEALS", Aliases: []string{"MEAL", "FOOD", "CATERING", "YEMEK", "YEMEK GİDERLERİ", "YEMEK GIDERLERI"}},
			{Name: "TRANSPORT", Sheet: "TRANSPORT", Aliases: []string{"TRANSPORTATION", "TRAVEL", "ULAŞIM", "ULASIM", "YOL"}},
			{Name: "ACCOMMODATION", Sheet: "ACCOMMODATION", Aliases: []string{"HOTEL", "LODGING", "KONAKLAMA", "OTEL"}},
			{Name: "EQUIPMENT", Sheet: "EQUIPMENT", Aliases: []string{"GEAR", "RENTAL", "EKİPMAN", "EKIPMAN", "KİRALAMA", "KIRALAMA"}},
			{Name: "LOCATION", Sheet: "LOCATION", Aliases: []string{"LOCATIONS", "SET", "MEKAN", "MEKÂN", "LOKASYON"}},
			{Name: "COSTUME", Sheet: "COSTUME", Aliases: []string{"WARDROBE", "COSTUMES", "KOSTÜM", "KOSTUM"}},
			{Name: "ART", Sheet: "ART", Aliases: []string{"ART DEPARTMENT", "PROPS", "SANAT", "AKSESUAR"}},
			{Name: "CREW", Sheet: "CREW", Aliases: []string{"STAFF", "PERSONNEL", "EKİP", "EKIP", "PERSONEL"}},
			{Name: "FUEL", Sheet: "FUEL", Aliases: []string{"GAS", "PETROL", "YAKIT", "AKARYAKIT"}},
			{Name: "COMMUNICATION", Sheet: "COMMUNICATION", Aliases: []string{"PHONE", "INTERNET", "İLETİŞİM", "ILETISIM"}},
			{Name: "MISC", Sheet: "MISC", Aliases: []string{"MISC.", "MISCELLANEOUS", "OTHER", "DİĞER", "DIGER"}},
		},
	}
}
