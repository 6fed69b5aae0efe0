package core

import (
	"bytes"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelFile abstracts workbook operations to decouple generator logic from excelize.
type ExcelFile interface {
	Close() error
	GetCellFormula(sheet, cell string) (string, error)
	GetCellStyle(sheet, cell string) (int, error)
	GetCellType(sheet, cell string) (excelize.CellType, error)
	GetCellValue(sheet, cell string) (string, error)
	GetRowHeight(sheet string, row int) (float64, error)
	GetRowOutlineLevel(sheet string, row int) (uint8, error)
	GetRowVisible(sheet string, row int) (bool, error)
	GetSheetDimension(sheet string) (string, error)
	GetSheetIndex(name string) (int, error)
	GetSheetList() []string
	GetWorkbookProps() (excelize.WorkbookPropsOptions, error)
	InsertRows(sheet string, row, rows int) error
	LastRow(sheet string) (int, error)
	SetActiveSheet(index int)
	SetCellFloat(sheet, cell string, value float64) error
	SetCellFormula(sheet, cell, formula string) error
	SetCellStr(sheet, cell, value string) error
	SetCellStyle(sheet, hcell, vcell string, styleID int) error
	SetCellValue(sheet, cell string, value interface{}) error
	SetRowHeight(sheet string, row int, height float64) error
	SetRowOutlineLevel(sheet string, row int, level uint8) error
	SetRowVisible(sheet string, row int, visible bool) error
	SetSelection(sheetName, cell string) error
	WriteToBuffer() (*bytes.Buffer, error)
}

type ExcelizeFile struct {
	file *excelize.File
}

func openExcelFile(r io.Reader) (ExcelFile, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &ExcelizeFile{file: file}, nil
}

func (e *ExcelizeFile) Close() error {
	return e.file.Close()
}

func (e *ExcelizeFile) GetCellFormula(sheet, cell string) (string, error) {
	return e.file.GetCellFormula(sheet, cell)
}

func (e *ExcelizeFile) GetCellStyle(sheet, cell string) (int, error) {
	return e.file.GetCellStyle(sheet, cell)
}

func (e *ExcelizeFile) GetCellType(sheet, cell string) (excelize.CellType, error) {
	return e.file.GetCellType(sheet, cell)
}

// GetCellValue returns the raw stored value, without number formatting applied.
func (e *ExcelizeFile) GetCellValue(sheet, cell string) (string, error) {
	return e.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
}

func (e *ExcelizeFile) GetWorkbookProps() (excelize.WorkbookPropsOptions, error) {
	return e.file.GetWorkbookProps()
}

func (e *ExcelizeFile) GetRowHeight(sheet string, row int) (float64, error) {
	return e.file.GetRowHeight(sheet, row)
}

func (e *ExcelizeFile) GetRowOutlineLevel(sheet string, row int) (uint8, error) {
	return e.file.GetRowOutlineLevel(sheet, row)
}

func (e *ExcelizeFile) GetRowVisible(sheet string, row int) (bool, error) {
	return e.file.GetRowVisible(sheet, row)
}

func (e *ExcelizeFile) GetSheetDimension(sheet string) (string, error) {
	return e.file.GetSheetDimension(sheet)
}

func (e *ExcelizeFile) GetSheetIndex(name string) (int, error) {
	return e.file.GetSheetIndex(name)
}

func (e *ExcelizeFile) GetSheetList() []string {
	return e.file.GetSheetList()
}

func (e *ExcelizeFile) InsertRows(sheet string, row, rows int) error {
	return e.file.InsertRows(sheet, row, rows)
}

// LastRow returns the number of the last row element in the sheet, counting
// rows that only carry formatting.
func (e *ExcelizeFile) LastRow(sheet string) (n int, err error) {
	rows, err := e.file.Rows(sheet)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for rows.Next() {
		n++
	}
	return n, rows.Error()
}

func (e *ExcelizeFile) SetActiveSheet(index int) {
	e.file.SetActiveSheet(index)
}

func (e *ExcelizeFile) SetCellFloat(sheet, cell string, value float64) error {
	return e.file.SetCellFloat(sheet, cell, value, -1, 64)
}

func (e *ExcelizeFile) SetCellFormula(sheet, cell, formula string) error {
	return e.file.SetCellFormula(sheet, cell, formula)
}

func (e *ExcelizeFile) SetCellStr(sheet, cell, value string) error {
	return e.file.SetCellStr(sheet, cell, value)
}

func (e *ExcelizeFile) SetCellStyle(sheet, hcell, vcell string, styleID int) error {
	return e.file.SetCellStyle(sheet, hcell, vcell, styleID)
}

func (e *ExcelizeFile) SetCellValue(sheet, cell string, value interface{}) error {
	return e.file.SetCellValue(sheet, cell, value)
}

func (e *ExcelizeFile) SetRowHeight(sheet string, row int, height float64) error {
	return e.file.SetRowHeight(sheet, row, height)
}

func (e *ExcelizeFile) SetRowOutlineLevel(sheet string, row int, level uint8) error {
	return e.file.SetRowOutlineLevel(sheet, row, level)
}

func (e *ExcelizeFile) SetRowVisible(sheet string, row int, visible bool) error {
	return e.file.SetRowVisible(sheet, row, visible)
}

// SetSelection moves the active cell, keeping any frozen or split panes.
func (e *ExcelizeFile) SetSelection(sheetName, cell string) error {
	selection := []excelize.Selection{{ActiveCell: cell, SQRef: cell}}
	panes, err := e.file.GetPanes(sheetName)
	if err != nil {
		panes = excelize.Panes{}
	}
	panes.Selection = selection
	return e.file.SetPanes(sheetName, &panes)
}

func (e *ExcelizeFile) WriteToBuffer() (*bytes.Buffer, error) {
	return e.file.WriteToBuffer()
}
