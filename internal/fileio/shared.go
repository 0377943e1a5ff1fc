package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Table: позиционная таблица: заголовок и строки данных одинаковой ширины.
type Table struct {
	Header []string
	Rows   [][]string
}

// Width: число колонок листа.
func (t Table) Width() int { return len(t.Header) }

// ReadTable: выберет парсер по расширению. headerRow, строка заголовков (1-based);
// строки выше неё отбрасываются, все строки дополняются до ширины листа.
func ReadTable(r io.Reader, filename string, headerRow int) (Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return Table{}, fmt.Errorf("unsupported file: %s", filename)
	}
	if err != nil {
		return Table{}, err
	}
	return toTable(rows, headerRow), nil
}

func toTable(rows [][]string, headerRow int) Table {
	if len(rows) == 0 {
		return Table{}
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	h := pickHeader(rows, headerRow, width)
	return Table{Header: h, Rows: padRows(rows, headerRow, width)}
}

// pickHeader: берёт строку заголовков и подставляет Column N для пустых.
func pickHeader(rows [][]string, headerRow, width int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, width)
	for i := range out {
		v := ""
		if i < len(h) {
			v = normalizeCell(h[i])
		}
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// padRows: строки после заголовков, дополненные до width; полностью пустые пропускаются.
func padRows(rows [][]string, headerRow, width int) [][]string {
	start := headerRow // первая строка после заголовков
	if start < 1 {
		start = 1
	}
	var out [][]string
	for r := start; r < len(rows); r++ {
		rec := make([]string, width)
		empty := true
		for c := 0; c < width; c++ {
			if c < len(rows[r]) {
				rec[c] = normalizeCell(rows[r][c])
			}
			if rec[c] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out
}

// normalizeCell: trim + неразрывные пробелы → обычные.
func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\uFEFF", "").Replace(s)
	return strings.TrimSpace(s)
}
