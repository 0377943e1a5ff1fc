package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV reads CSV, auto-detecting encoding and converting to UTF-8.
// Exports from Korean Excel are usually EUC-KR (CP949); Google Sheets gives UTF-8.
func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(Decode(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// ReadCSV: сырые строки CSV (без заголовка/выравнивания), для источника справочника.
func ReadCSV(r io.Reader) ([][]string, error) {
	return readCSV(r)
}

// Decode: оборачивает r декодером по результату chardet; BOM отбрасывается.
func Decode(r io.Reader) io.Reader {
	br := bufio.NewReaderSize(r, 4096)

	peek, _ := br.Peek(4096)
	if bytes.HasPrefix(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		return br
	}
	if len(peek) == 0 || validUTF8Prefix(peek) {
		return br
	}
	cs := "euc-kr"
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		cs = strings.ToLower(det.Charset)
	}

	switch cs {
	case "utf-8":
		return br
	case "windows-1251":
		return transform.NewReader(br, charmap.Windows1251.NewDecoder())
	default:
		// не UTF-8: считаем EUC-KR/CP949
		return transform.NewReader(br, korean.EUCKR.NewDecoder())
	}
}

// validUTF8Prefix: peek может обрезать последний многобайтовый символ.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}
