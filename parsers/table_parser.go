package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"fudo/model"
)

// ParsedTable は取込済みの表データです。Header の列順が正準の表示順になります。
type ParsedTable struct {
	Header  []string
	Records []model.RawRecord
	// Skipped は列数不一致で捨てた行数です（警告のみ、致命ではない）。
	Skipped int
}

// ParseInventoryTable は区切りテキストを ParsedTable に変換します。
// comma は '\t'（正準）または ','。先頭の空行はスキップし、最初の
// 非空行をヘッダーとして扱います。列数がヘッダーと一致しない行は
// 警告を出して捨てます。
func ParseInventoryTable(r io.Reader, comma rune) (*ParsedTable, error) {
	data, err := io.ReadAll(SkipBOM(r))
	if err != nil {
		return nil, fmt.Errorf("入力の読み取りに失敗: %w", err)
	}
	data = decodeJapanese(data)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, model.ErrEmptyInput
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var header []string
	var records []model.RawRecord
	skipped := 0
	line := 0

	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: %d行目の読み取りエラー (スキップ): %v", line, err)
			continue
		}
		if isBlankRow(rec) {
			continue
		}

		if header == nil {
			header = make([]string, len(rec))
			for i, col := range rec {
				header[i] = strings.TrimSpace(col)
			}
			continue
		}

		if len(rec) != len(header) {
			log.Printf("WARN: %d行目: 列数がヘッダーと一致しないためスキップ (期待 %d, 実際 %d)",
				line, len(header), len(rec))
			skipped++
			continue
		}

		row := make(model.RawRecord, len(header))
		for i, col := range header {
			row[col] = strings.TrimSpace(rec[i])
		}
		records = append(records, row)
	}

	if header == nil {
		return nil, model.ErrEmptyInput
	}
	if len(records) == 0 && skipped == 0 {
		return nil, model.ErrInsufficientData
	}
	if len(records) == 0 {
		return nil, model.ErrNoValidRows
	}

	return &ParsedTable{Header: header, Records: records, Skipped: skipped}, nil
}

// decodeJapanese はUTF-8でないバイト列をShift_JISとして復号します。
// 薬局の在庫エクスポートはCP932のことが多いため。
func decodeJapanese(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		log.Printf("WARN: Shift_JIS復号に失敗、元データをそのまま使用します: %v", err)
		return data
	}
	return decoded
}

func isBlankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
