package enrich

import (
	"errors"
	"testing"
	"time"

	"fudo/model"
	"fudo/resolver"
)

var testHeader = []string{
	"薬品コード", "薬品名称", "薬品種別", "メーカー",
	"在庫数量", "在庫金額(税別)", "有効期限", "最終出庫", "最終入庫",
}

func testParams() model.AnalysisParams {
	return model.AnalysisParams{
		AnalysisDate:            time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryWeightPercent:     50,
		StagnationThresholdDays: 180,
		TopN:                    5,
	}
}

func row(code, name, qty, value, expiry, lastOut, lastIn string) model.RawRecord {
	return model.RawRecord{
		"薬品コード":     code,
		"薬品名称":      name,
		"薬品種別":      "内服",
		"メーカー":      "テスト製薬",
		"在庫数量":      qty,
		"在庫金額(税別)": value,
		"有効期限":      expiry,
		"最終出庫":      lastOut,
		"最終入庫":      lastIn,
	}
}

func TestRunExpiredItem(t *testing.T) {
	// 期限切れ・長期滞留の品目は危険度10になる
	records := []model.RawRecord{
		row("A001", "アスピリン錠", "10", "1,500", "2024/03/01", "2023/01/01", "2022/12/01"),
	}

	enriched, res, err := Run(testHeader, records, nil, testParams())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("件数 = %d, want 1", len(enriched))
	}
	if !res.Has(model.FieldDrugCode) {
		t.Fatal("薬品コード列が解決されていない")
	}

	rec := enriched[0]
	if rec.StagnationDays != 517 {
		t.Fatalf("滞留日数 = %d, want 517", rec.StagnationDays)
	}
	if rec.RemainingDays >= 0 {
		t.Fatalf("残日数 = %v, want 負", rec.RemainingDays)
	}
	if rec.DangerRank != 10 {
		t.Fatalf("危険度 = %d, want 10", rec.DangerRank)
	}
	if rec.ValueNumeric != 1500 {
		t.Fatalf("在庫金額 = %v, want 1500", rec.ValueNumeric)
	}
	if rec.ValueDisplay != "1,500" {
		t.Fatalf("金額表示 = %q, want 1,500", rec.ValueDisplay)
	}
	if rec.RemainingDisplay != "期限切れ(92日)" {
		t.Fatalf("残日数表示 = %q", rec.RemainingDisplay)
	}
}

func TestRunNeverMoved(t *testing.T) {
	// 出庫実績なしはセンチネル9999と「出庫なし」表示
	records := []model.RawRecord{
		row("B002", "ロキソニン錠", "3", "800", "2025/12/31", "-", ""),
	}

	enriched, _, err := Run(testHeader, records, nil, testParams())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec := enriched[0]
	if rec.StagnationDays != model.StagnationNever {
		t.Fatalf("滞留日数 = %d, want %d", rec.StagnationDays, model.StagnationNever)
	}
	if rec.StagnationDisplay != "出庫なし" {
		t.Fatalf("滞留表示 = %q", rec.StagnationDisplay)
	}
	if rec.LastInboundDate != nil {
		t.Fatal("空欄の最終入庫が日付として解釈された")
	}
	if rec.LastInboundDisplay != "-" {
		t.Fatalf("最終入庫表示 = %q", rec.LastInboundDisplay)
	}
}

func TestRunMissingExpiryColumn(t *testing.T) {
	header := []string{"薬品コード", "薬品名称", "在庫数量", "在庫金額(税別)", "最終出庫"}
	records := []model.RawRecord{
		{"薬品コード": "A001", "薬品名称": "アスピリン錠", "在庫数量": "10",
			"在庫金額(税別)": "1,500", "最終出庫": "2023/01/01"},
	}

	_, _, err := Run(header, records, nil, testParams())
	var missing *model.MissingRequiredColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingRequiredColumnError", err)
	}
	if missing.Field != model.FieldExpiryDate {
		t.Fatalf("欠落フィールド = %s", missing.Field)
	}
}

func TestApplyExclusions(t *testing.T) {
	records := []model.RawRecord{
		row("A001", "アスピリン錠", "10", "1,500", "2025/01/01", "2024/01/01", ""),
		row("B002", "ロキソニン錠", "3", "800", "2025/01/01", "2024/01/01", ""),
	}

	enriched, _, err := Run(testHeader, records, map[string]bool{"A001": true}, testParams())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(enriched) != 1 {
		t.Fatalf("除外後の件数 = %d, want 1", len(enriched))
	}
	if enriched[0].DrugCode != "B002" {
		t.Fatalf("残った品目 = %s, want B002", enriched[0].DrugCode)
	}
}

func TestApplyExclusionsAll(t *testing.T) {
	// 全件除外しても充実化自体は成功し、空集合を返す
	records := []model.RawRecord{
		row("A001", "アスピリン錠", "10", "1,500", "2025/01/01", "2024/01/01", ""),
	}

	enriched, _, err := Run(testHeader, records, map[string]bool{"A001": true}, testParams())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(enriched) != 0 {
		t.Fatalf("件数 = %d, want 0", len(enriched))
	}
}

func TestApplyExclusionsNoCodeColumn(t *testing.T) {
	// 薬品コード列が無ければ除外は適用せず全件通す
	res := resolver.Resolution{model.FieldName: "薬品名称"}
	records := []model.RawRecord{{"薬品名称": "アスピリン錠"}}

	kept := ApplyExclusions(records, map[string]bool{"A001": true}, res)
	if len(kept) != 1 {
		t.Fatalf("件数 = %d, want 1", len(kept))
	}
}

func TestFormatValueGrouping(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1234, "1,234"},
		{1234567, "1,234,567"},
		{1500.4, "1,500"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Fatalf("FormatValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
