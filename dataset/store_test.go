package dataset

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fudo/model"
)

const sampleTSV = "薬品コード\t薬品名称\t在庫数量\t在庫金額(税別)\t有効期限\t最終出庫\n" +
	"A001\tアスピリン錠\t10\t1,500\t2024/03/01\t2023/01/01\n" +
	"B002\tロキソニン錠\t3\t800\t2025/12/31\t2024/05/20\n"

func testParams() model.AnalysisParams {
	return model.AnalysisParams{
		AnalysisDate:            time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryWeightPercent:     50,
		StagnationThresholdDays: 180,
		TopN:                    5,
	}
}

func TestStoreLoad(t *testing.T) {
	s := NewStore(testParams())
	if s.HasData() {
		t.Fatal("初期状態でデータあり扱い")
	}

	n, err := s.Load(strings.NewReader(sampleTSV), '\t')
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("取込件数 = %d, want 2", n)
	}
	if !s.HasData() {
		t.Fatal("取込後にデータなし扱い")
	}

	enriched := s.Enriched()
	if len(enriched) != 2 {
		t.Fatalf("Enriched = %d件", len(enriched))
	}
	if enriched[0].DangerRank != 10 {
		t.Fatalf("期限切れ品の危険度 = %d, want 10", enriched[0].DangerRank)
	}
}

func TestStoreLoadFailureKeepsState(t *testing.T) {
	s := NewStore(testParams())
	if _, err := s.Load(strings.NewReader(sampleTSV), '\t'); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 必須列を欠く取込は失敗し、既存データは残る
	bad := "薬品名称\t在庫数量\nアスピリン錠\t10\n"
	_, err := s.Load(strings.NewReader(bad), '\t')
	var missing *model.MissingRequiredColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingRequiredColumnError", err)
	}
	if len(s.Enriched()) != 2 {
		t.Fatal("失敗した取込で既存データが失われた")
	}

	// 空入力でも同様
	if _, err := s.Load(strings.NewReader(""), '\t'); !errors.Is(err, model.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if len(s.Enriched()) != 2 {
		t.Fatal("空入力で既存データが失われた")
	}
}

func TestStoreExclusionsRebuild(t *testing.T) {
	s := NewStore(testParams())
	if _, err := s.Load(strings.NewReader(sampleTSV), '\t'); err != nil {
		t.Fatalf("Load: %v", err)
	}

	n, err := s.SetExclusions("A001\n")
	if err != nil {
		t.Fatalf("SetExclusions: %v", err)
	}
	if n != 1 {
		t.Fatalf("除外後の件数 = %d, want 1", n)
	}
	if s.ExclusionCount() != 1 {
		t.Fatalf("除外リスト件数 = %d", s.ExclusionCount())
	}

	enriched := s.Enriched()
	if len(enriched) != 1 || enriched[0].DrugCode != "B002" {
		t.Fatalf("除外後 = %+v", enriched)
	}

	// 空リストで全件復帰
	n, err = s.SetExclusions("")
	if err != nil {
		t.Fatalf("SetExclusions: %v", err)
	}
	if n != 2 {
		t.Fatalf("復帰後の件数 = %d, want 2", n)
	}
}

func TestStoreExclusionsBeforeLoad(t *testing.T) {
	// 取込前に設定した除外は取込時に適用される
	s := NewStore(testParams())
	if _, err := s.SetExclusions("A001"); err != nil {
		t.Fatalf("SetExclusions: %v", err)
	}

	n, err := s.Load(strings.NewReader(sampleTSV), '\t')
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 1 {
		t.Fatalf("取込件数 = %d, want 1", n)
	}
}

func TestStoreRecalculate(t *testing.T) {
	s := NewStore(testParams())
	if _, err := s.Load(strings.NewReader(sampleTSV), '\t'); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 基準日を過去に戻すと期限切れでなくなる
	params := testParams()
	params.AnalysisDate = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.Recalculate(params); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	for _, r := range s.Enriched() {
		if r.DrugCode == "A001" && r.DangerRank == 10 {
			t.Fatalf("再計算後も期限切れ扱い: %+v", r)
		}
	}
	if got := s.Params().AnalysisDate; !got.Equal(params.AnalysisDate) {
		t.Fatalf("分析条件が更新されていない: %v", got)
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore(testParams())
	if _, err := s.Load(strings.NewReader(sampleTSV), '\t'); err != nil {
		t.Fatalf("Load: %v", err)
	}

	snap := s.Enriched()
	snap[0].Name = "改変"
	if s.Enriched()[0].Name == "改変" {
		t.Fatal("スナップショットの変更がストアに波及した")
	}
}

func TestNewStoreDefaultsAnalysisDate(t *testing.T) {
	s := NewStore(model.AnalysisParams{ExpiryWeightPercent: 50})
	if s.Params().AnalysisDate.IsZero() {
		t.Fatal("基準日が補完されていない")
	}
}
