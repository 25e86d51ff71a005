package aggregation

import (
	"math"
	"reflect"
	"testing"
	"time"

	"fudo/model"
)

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleRecords() []model.EnrichedRecord {
	return []model.EnrichedRecord{
		// 期限切れ・長期滞留（注意・滞留）
		{Name: "アスピリン錠", DrugCode: "A001", DangerRank: 10, StagnationDays: 517,
			RemainingDays: -92, ValueNumeric: 1500, ValueDisplay: "1,500"},
		// 健全在庫
		{Name: "ロキソニン錠", DrugCode: "B002", DangerRank: 2, StagnationDays: 30,
			RemainingDays: 300, ValueNumeric: 800, ValueDisplay: "800",
			ExpiryDisplay: "2025/03/28"},
		// 出庫なし・期限間近（未使用・期限間近）
		{Name: "ガスター散", DrugCode: "C003", DangerRank: 7,
			StagnationDays: model.StagnationNever, RemainingDays: 45,
			ValueNumeric: 5000, ValueDisplay: "5,000", ExpiryDisplay: "2024/07/16",
			LastInboundDate: ptrDate(2023, 5, 1), LastInboundDisplay: "2023/05/01"},
		// 出庫なし・入庫日も不明（未使用だが最古リスト対象外）
		{Name: "ムコダイン錠", DrugCode: "D004", DangerRank: 5,
			StagnationDays: model.StagnationNever, RemainingDays: math.NaN(),
			ValueNumeric: 200, ValueDisplay: "200"},
	}
}

func TestComputeKPIs(t *testing.T) {
	k := ComputeKPIs(sampleRecords(), 180)

	if k.Total.Count != 4 || k.Total.SumValue != 7500 {
		t.Fatalf("総品目 = %+v", k.Total)
	}
	// 危険度7以上
	if k.Caution.Count != 2 || k.Caution.SumValue != 6500 {
		t.Fatalf("注意品目 = %+v", k.Caution)
	}
	// しきい値以上かつ出庫なしセンチネル未満
	if k.Stagnant.Count != 1 || k.Stagnant.SumValue != 1500 {
		t.Fatalf("滞留在庫 = %+v", k.Stagnant)
	}
	// 0 <= 残日数 <= 90（期限切れ・期限なしは含まない）
	if k.NearExpiry.Count != 1 || k.NearExpiry.SumValue != 5000 {
		t.Fatalf("期限間近 = %+v", k.NearExpiry)
	}
	if k.Unused.Count != 2 || k.Unused.SumValue != 5200 {
		t.Fatalf("未使用在庫 = %+v", k.Unused)
	}
}

func TestComputeKPIsThreshold(t *testing.T) {
	// しきい値を超えると滞留バケットから外れる
	k := ComputeKPIs(sampleRecords(), 600)
	if k.Stagnant.Count != 0 {
		t.Fatalf("滞留在庫 = %+v, want 0件", k.Stagnant)
	}
}

func TestBuildRankings(t *testing.T) {
	r := BuildRankings(sampleRecords(), 5)

	// 滞留ワーストは出庫なしセンチネルを含まない
	if len(r.WorstStagnation) != 2 {
		t.Fatalf("滞留ワースト = %d件, want 2", len(r.WorstStagnation))
	}
	if r.WorstStagnation[0].DrugCode != "A001" {
		t.Fatalf("滞留ワースト先頭 = %s", r.WorstStagnation[0].DrugCode)
	}
	if got := r.WorstStagnation[0].Text; got != "アスピリン錠：517日停滞（1,500円）" {
		t.Fatalf("滞留ワースト表記 = %q", got)
	}

	// 期限間近は期限切れ（負）と期限なし（NaN）を含まない
	if len(r.SoonestExpiry) != 2 {
		t.Fatalf("期限間近 = %d件, want 2", len(r.SoonestExpiry))
	}
	if r.SoonestExpiry[0].DrugCode != "C003" {
		t.Fatalf("期限間近先頭 = %s", r.SoonestExpiry[0].DrugCode)
	}

	// 高額在庫は全件対象・金額降順
	if r.HighestValue[0].DrugCode != "C003" || r.HighestValue[1].DrugCode != "A001" {
		t.Fatalf("高額在庫 = %+v", r.HighestValue)
	}

	// 未使用最古は入庫日のある出庫なし品のみ
	if len(r.OldestUnused) != 1 || r.OldestUnused[0].DrugCode != "C003" {
		t.Fatalf("未使用最古 = %+v", r.OldestUnused)
	}
}

func TestBuildRankingsTopN(t *testing.T) {
	r := BuildRankings(sampleRecords(), 1)
	if len(r.HighestValue) != 1 {
		t.Fatalf("topN=1 で %d件", len(r.HighestValue))
	}

	// topN<=0 は既定の5件
	r = BuildRankings(sampleRecords(), 0)
	if len(r.HighestValue) != 4 {
		t.Fatalf("topN=0 で %d件, want 全4件", len(r.HighestValue))
	}
}

func TestDistributionSeries(t *testing.T) {
	records := []model.EnrichedRecord{
		{Category: "内服"}, {Category: "内服"}, {Category: "外用"}, {Category: ""},
	}
	s := CategorySeries(records)
	if s.Labels[0] != "内服" || s.Values[0] != 2 {
		t.Fatalf("先頭 = %s %v", s.Labels[0], s.Values[0])
	}
	// 空欄は「不明」に寄せる
	found := false
	for _, l := range s.Labels {
		if l == "不明" {
			found = true
		}
	}
	if !found {
		t.Fatalf("不明ラベルがない: %v", s.Labels)
	}
}

func TestRankingSeries(t *testing.T) {
	s := RankingSeries(sampleRecords(), "stagnationDays", 5)
	// センチネルは除外、降順
	if want := []string{"アスピリン錠", "ロキソニン錠"}; !reflect.DeepEqual(s.Labels, want) {
		t.Fatalf("滞留系列 = %v, want %v", s.Labels, want)
	}

	s = RankingSeries(sampleRecords(), "remainingDays", 5)
	// 残日数は昇順、負・NaNは除外
	if want := []string{"ガスター散", "ロキソニン錠"}; !reflect.DeepEqual(s.Labels, want) {
		t.Fatalf("残日数系列 = %v, want %v", s.Labels, want)
	}

	s = RankingSeries(sampleRecords(), "value", 2)
	if want := []string{"ガスター散", "アスピリン錠"}; !reflect.DeepEqual(s.Labels, want) {
		t.Fatalf("金額系列 = %v, want %v", s.Labels, want)
	}
}
