// ダッシュボードKPI・注目リスト・グラフ系列の集計。
// すべて除外・充実化済みの全件に対する全量再計算で、増分更新はしません。
package aggregation

import (
	"fmt"
	"math"
	"sort"

	"fudo/model"
)

// NearExpiryDays は「期限間近」バケットの上限日数です。
const NearExpiryDays = 90

// ComputeKPIs はダッシュボードの各バケットを算出します。
func ComputeKPIs(records []model.EnrichedRecord, stagnationThresholdDays int) model.DashboardKPIs {
	var k model.DashboardKPIs
	for _, r := range records {
		add(&k.Total, r)
		if r.DangerRank >= 7 {
			add(&k.Caution, r)
		}
		if r.StagnationDays >= stagnationThresholdDays && r.StagnationDays < model.StagnationNever {
			add(&k.Stagnant, r)
		}
		if !math.IsNaN(r.RemainingDays) && r.RemainingDays >= 0 && r.RemainingDays <= NearExpiryDays {
			add(&k.NearExpiry, r)
		}
		if r.StagnationDays == model.StagnationNever {
			add(&k.Unused, r)
		}
	}
	return k
}

func add(k *model.KPI, r model.EnrichedRecord) {
	k.Count++
	k.SumValue += r.ValueNumeric
}

// BuildRankings は各基準の上位N件リストを作ります。
//   - 滞留ワースト: 滞留日数の降順（出庫なしセンチネルは除く）
//   - 期限間近: 残日数の昇順（期限切れ・期限なしは除く）
//   - 高額在庫: 在庫金額の降順
//   - 未使用最古: 出庫なし品のうち最終入庫日の昇順（入庫日なしは除く）
func BuildRankings(records []model.EnrichedRecord, topN int) model.Rankings {
	if topN <= 0 {
		topN = 5
	}

	var stagnant, nearExpiry, unused []model.EnrichedRecord
	valued := make([]model.EnrichedRecord, len(records))
	copy(valued, records)

	for _, r := range records {
		if r.StagnationDays < model.StagnationNever {
			stagnant = append(stagnant, r)
		}
		if !math.IsNaN(r.RemainingDays) && r.RemainingDays >= 0 {
			nearExpiry = append(nearExpiry, r)
		}
		if r.StagnationDays == model.StagnationNever && r.LastInboundDate != nil {
			unused = append(unused, r)
		}
	}

	sort.SliceStable(stagnant, func(i, j int) bool {
		return stagnant[i].StagnationDays > stagnant[j].StagnationDays
	})
	sort.SliceStable(nearExpiry, func(i, j int) bool {
		return nearExpiry[i].RemainingDays < nearExpiry[j].RemainingDays
	})
	sort.SliceStable(valued, func(i, j int) bool {
		return valued[i].ValueNumeric > valued[j].ValueNumeric
	})
	sort.SliceStable(unused, func(i, j int) bool {
		return unused[i].LastInboundDate.Before(*unused[j].LastInboundDate)
	})

	return model.Rankings{
		WorstStagnation: formatEntries(top(stagnant, topN), func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s：%d日停滞（%s円）", r.Name, r.StagnationDays, r.ValueDisplay)
		}),
		SoonestExpiry: formatEntries(top(nearExpiry, topN), func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s：残り%d日（期限 %s）", r.Name, int(r.RemainingDays), r.ExpiryDisplay)
		}),
		HighestValue: formatEntries(top(valued, topN), func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s：%s円", r.Name, r.ValueDisplay)
		}),
		OldestUnused: formatEntries(top(unused, topN), func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s：最終入庫 %s（%s円）", r.Name, r.LastInboundDisplay, r.ValueDisplay)
		}),
	}
}

func top(records []model.EnrichedRecord, n int) []model.EnrichedRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}

func formatEntries(records []model.EnrichedRecord, format func(model.EnrichedRecord) string) []model.RankEntry {
	out := make([]model.RankEntry, 0, len(records))
	for _, r := range records {
		out = append(out, model.RankEntry{
			DrugCode: r.DrugCode,
			Name:     r.Name,
			Text:     format(r),
		})
	}
	return out
}

// CategorySeries は薬品種別ごとの品目数分布です。
func CategorySeries(records []model.EnrichedRecord) model.ChartSeries {
	return distributionSeries(records, func(r model.EnrichedRecord) string { return r.Category })
}

// MakerSeries はメーカーごとの品目数分布です。
func MakerSeries(records []model.EnrichedRecord) model.ChartSeries {
	return distributionSeries(records, func(r model.EnrichedRecord) string { return r.Maker })
}

func distributionSeries(records []model.EnrichedRecord, key func(model.EnrichedRecord) string) model.ChartSeries {
	counts := make(map[string]float64)
	for _, r := range records {
		k := key(r)
		if k == "" {
			k = "不明"
		}
		counts[k]++
	}

	type kv struct {
		label string
		value float64
	}
	arr := make([]kv, 0, len(counts))
	for k, v := range counts {
		arr = append(arr, kv{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].value != arr[j].value {
			return arr[i].value > arr[j].value
		}
		return arr[i].label < arr[j].label
	})

	var series model.ChartSeries
	for _, e := range arr {
		series.Labels = append(series.Labels, e.label)
		series.Values = append(series.Values, e.value)
	}
	return series
}

// RankingSeries は指定メトリクスの上位N件をグラフ系列にします。
// metric: stagnationDays / remainingDays / value / quantity
func RankingSeries(records []model.EnrichedRecord, metric string, topN int) model.ChartSeries {
	if topN <= 0 {
		topN = 5
	}

	type scored struct {
		label string
		value float64
	}
	var arr []scored
	for _, r := range records {
		var v float64
		switch metric {
		case "remainingDays":
			if math.IsNaN(r.RemainingDays) || r.RemainingDays < 0 {
				continue
			}
			v = r.RemainingDays
		case "value":
			v = r.ValueNumeric
		case "quantity":
			v = r.QuantityNumeric
		default: // stagnationDays
			if r.StagnationDays == model.StagnationNever {
				continue
			}
			v = float64(r.StagnationDays)
		}
		arr = append(arr, scored{r.Name, v})
	}

	asc := metric == "remainingDays" // 期限は少ない方が注目
	sort.SliceStable(arr, func(i, j int) bool {
		if asc {
			return arr[i].value < arr[j].value
		}
		return arr[i].value > arr[j].value
	})
	if len(arr) > topN {
		arr = arr[:topN]
	}

	var series model.ChartSeries
	for _, e := range arr {
		series.Labels = append(series.Labels, e.label)
		series.Values = append(series.Values, e.value)
	}
	return series
}
