// 助言生成に渡す定型テキストブロックの組み立て。
// 充実化済みデータと現在の分析条件だけから決まる純粋な整形で、
// 生成サービスの呼び出し方については関知しません。
package summary

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fudo/aggregation"
	"fudo/enrich"
	"fudo/metrics"
	"fudo/model"
)

// 欠品リスク判定: 直近に動きがあり、かつ残数がこの値以下の品目。
const (
	lowStockQuantity    = 5.0
	recentMovementDays  = 30
	highValueThreshold  = 50000.0
	highValueExcerptTop = 5
)

// Build は集計値から固定構成のテキストブロックを作ります。
func Build(records []model.EnrichedRecord, params model.AnalysisParams) string {
	kpis := aggregation.ComputeKPIs(records, params.StagnationThresholdDays)

	var b strings.Builder
	fmt.Fprintf(&b, "■ 在庫分析サマリー（基準日: %s）\n", metrics.FormatDate(&params.AnalysisDate))
	fmt.Fprintf(&b, "総品目数: %d件 / 総在庫金額: %s円\n", kpis.Total.Count, enrich.FormatValue(kpis.Total.SumValue))
	fmt.Fprintf(&b, "期限重視の重み: %d%% / 滞留判定しきい値: %d日\n\n",
		params.ExpiryWeightPercent, params.StagnationThresholdDays)

	writeBucket(&b, "注意品目（危険度7以上）", kpis.Caution,
		filterRecords(records, func(r model.EnrichedRecord) bool { return r.DangerRank >= 7 }),
		func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s（危険度%d / %s円）", r.Name, r.DangerRank, r.ValueDisplay)
		})

	writeBucket(&b, fmt.Sprintf("滞留在庫（%d日以上）", params.StagnationThresholdDays), kpis.Stagnant,
		sortedBy(filterRecords(records, func(r model.EnrichedRecord) bool {
			return r.StagnationDays >= params.StagnationThresholdDays && r.StagnationDays < model.StagnationNever
		}), func(a, b model.EnrichedRecord) bool { return a.StagnationDays > b.StagnationDays }),
		func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s（%d日停滞 / %s円）", r.Name, r.StagnationDays, r.ValueDisplay)
		})

	writeBucket(&b, fmt.Sprintf("期限間近（%d日以内）", aggregation.NearExpiryDays), kpis.NearExpiry,
		sortedBy(filterRecords(records, func(r model.EnrichedRecord) bool {
			return !math.IsNaN(r.RemainingDays) && r.RemainingDays >= 0 && r.RemainingDays <= aggregation.NearExpiryDays
		}), func(a, b model.EnrichedRecord) bool { return a.RemainingDays < b.RemainingDays }),
		func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s（残り%d日 / %s円）", r.Name, int(r.RemainingDays), r.ValueDisplay)
		})

	writeBucket(&b, "未使用在庫（出庫実績なし）", kpis.Unused,
		filterRecords(records, func(r model.EnrichedRecord) bool { return r.StagnationDays == model.StagnationNever }),
		func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s（最終入庫 %s / %s円）", r.Name, r.LastInboundDisplay, r.ValueDisplay)
		})

	highValue := sortedBy(filterRecords(records, func(r model.EnrichedRecord) bool {
		return r.ValueNumeric >= highValueThreshold
	}), func(a, b model.EnrichedRecord) bool { return a.ValueNumeric > b.ValueNumeric })
	writeBucket(&b, fmt.Sprintf("高額在庫（%s円以上）", enrich.FormatValue(highValueThreshold)), kpiOf(highValue), highValue,
		func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s（%s円）", r.Name, r.ValueDisplay)
		})

	lowStock := filterRecords(records, func(r model.EnrichedRecord) bool {
		return r.QuantityNumeric > 0 && r.QuantityNumeric <= lowStockQuantity &&
			r.StagnationDays <= recentMovementDays
	})
	writeBucket(&b, "欠品リスク（動きがあり残数わずか）", kpiOf(lowStock), lowStock,
		func(r model.EnrichedRecord) string {
			return fmt.Sprintf("%s（残数 %g%s）", r.Name, r.QuantityNumeric, r.Unit)
		})

	return b.String()
}

func writeBucket(b *strings.Builder, title string, kpi model.KPI, items []model.EnrichedRecord, format func(model.EnrichedRecord) string) {
	fmt.Fprintf(b, "【%s】 %d件 / %s円\n", title, kpi.Count, enrich.FormatValue(kpi.SumValue))
	n := len(items)
	if n > highValueExcerptTop {
		n = highValueExcerptTop
	}
	for _, r := range items[:n] {
		fmt.Fprintf(b, "・%s\n", format(r))
	}
	b.WriteString("\n")
}

func filterRecords(records []model.EnrichedRecord, keep func(model.EnrichedRecord) bool) []model.EnrichedRecord {
	var out []model.EnrichedRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortedBy(records []model.EnrichedRecord, less func(a, b model.EnrichedRecord) bool) []model.EnrichedRecord {
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
	return records
}

func kpiOf(records []model.EnrichedRecord) model.KPI {
	var k model.KPI
	for _, r := range records {
		k.Count++
		k.SumValue += r.ValueNumeric
	}
	return k
}
