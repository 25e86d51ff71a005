// 印刷用レポートのHTML組み立て。
// ダッシュボードと同じ集計値から静的なレポートページを生成します。
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"fudo/aggregation"
	"fudo/enrich"
	"fudo/metrics"
	"fudo/model"
)

// RenderReportHTML はレポートページ全体のHTML文字列を生成します。
func RenderReportHTML(records []model.EnrichedRecord, params model.AnalysisParams) string {
	kpis := aggregation.ComputeKPIs(records, params.StagnationThresholdDays)
	rankings := aggregation.BuildRankings(records, params.TopN)

	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html lang="ja"><head><meta charset="utf-8">`)
	sb.WriteString(`<title>不動在庫分析レポート</title>`)
	sb.WriteString(`<style>
body { font-family: "Hiragino Kaku Gothic ProN", "Yu Gothic", Meiryo, sans-serif; font-size: 10pt; color: #000; padding: 1cm; }
h1 { font-size: 16pt; border-bottom: 2px solid #333; padding-bottom: 0.3em; }
h2 { font-size: 12pt; margin-top: 1.2em; page-break-after: avoid; }
table.print-table { width: 100%; border-collapse: collapse; margin-bottom: 1.5em; font-size: 9pt; }
table.print-table th, table.print-table td { border: 1px solid #ccc; padding: 0.4em 0.6em; text-align: left; }
table.print-table th { background-color: #eee; font-weight: bold; }
tr { page-break-inside: avoid; }
thead { display: table-header-group; }
ul { margin: 0.3em 0 1em 1.2em; }
</style></head><body>`)

	fmt.Fprintf(&sb, `<h1>不動在庫分析レポート</h1>`)
	fmt.Fprintf(&sb, `<p>分析基準日: %s ／ 期限重視の重み: %d%% ／ 滞留判定しきい値: %d日</p>`,
		metrics.FormatDate(&params.AnalysisDate), params.ExpiryWeightPercent, params.StagnationThresholdDays)

	sb.WriteString(`<h2>サマリー</h2><table class="print-table"><thead><tr><th>区分</th><th>件数</th><th>在庫金額（税別）</th></tr></thead><tbody>`)
	writeKPIRow(&sb, "全品目", kpis.Total)
	writeKPIRow(&sb, "注意品目（危険度7以上）", kpis.Caution)
	writeKPIRow(&sb, fmt.Sprintf("滞留在庫（%d日以上）", params.StagnationThresholdDays), kpis.Stagnant)
	writeKPIRow(&sb, fmt.Sprintf("期限間近（%d日以内）", aggregation.NearExpiryDays), kpis.NearExpiry)
	writeKPIRow(&sb, "未使用在庫（出庫実績なし）", kpis.Unused)
	sb.WriteString(`</tbody></table>`)

	writeRankList(&sb, "滞留ワースト", rankings.WorstStagnation)
	writeRankList(&sb, "期限間近", rankings.SoonestExpiry)
	writeRankList(&sb, "高額在庫", rankings.HighestValue)
	writeRankList(&sb, "未使用（入庫が古い順）", rankings.OldestUnused)

	writeCautionTable(&sb, records)

	sb.WriteString(`</body></html>`)
	return sb.String()
}

func writeKPIRow(sb *strings.Builder, label string, kpi model.KPI) {
	fmt.Fprintf(sb, `<tr><td>%s</td><td>%d件</td><td>%s円</td></tr>`,
		html.EscapeString(label), kpi.Count, enrich.FormatValue(kpi.SumValue))
}

func writeRankList(sb *strings.Builder, title string, entries []model.RankEntry) {
	fmt.Fprintf(sb, `<h2>%s</h2>`, html.EscapeString(title))
	if len(entries) == 0 {
		sb.WriteString(`<p>該当する品目はありません。</p>`)
		return
	}
	sb.WriteString(`<ul>`)
	for _, e := range entries {
		fmt.Fprintf(sb, `<li>%s</li>`, html.EscapeString(e.Text))
	}
	sb.WriteString(`</ul>`)
}

// writeCautionTable は危険度7以上の品目を危険度降順で一覧にします。
func writeCautionTable(sb *strings.Builder, records []model.EnrichedRecord) {
	var caution []model.EnrichedRecord
	for _, r := range records {
		if r.DangerRank >= 7 {
			caution = append(caution, r)
		}
	}
	sort.SliceStable(caution, func(i, j int) bool {
		if caution[i].DangerRank != caution[j].DangerRank {
			return caution[i].DangerRank > caution[j].DangerRank
		}
		return caution[i].ValueNumeric > caution[j].ValueNumeric
	})

	sb.WriteString(`<h2>注意品目一覧</h2>`)
	if len(caution) == 0 {
		sb.WriteString(`<p>該当する品目はありません。</p>`)
		return
	}

	sb.WriteString(`<table class="print-table"><thead><tr>` +
		`<th>薬品名称</th><th>メーカー</th><th>危険度</th><th>有効期限</th>` +
		`<th>滞留</th><th>在庫数量</th><th>在庫金額（税別）</th>` +
		`</tr></thead><tbody>`)
	for _, r := range caution {
		fmt.Fprintf(sb, `<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%g%s</td><td>%s円</td></tr>`,
			html.EscapeString(r.Name), html.EscapeString(r.Maker), r.DangerRank,
			r.ExpiryDisplay, r.StagnationDisplay, r.QuantityNumeric,
			html.EscapeString(r.Unit), r.ValueDisplay)
	}
	sb.WriteString(`</tbody></table>`)
}
