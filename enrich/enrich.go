// 取込済みレコードへの派生項目付与（充実化）パイプライン。
// resolver の解決結果と metrics の純粋関数を全件に適用します。
package enrich

import (
	"fmt"
	"log"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fudo/metrics"
	"fudo/model"
	"fudo/resolver"
)

var yen = message.NewPrinter(language.Japanese)

// ApplyExclusions は薬品コードが除外リストに載っている行を取り除きます。
// 薬品コード列が解決できない場合は警告を出してそのまま通します。
func ApplyExclusions(records []model.RawRecord, exclusions map[string]bool, res resolver.Resolution) []model.RawRecord {
	if len(exclusions) == 0 {
		return records
	}
	if !res.Has(model.FieldDrugCode) {
		log.Printf("WARN: 薬品コード列が見つからないため除外リストを適用できません")
		return records
	}

	kept := make([]model.RawRecord, 0, len(records))
	for _, rec := range records {
		if exclusions[res.Value(rec, model.FieldDrugCode)] {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// Run は除外→解決→計量の全パイプラインを実行します。
// 必須列が解決できない場合はバッチ全体が失敗し、部分結果は返しません。
func Run(header []string, records []model.RawRecord, exclusions map[string]bool, params model.AnalysisParams) ([]model.EnrichedRecord, resolver.Resolution, error) {
	res, err := resolver.Resolve(header)
	if err != nil {
		return nil, nil, err
	}

	kept := ApplyExclusions(records, exclusions, res)

	enriched := make([]model.EnrichedRecord, 0, len(kept))
	for _, rec := range kept {
		enriched = append(enriched, buildRecord(rec, res, params))
	}
	return enriched, res, nil
}

func buildRecord(rec model.RawRecord, res resolver.Resolution, params model.AnalysisParams) model.EnrichedRecord {
	expiry := metrics.ParseDate(res.Value(rec, model.FieldExpiryDate))
	lastOut := metrics.ParseDate(res.Value(rec, model.FieldLastOutboundDate))
	lastIn := metrics.ParseDate(res.Value(rec, model.FieldLastInboundDate))

	stagnation := metrics.StagnationDays(params.AnalysisDate, lastOut)
	inboundDays := metrics.StagnationDays(params.AnalysisDate, lastIn)
	remaining := metrics.RemainingDays(params.AnalysisDate, expiry)
	rank := metrics.DangerRank(remaining, stagnation, params.ExpiryWeightPercent)
	value := metrics.ParseNumeric(res.Value(rec, model.FieldValueExTax))

	return model.EnrichedRecord{
		Raw:              rec,
		ExpiryDate:       expiry,
		LastOutboundDate: lastOut,
		LastInboundDate:  lastIn,
		ValueNumeric:     value,
		QuantityNumeric:  metrics.ParseNumeric(res.Value(rec, model.FieldQuantity)),
		StagnationDays:   stagnation,
		LastInboundDays:  inboundDays,
		RemainingDays:    remaining,
		DangerRank:       rank,

		ExpiryDisplay:       metrics.FormatDate(expiry),
		LastOutboundDisplay: metrics.FormatDate(lastOut),
		LastInboundDisplay:  metrics.FormatDate(lastIn),
		StagnationDisplay:   formatStagnation(stagnation),
		RemainingDisplay:    formatRemaining(remaining),
		ValueDisplay:        FormatValue(value),

		Name:       res.Value(rec, model.FieldName),
		Furigana:   res.Value(rec, model.FieldFurigana),
		Maker:      res.Value(rec, model.FieldMaker),
		Category:   res.Value(rec, model.FieldCategory),
		Wholesaler: res.Value(rec, model.FieldWholesaler),
		Unit:       res.Value(rec, model.FieldUnit),
		DrugCode:   res.Value(rec, model.FieldDrugCode),
		YjCode:     res.Value(rec, model.FieldYjCode),
	}
}

func formatStagnation(days int) string {
	if days == model.StagnationNever {
		return "出庫なし"
	}
	return fmt.Sprintf("%d日", days)
}

func formatRemaining(remaining float64) string {
	if math.IsNaN(remaining) {
		return metrics.DatePlaceholder
	}
	d := int(remaining)
	if d < 0 {
		return fmt.Sprintf("期限切れ(%d日)", -d)
	}
	return fmt.Sprintf("%d日", d)
}

// FormatValue は在庫金額をロケール桁区切りで表示用に整形します。
func FormatValue(v float64) string {
	return yen.Sprintf("%.0f", v)
}
