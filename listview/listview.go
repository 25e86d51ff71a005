// 一覧表示用の絞り込み・ソート・ページングエンジン。
// 充実化済みデータのスナップショットに対する純粋な変換で、
// 条件が変わるたびに作り直します。
package listview

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fudo/model"
)

var collator = collate.New(language.Japanese)

// Apply は絞り込みとソートを適用した作業セットを返します。
func Apply(records []model.EnrichedRecord, filters model.ListFilters, sortSpec model.SortSpec) []model.EnrichedRecord {
	out := Filter(records, filters)
	Sort(out, sortSpec)
	return out
}

// Filter は各条件のANDで絞り込みます。空の条件は「制約なし」です。
// フリーテキストは名称・フリガナ・メーカー・薬品コード・YJコードの
// いずれかに部分一致（大文字小文字無視）すれば通します。
func Filter(records []model.EnrichedRecord, f model.ListFilters) []model.EnrichedRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.EnrichedRecord, 0, len(records))
	for _, r := range records {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if f.Maker != "" && r.Maker != f.Maker {
			continue
		}
		if f.DangerRank != 0 && r.DangerRank != f.DangerRank {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r model.EnrichedRecord, search string) bool {
	for _, field := range []string{r.Name, r.Furigana, r.Maker, r.DrugCode, r.YjCode} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Sort はキー・方向でソートします。比較不能な値（日付なし・NaN）は
// 方向にかかわらず末尾に寄せます。同値は名称の昇順（日本語照合順）で
// 決定的に並べます。
func Sort(records []model.EnrichedRecord, spec model.SortSpec) {
	if spec.Key == "" {
		spec.Key = "dangerRank"
		spec.Desc = true
	}

	numKey := numericKey(spec.Key)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]

		if numKey != nil {
			va, vb := sortValue(numKey(a), spec.Desc), sortValue(numKey(b), spec.Desc)
			if va != vb {
				if spec.Desc {
					return va > vb
				}
				return va < vb
			}
		} else {
			sa, sb := strings.ToLower(stringKey(a, spec.Key)), strings.ToLower(stringKey(b, spec.Key))
			if sa != sb {
				if spec.Desc {
					return sa > sb
				}
				return sa < sb
			}
		}
		return collator.CompareString(a.Name, b.Name) < 0
	})
}

// sortValue は比較不能値(NaN)をソート方向の「末尾」に寄せ替えます。
func sortValue(v float64, desc bool) float64 {
	if !math.IsNaN(v) {
		return v
	}
	if desc {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// numericKey は数値・日付系キーの抽出関数を返します。文字列キーなら nil。
func numericKey(key string) func(model.EnrichedRecord) float64 {
	switch key {
	case "stagnationDays":
		return func(r model.EnrichedRecord) float64 { return float64(r.StagnationDays) }
	case "lastInboundDays":
		return func(r model.EnrichedRecord) float64 { return float64(r.LastInboundDays) }
	case "remainingDays":
		return func(r model.EnrichedRecord) float64 { return r.RemainingDays }
	case "dangerRank":
		return func(r model.EnrichedRecord) float64 { return float64(r.DangerRank) }
	case "value":
		return func(r model.EnrichedRecord) float64 { return r.ValueNumeric }
	case "quantity":
		return func(r model.EnrichedRecord) float64 { return r.QuantityNumeric }
	case "expiryDate":
		return func(r model.EnrichedRecord) float64 { return dateValue(r.ExpiryDate) }
	case "lastOutboundDate":
		return func(r model.EnrichedRecord) float64 { return dateValue(r.LastOutboundDate) }
	case "lastInboundDate":
		return func(r model.EnrichedRecord) float64 { return dateValue(r.LastInboundDate) }
	default:
		return nil
	}
}

func stringKey(r model.EnrichedRecord, key string) string {
	switch key {
	case "furigana":
		return r.Furigana
	case "maker":
		return r.Maker
	case "category":
		return r.Category
	case "wholesaler":
		return r.Wholesaler
	case "drugCode":
		return r.DrugCode
	case "yjCode":
		return r.YjCode
	default:
		return r.Name
	}
}

func dateValue(t *time.Time) float64 {
	if t == nil {
		return math.NaN()
	}
	return float64(t.Unix())
}
