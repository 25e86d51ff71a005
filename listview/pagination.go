package listview

import "fudo/model"

// Paginate は作業セットから現在ページ分を切り出します。
// pageSize <= 0 は「全件表示」です。page は 1 始まりで、範囲外は
// 最終ページに丸めます。戻り値は (ページ内容, 総ページ数)。
func Paginate(records []model.EnrichedRecord, page, pageSize int) ([]model.EnrichedRecord, int) {
	if pageSize <= 0 || len(records) == 0 {
		totalPages := 1
		return records, totalPages
	}

	totalPages := (len(records) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}

// DistinctOptions は絞り込みドロップダウン用に薬品種別・メーカーの
// 重複なし一覧を日本語照合順で返します。
func DistinctOptions(records []model.EnrichedRecord) (categories, makers []string) {
	catSet := make(map[string]bool)
	makerSet := make(map[string]bool)
	for _, r := range records {
		if r.Category != "" {
			catSet[r.Category] = true
		}
		if r.Maker != "" {
			makerSet[r.Maker] = true
		}
	}
	categories = sortedKeys(catSet)
	makers = sortedKeys(makerSet)
	return categories, makers
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	collator.SortStrings(out)
	return out
}
