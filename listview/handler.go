package listview

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fudo/dataset"
	"fudo/model"
)

// RecordsHandler は絞り込み・ソート・ページング済みの一覧を返します。
// 絞り込み・ソート・件数の変更時はクライアント側でページを1に戻します。
func RecordsHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filters := model.ListFilters{
			Search:   q.Get("search"),
			Category: q.Get("category"),
			Maker:    q.Get("maker"),
		}
		if v := q.Get("dangerRank"); v != "" {
			filters.DangerRank, _ = strconv.Atoi(v)
		}

		sortSpec := model.SortSpec{
			Key:  q.Get("sortKey"),
			Desc: q.Get("sortDir") == "desc",
		}

		page := 1
		if v := q.Get("page"); v != "" {
			page, _ = strconv.Atoi(v)
		}
		pageSize := 50
		switch v := q.Get("pageSize"); v {
		case "", "all":
			if v == "all" {
				pageSize = 0
			}
		default:
			pageSize, _ = strconv.Atoi(v)
		}

		working := Apply(store.Enriched(), filters, sortSpec)
		items, totalPages := Paginate(working, page, pageSize)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items":      items,
			"total":      len(working),
			"totalPages": totalPages,
			"header":     store.Header(),
		})
	}
}

// FilterOptionsHandler はドロップダウン用の薬品種別・メーカー一覧を返します。
func FilterOptionsHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, makers := DistinctOptions(store.Enriched())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"categories": categories,
			"makers":     makers,
		})
	}
}
