package summary

import (
	"net/http"

	"fudo/dataset"
)

// SummaryHandler はAI分析に渡すサマリーテキストをそのまま返します。
func SummaryHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.HasData() {
			http.Error(w, "データが取り込まれていません。", http.StatusBadRequest)
			return
		}
		text := Build(store.Enriched(), store.Params())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(text))
	}
}
