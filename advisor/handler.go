package advisor

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fudo/dataset"
	"fudo/summary"
)

// AdviceHandler はサマリーを生成サービスへ渡し、助言テキストを返します。
// 実行中の多重起動は 409 で拒否します。失敗しても分析状態には影響しません。
func AdviceHandler(store *dataset.Store, adv *Advisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !store.HasData() {
			writeJSONError(w, "データが取り込まれていません。", http.StatusBadRequest)
			return
		}

		text := summary.Build(store.Enriched(), store.Params())
		advice, err := adv.Generate(r.Context(), text)
		if err != nil {
			if errors.Is(err, ErrBusy) {
				writeJSONError(w, err.Error(), http.StatusConflict)
				return
			}
			log.Printf("Advisor request failed: %v", err)
			writeJSONError(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"advice": advice})
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
