package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"fudo/metrics"
	"fudo/model"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	log.Println("Error response:", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// LoadDataHandler は在庫データの取込を受け付けます。
// multipart の file、フォームの text、生のボディのいずれでも受け取ります。
// mode=csv でカンマ区切り、既定はタブ区切りです。
func LoadDataHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		comma := '\t'
		if r.URL.Query().Get("mode") == "csv" {
			comma = ','
		}

		var reader io.Reader
		contentType := r.Header.Get("Content-Type")
		if strings.Contains(contentType, "multipart/form-data") {
			file, _, err := r.FormFile("file")
			if err != nil {
				respondJSONError(w, "ファイルの読み取りに失敗: "+err.Error(), http.StatusBadRequest)
				return
			}
			defer file.Close()
			reader = file
		} else if strings.Contains(contentType, "application/x-www-form-urlencoded") {
			reader = strings.NewReader(r.FormValue("text"))
		} else {
			reader = r.Body
		}

		count, err := store.Load(reader, comma)
		if err != nil {
			respondJSONError(w, "データの取込に失敗しました: "+err.Error(), http.StatusBadRequest)
			return
		}

		log.Printf("Loaded %d inventory records.", count)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": fmt.Sprintf("%d件のデータを取り込みました。", count),
			"count":   count,
		})
	}
}

// SetExclusionsHandler は除外リスト（改行区切りの薬品コード）を差し替えます。
func SetExclusionsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondJSONError(w, "リクエストの読み取りに失敗: "+err.Error(), http.StatusBadRequest)
			return
		}

		count, err := store.SetExclusions(string(body))
		if err != nil {
			respondJSONError(w, "除外リストの適用に失敗しました: "+err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":    fmt.Sprintf("除外リストを適用しました（対象 %d件、残り %d件）。", store.ExclusionCount(), count),
			"count":      count,
			"exclusions": store.ExclusionCount(),
		})
	}
}

type recalculateRequest struct {
	AnalysisDate            string `json:"analysisDate"`
	ExpiryWeightPercent     int    `json:"expiryWeightPercent"`
	StagnationThresholdDays int    `json:"stagnationThresholdDays"`
	TopN                    int    `json:"topN"`
}

// RecalculateHandler は分析条件を差し替えて全件を再計算します。
func RecalculateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req recalculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, "リクエストが不正です。", http.StatusBadRequest)
			return
		}
		if req.ExpiryWeightPercent < 0 || req.ExpiryWeightPercent > 100 {
			respondJSONError(w, "期限重視の重みは0〜100で指定してください。", http.StatusBadRequest)
			return
		}
		if req.StagnationThresholdDays < 0 {
			respondJSONError(w, "滞留しきい値は0以上で指定してください。", http.StatusBadRequest)
			return
		}

		params := model.AnalysisParams{
			ExpiryWeightPercent:     req.ExpiryWeightPercent,
			StagnationThresholdDays: req.StagnationThresholdDays,
			TopN:                    req.TopN,
		}
		if req.AnalysisDate != "" {
			t := metrics.ParseDate(req.AnalysisDate)
			if t == nil {
				respondJSONError(w, "分析基準日の形式が不正です（YYYY/MM/DD）。", http.StatusBadRequest)
				return
			}
			params.AnalysisDate = *t
		}

		count, err := store.Recalculate(params)
		if err != nil {
			respondJSONError(w, "再計算に失敗しました: "+err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": fmt.Sprintf("%d件を再計算しました。", count),
			"count":   count,
		})
	}
}
