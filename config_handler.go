package main

import (
	"encoding/json"
	"log"
	"net/http"

	"fudo/config"
)

// ヘルパー関数: エラーをJSONで返す
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// GetConfigHandler は現在の設定を返します
func GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.GetConfig()
		cfg.AdvisorAPIKey = "" // APIキーは返さない
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)
	}
}

// SaveConfigHandler は設定を保存します
func SaveConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			writeJSONError(w, "リクエストが不正です。", http.StatusBadRequest)
			return
		}

		if newCfg.ExpiryWeightPercent < 0 || newCfg.ExpiryWeightPercent > 100 {
			writeJSONError(w, "期限重視の重みは0〜100で指定してください。", http.StatusBadRequest)
			return
		}
		if newCfg.StagnationThresholdDays < 0 {
			writeJSONError(w, "滞留しきい値は0以上で指定してください。", http.StatusBadRequest)
			return
		}
		if newCfg.AdvisorAPIKey == "" {
			// 空で送られた場合は既存のキーを維持する
			newCfg.AdvisorAPIKey = config.GetConfig().AdvisorAPIKey
		}

		if err := config.SaveConfig(newCfg); err != nil {
			log.Printf("Error saving config: %v", err)
			writeJSONError(w, "設定の保存に失敗しました。", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "設定を保存しました。"})
	}
}
