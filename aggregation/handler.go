package aggregation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fudo/dataset"
	"fudo/model"
)

// DashboardHandler はKPIバケットを返します。
func DashboardHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := store.Params()
		kpis := ComputeKPIs(store.Enriched(), params.StagnationThresholdDays)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(kpis)
	}
}

// RankingsHandler は上位N件の注目リスト群を返します。
func RankingsHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := store.Params()
		rankings := BuildRankings(store.Enriched(), params.TopN)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rankings)
	}
}

// ChartsHandler はグラフ用のラベル・値系列を返します。
// kind=category | maker | ranking（rankingは metric で指標を指定）。
func ChartsHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := store.Enriched()
		q := r.URL.Query()

		var series model.ChartSeries
		switch q.Get("kind") {
		case "maker":
			series = MakerSeries(records)
		case "ranking":
			topN := store.Params().TopN
			if v := q.Get("topN"); v != "" {
				topN, _ = strconv.Atoi(v)
			}
			series = RankingSeries(records, q.Get("metric"), topN)
		default:
			series = CategorySeries(records)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(series)
	}
}

func quoteAll(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportRankingsCSVHandler は注目リストをCSVでダウンロードさせます。
func ExportRankingsCSVHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := store.Params()
		rankings := BuildRankings(store.Enriched(), params.TopN)

		var buf bytes.Buffer
		buf.Write([]byte{0xEF, 0xBB, 0xBF})

		header := []string{"リスト", "順位", "薬品コード", "薬品名称", "内容"}
		buf.WriteString(strings.Join(header, ",") + "\r\n")

		writeList := func(listName string, entries []model.RankEntry) {
			for i, e := range entries {
				record := []string{
					quoteAll(listName),
					quoteAll(strconv.Itoa(i + 1)),
					quoteAll(e.DrugCode),
					quoteAll(e.Name),
					quoteAll(e.Text),
				}
				buf.WriteString(strings.Join(record, ",") + "\r\n")
			}
		}
		writeList("滞留ワースト", rankings.WorstStagnation)
		writeList("期限間近", rankings.SoonestExpiry)
		writeList("高額在庫", rankings.HighestValue)
		writeList("未使用最古", rankings.OldestUnused)

		filename := fmt.Sprintf("注目リスト_%s.csv", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "text/csv;charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(buf.Bytes())
	}
}
