package aggregation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fudo/dataset"
	"fudo/model"
)

const handlerTSV = "薬品コード\t薬品名称\t在庫数量\t在庫金額(税別)\t有効期限\t最終出庫\n" +
	"A001\tアスピリン錠\t10\t1,500\t2024/03/01\t2023/01/01\n" +
	"B002\tロキソニン錠\t3\t800\t2025/12/31\t2024/05/20\n"

func handlerStore(t *testing.T) *dataset.Store {
	t.Helper()
	s := dataset.NewStore(model.AnalysisParams{
		AnalysisDate:            time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ExpiryWeightPercent:     50,
		StagnationThresholdDays: 180,
		TopN:                    5,
	})
	if _, err := s.Load(strings.NewReader(handlerTSV), '\t'); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestDashboardHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	DashboardHandler(handlerStore(t))(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var kpis model.DashboardKPIs
	if err := json.NewDecoder(rec.Body).Decode(&kpis); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if kpis.Total.Count != 2 {
		t.Fatalf("総品目 = %d, want 2", kpis.Total.Count)
	}
	if kpis.Caution.Count != 1 {
		t.Fatalf("注意品目 = %d, want 1", kpis.Caution.Count)
	}
}

func TestChartsHandlerKinds(t *testing.T) {
	store := handlerStore(t)
	for _, query := range []string{"", "?kind=maker", "?kind=ranking&metric=value&topN=1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/charts"+query, nil)
		rec := httptest.NewRecorder()

		ChartsHandler(store)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("query %q → status %d", query, rec.Code)
		}
		var series model.ChartSeries
		if err := json.NewDecoder(rec.Body).Decode(&series); err != nil {
			t.Fatalf("query %q → decode: %v", query, err)
		}
		if len(series.Labels) != len(series.Values) {
			t.Fatalf("query %q → ラベルと値の長さ不一致", query)
		}
	}
}

func TestExportRankingsCSV(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/rankings/export", nil)
	rec := httptest.NewRecorder()

	ExportRankingsCSVHandler(handlerStore(t))(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.Bytes()
	// Excel互換のためUTF-8 BOM付き・CRLF改行
	if len(body) < 3 || body[0] != 0xEF || body[1] != 0xBB || body[2] != 0xBF {
		t.Fatal("BOMがない")
	}
	text := string(body[3:])
	if !strings.HasPrefix(text, "リスト,順位,薬品コード,薬品名称,内容\r\n") {
		t.Fatalf("ヘッダー行 = %q", strings.SplitN(text, "\r\n", 2)[0])
	}
	if !strings.Contains(text, `"滞留ワースト","1","A001","アスピリン錠"`) {
		t.Fatalf("データ行が見つからない:\n%s", text)
	}

	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "filename*=UTF-8''") {
		t.Fatalf("Content-Disposition = %q", disposition)
	}
}
