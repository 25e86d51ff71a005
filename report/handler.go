package report

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fudo/dataset"
)

// ReportHandler は印刷用レポートページを返します。
func ReportHandler(store *dataset.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.HasData() {
			http.Error(w, "データが取り込まれていません。", http.StatusBadRequest)
			return
		}
		html := RenderReportHTML(store.Enriched(), store.Params())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

// ReportPDFHandler はレポートページをヘッドレスブラウザで開き、
// PDFとしてダウンロードさせます。reportURL は自サーバーのレポートページです。
func ReportPDFHandler(store *dataset.Store, reportURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.HasData() {
			http.Error(w, "データが取り込まれていません。", http.StatusBadRequest)
			return
		}

		pdfData, err := RenderPDF(reportURL)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("不動在庫分析レポート_%s.pdf", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(pdfData)
	}
}
