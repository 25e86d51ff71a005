package report

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// RenderPDF はヘッドレスブラウザでレポートページを開き、PDFに印刷します。
// url はこのサーバー自身のレポートページ（/api/report）です。
func RenderPDF(url string) ([]byte, error) {
	var pdfData []byte

	err := rod.Try(func() {
		u := launcher.New().
			Headless(true).
			MustLaunch()

		browser := rod.New().ControlURL(u).MustConnect()
		defer browser.MustClose()

		page := browser.MustPage(url)
		page.MustWaitStable()

		pdfData = page.MustPDF()
	})
	if err != nil {
		return nil, fmt.Errorf("PDFの生成に失敗しました（Chrome/Chromiumが必要です）: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("PDFデータが空です")
	}
	return pdfData, nil
}
