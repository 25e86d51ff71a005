package model

import "time"

// CanonicalField は取込データの列が持つ意味上の役割です。
// 実際のヘッダー名は取込元によって揺れるため、resolver が
// ヘッダー行からこのキーへの対応を解決します。
type CanonicalField string

const (
	FieldExpiryDate               CanonicalField = "expiryDate"
	FieldLastOutboundDate         CanonicalField = "lastOutboundDate"
	FieldLastInboundDate          CanonicalField = "lastInboundDate"
	FieldLastOutboundStagnation   CanonicalField = "lastOutboundStagnationRaw"
	FieldLastInboundStagnation    CanonicalField = "lastInboundStagnationRaw"
	FieldValueExTax               CanonicalField = "valueExTax"
	FieldQuantity                 CanonicalField = "quantity"
	FieldCategory                 CanonicalField = "category"
	FieldMaker                    CanonicalField = "maker"
	FieldWholesaler               CanonicalField = "wholesaler"
	FieldName                     CanonicalField = "name"
	FieldFurigana                 CanonicalField = "furigana"
	FieldUnit                     CanonicalField = "unit"
	FieldDrugCode                 CanonicalField = "drugCode"
	FieldYjCode                   CanonicalField = "yjCode"
)

// RawRecord は元の列名→値のマッピングです。ヘッダー行の列順が表示順になります。
type RawRecord map[string]string

// StagnationNever は出庫実績なし（または日付解析不能）を表すセンチネルです。
const StagnationNever = 9999

// EnrichedRecord は RawRecord に派生項目を付与した分析用レコードです。
// 派生項目は分析パラメータ変更のたびに全件再計算されます。
type EnrichedRecord struct {
	Raw RawRecord `json:"raw"`

	ExpiryDate       *time.Time `json:"-"`
	LastOutboundDate *time.Time `json:"-"`
	LastInboundDate  *time.Time `json:"-"`

	ValueNumeric    float64 `json:"valueNumeric"`
	QuantityNumeric float64 `json:"quantityNumeric"`
	StagnationDays  int     `json:"stagnationDays"`
	LastInboundDays int     `json:"lastInboundDays"`
	// RemainingDays は期限日が無い場合 NaN になるため JSON には出さない。
	// 画面側は remainingDisplay を使う。
	RemainingDays float64 `json:"-"`
	DangerRank    int     `json:"dangerRank"`

	// 表示用
	ExpiryDisplay       string `json:"expiryDisplay"`
	LastOutboundDisplay string `json:"lastOutboundDisplay"`
	LastInboundDisplay  string `json:"lastInboundDisplay"`
	StagnationDisplay   string `json:"stagnationDisplay"`
	RemainingDisplay    string `json:"remainingDisplay"`
	ValueDisplay        string `json:"valueDisplay"`

	// 解決済みの主要項目（検索・集計用のショートカット）
	Name       string `json:"name"`
	Furigana   string `json:"furigana"`
	Maker      string `json:"maker"`
	Category   string `json:"category"`
	Wholesaler string `json:"wholesaler"`
	Unit       string `json:"unit"`
	DrugCode   string `json:"drugCode"`
	YjCode     string `json:"yjCode"`
}
