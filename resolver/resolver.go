package resolver

import (
	"strings"

	"fudo/model"
)

// Resolution は正準フィールド→実ヘッダー名の対応です。
// 取込時に一度だけ解決し、以降の処理はヘッダーを再走査しません。
type Resolution map[model.CanonicalField]string

// variantNames は取込元ごとに揺れるヘッダー名の候補です。
// 先頭が優先。完全一致→部分一致の順で照合します。
var variantNames = map[model.CanonicalField][]string{
	model.FieldDrugCode:         {"薬品コード"},
	model.FieldYjCode:           {"YJコード", "ＹＪコード"},
	model.FieldCategory:         {"薬品種別"},
	model.FieldFurigana:         {"フリガナ", "ふりがな"},
	model.FieldName:             {"薬品名称", "薬品名"},
	model.FieldQuantity:         {"在庫数量", "在庫数"},
	model.FieldValueExTax:       {"在庫金額(税別)", "在庫金額（税別）", "在庫金額"},
	model.FieldUnit:             {"単位"},
	model.FieldMaker:            {"メーカー", "メーカ"},
	model.FieldWholesaler:       {"卸"},
	model.FieldExpiryDate:       {"有効期限", "使用期限"},
	model.FieldLastOutboundDate: {"最終出庫"},
	model.FieldLastInboundDate:  {"最終入庫"},
}

// requiredFields が解決できない場合、充実化はバッチごと失敗します。
var requiredFields = []model.CanonicalField{
	model.FieldExpiryDate,
	model.FieldLastOutboundDate,
	model.FieldValueExTax,
	model.FieldQuantity,
}

const (
	stagnationToken = "不動日数"
	outboundToken   = "出庫"
	inboundToken    = "入庫"
)

// Resolve はヘッダー行から各正準フィールドの対応を解決します。
// 必須フィールドが1つでも欠けると MissingRequiredColumnError を返します。
func Resolve(header []string) (Resolution, error) {
	res := make(Resolution)

	for field, names := range variantNames {
		if h, ok := matchHeader(header, names); ok {
			res[field] = h
		}
	}

	bindStagnationColumns(header, res)

	for _, field := range requiredFields {
		if _, ok := res[field]; !ok {
			return nil, &model.MissingRequiredColumnError{Field: field}
		}
	}
	return res, nil
}

func matchHeader(header []string, names []string) (string, bool) {
	for _, name := range names {
		for _, h := range header {
			if h == name {
				return h, true
			}
		}
	}
	for _, name := range names {
		for _, h := range header {
			if strings.Contains(h, name) {
				return h, true
			}
		}
	}
	return "", false
}

// bindStagnationColumns は不動日数列を出庫系・入庫系のどちらかに束縛します。
//
// 取込元によっては「最終出庫」「最終入庫」それぞれの直後に同名の
// 「不動日数」列が現れます。列名だけでは区別できないため、直前の
// 移動日付列に位置で束縛します。位置で決まらない残りは、移動種別
// トークンと不動トークンを両方含むヘッダー（例「出庫不動日数」）へ
// フォールバックします。
//
// 同名の不動日数列が複数ある場合、RawRecord は列名キーのため後勝ちで
// 値が潰れます。これは元データ形式由来の既知の曖昧さで、ここでは
// 位置解決を維持し「修正」しません（resolver のテストで挙動を固定）。
func bindStagnationColumns(header []string, res Resolution) {
	outboundHeader := res[model.FieldLastOutboundDate]
	inboundHeader := res[model.FieldLastInboundDate]

	for i, h := range header {
		if !strings.Contains(h, stagnationToken) {
			continue
		}
		if strings.Contains(h, outboundToken) || strings.Contains(h, inboundToken) {
			continue // 位置ではなく名前で決まる列。フォールバックで扱う。
		}
		if i == 0 {
			continue
		}
		prev := header[i-1]
		switch {
		case outboundHeader != "" && prev == outboundHeader:
			if _, ok := res[model.FieldLastOutboundStagnation]; !ok {
				res[model.FieldLastOutboundStagnation] = h
			}
		case inboundHeader != "" && prev == inboundHeader:
			if _, ok := res[model.FieldLastInboundStagnation]; !ok {
				res[model.FieldLastInboundStagnation] = h
			}
		}
	}

	if _, ok := res[model.FieldLastOutboundStagnation]; !ok {
		if h, found := findCombinedHeader(header, outboundToken); found {
			res[model.FieldLastOutboundStagnation] = h
		}
	}
	if _, ok := res[model.FieldLastInboundStagnation]; !ok {
		if h, found := findCombinedHeader(header, inboundToken); found {
			res[model.FieldLastInboundStagnation] = h
		}
	}
}

func findCombinedHeader(header []string, movementToken string) (string, bool) {
	for _, h := range header {
		if strings.Contains(h, movementToken) && strings.Contains(h, stagnationToken) {
			return h, true
		}
	}
	return "", false
}

// Value は解決済みフィールドの値を取り出します。未解決なら空文字です。
func (r Resolution) Value(rec model.RawRecord, field model.CanonicalField) string {
	h, ok := r[field]
	if !ok {
		return ""
	}
	return rec[h]
}

// Has はフィールドが解決済みかを返します。
func (r Resolution) Has(field model.CanonicalField) bool {
	_, ok := r[field]
	return ok
}
