package model

import (
	"errors"
	"fmt"
)

// 取込時のエラー。いずれも読込操作全体を中断し、部分的なデータは保持しません。
var (
	ErrEmptyInput       = errors.New("入力データが空です")
	ErrInsufficientData = errors.New("データが不足しています（ヘッダー行とデータ行が必要です）")
	ErrNoValidRows      = errors.New("有効なデータ行がありません")
)

// MissingRequiredColumnError は必須列が解決できなかったことを表します。
// 充実化パイプラインはこのエラーでバッチ全体を失敗させます。
type MissingRequiredColumnError struct {
	Field CanonicalField
}

func (e *MissingRequiredColumnError) Error() string {
	return fmt.Sprintf("必須列が見つかりません: %s", fieldLabel(e.Field))
}

func fieldLabel(f CanonicalField) string {
	switch f {
	case FieldExpiryDate:
		return "有効期限"
	case FieldLastOutboundDate:
		return "最終出庫"
	case FieldValueExTax:
		return "在庫金額(税別)"
	case FieldQuantity:
		return "在庫数量"
	default:
		return string(f)
	}
}
