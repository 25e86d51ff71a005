// 日付・滞留・危険度の純粋計算関数。
// 全関数が状態を持たず、同じ入力には同じ結果を返します。
package metrics

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DatePlaceholder は日付が無い・解析できない場合の表示文字列です。
const DatePlaceholder = "-"

// ParseDate は YYYY/MM/DD または YYYY-MM-DD をUTCの暦日として解析します。
// 空文字・"-"・年のみ（4桁）・暦として不正な日付（2/30など）は nil を返します。
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	if len(s) == 4 && isDigits(s) {
		return nil // 年のみは日付として扱わない
	}

	s = strings.ReplaceAll(s, "-", "/")
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil
	}

	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date は 2/30 を 3/1 に正規化するため、往復で暦の妥当性を確認する
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil
	}
	return &t
}

// FormatDate は YYYY/MM/DD のゼロ埋め形式にします。nil はプレースホルダです。
func FormatDate(t *time.Time) string {
	if t == nil {
		return DatePlaceholder
	}
	return t.Format("2006/01/02")
}

// StagnationDays は基準日から最終移動日までの経過日数です。
// 移動日が無ければセンチネル 9999、未来日付なら 0 に切り詰めます。
func StagnationDays(reference time.Time, event *time.Time) int {
	if event == nil {
		return 9999
	}
	days := int(math.Floor(dateOnly(reference).Sub(dateOnly(*event)).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// RemainingDays は基準日から期限日までの符号付き日数です。
// 負は期限切れ。期限日が無ければ NaN です。
func RemainingDays(reference time.Time, expiry *time.Time) float64 {
	if expiry == nil {
		return math.NaN()
	}
	return math.Ceil(dateOnly(*expiry).Sub(dateOnly(reference)).Hours() / 24)
}

// DangerRank は期限の近さと滞留の長さを加重合成した 1〜10 の危険度です。
// 期限切れ（remaining < 0）は重み付けをせず即 10 とします。
func DangerRank(remaining float64, stagnation int, expiryWeightPercent int) int {
	if !math.IsNaN(remaining) && remaining < 0 {
		return 10
	}

	var scoreExpiry float64
	switch {
	case math.IsNaN(remaining):
		scoreExpiry = 0
	case remaining <= 30:
		scoreExpiry = 100
	case remaining <= 90:
		scoreExpiry = 75
	case remaining <= 180:
		scoreExpiry = 50
	case remaining <= 365:
		scoreExpiry = 25
	default:
		scoreExpiry = 0
	}

	var scoreStagnation float64
	switch {
	case stagnation >= 730:
		scoreStagnation = 100
	case stagnation >= 365:
		scoreStagnation = 90
	case stagnation >= 180:
		scoreStagnation = 60
	case stagnation >= 90:
		scoreStagnation = 30
	default:
		scoreStagnation = 0
	}

	weightExpiry := float64(expiryWeightPercent) / 100
	total := scoreExpiry*weightExpiry + scoreStagnation*(1-weightExpiry)

	rank := int(math.Ceil(total / 10))
	if rank < 1 {
		rank = 1
	}
	if rank > 10 {
		rank = 10
	}
	return rank
}

// ParseNumeric はカンマ付き数値文字列を float64 にします。失敗時は 0 です。
func ParseNumeric(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
