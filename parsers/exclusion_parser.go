package parsers

import "strings"

// ParseExclusionList は改行区切りの薬品コードリストを集合にします。
// 各行はトリムし、空行は無視します。照合は完全一致です。
func ParseExclusionList(text string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		set[code] = true
	}
	return set
}
