// アプリケーションの分析状態を一手に持つストア。
// 生データ・除外リスト・分析条件・充実化済みデータを保持し、
// 条件が変わるたびに差分更新ではなく全件を作り直します。
package dataset

import (
	"io"
	"sync"
	"time"

	"fudo/enrich"
	"fudo/model"
	"fudo/parsers"
	"fudo/resolver"
)

type Store struct {
	mu sync.RWMutex

	header     []string
	raw        []model.RawRecord
	exclusions map[string]bool
	resolution resolver.Resolution
	params     model.AnalysisParams
	enriched   []model.EnrichedRecord
}

func NewStore(params model.AnalysisParams) *Store {
	if params.AnalysisDate.IsZero() {
		params.AnalysisDate = today()
	}
	return &Store{
		exclusions: make(map[string]bool),
		params:     params,
	}
}

// Load は区切りテキストを取り込み、現在の除外リスト・分析条件で
// 充実化して状態を置き換えます。失敗した場合、既存の状態は変わりません。
func (s *Store) Load(r io.Reader, comma rune) (int, error) {
	table, err := parsers.ParseInventoryTable(r, comma)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enriched, res, err := enrich.Run(table.Header, table.Records, s.exclusions, s.params)
	if err != nil {
		return 0, err
	}

	s.header = table.Header
	s.raw = table.Records
	s.resolution = res
	s.enriched = enriched
	return len(enriched), nil
}

// SetExclusions は除外リストを差し替え、取込済みデータがあれば
// パイプラインを再実行します。
func (s *Store) SetExclusions(text string) (int, error) {
	set := parsers.ParseExclusionList(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.exclusions = set
	if s.raw == nil {
		return 0, nil
	}
	return s.rebuildLocked()
}

// Recalculate は分析条件を差し替えて全件を再計算します。
func (s *Store) Recalculate(params model.AnalysisParams) (int, error) {
	if params.AnalysisDate.IsZero() {
		params.AnalysisDate = today()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.params = params
	if s.raw == nil {
		return 0, nil
	}
	return s.rebuildLocked()
}

func (s *Store) rebuildLocked() (int, error) {
	enriched, res, err := enrich.Run(s.header, s.raw, s.exclusions, s.params)
	if err != nil {
		return 0, err
	}
	s.resolution = res
	s.enriched = enriched
	return len(enriched), nil
}

// Enriched は充実化済みレコードのスナップショットを返します。
// 呼び出し側が自由にソート・絞り込みできるようコピーを返します。
func (s *Store) Enriched() []model.EnrichedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.EnrichedRecord, len(s.enriched))
	copy(out, s.enriched)
	return out
}

// Header は取込時のヘッダー行（正準の表示順）を返します。
func (s *Store) Header() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.header))
	copy(out, s.header)
	return out
}

func (s *Store) Params() model.AnalysisParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.raw) > 0
}

// ExclusionCount は現在の除外リストの件数です。
func (s *Store) ExclusionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exclusions)
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
