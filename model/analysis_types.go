package model

import "time"

// AnalysisParams は再計算のたびに全レコードへ適用される分析条件です。
type AnalysisParams struct {
	AnalysisDate            time.Time `json:"-"`
	ExpiryWeightPercent     int       `json:"expiryWeightPercent"`
	StagnationThresholdDays int       `json:"stagnationThresholdDays"`
	TopN                    int       `json:"topN"`
}

// ListFilters は一覧表示の絞り込み条件です。空値は「条件なし」を意味します。
type ListFilters struct {
	Search     string
	Category   string
	Maker      string
	DangerRank int // 0 = 指定なし
}

// SortSpec は一覧のソート条件です。
type SortSpec struct {
	Key  string
	Desc bool
}

// KPI はダッシュボードのバケット集計値です。
type KPI struct {
	Count    int     `json:"count"`
	SumValue float64 `json:"sumValue"`
}

// DashboardKPIs は全バケットのKPIです。除外・充実化の後の全件に対して算出します。
type DashboardKPIs struct {
	Total      KPI `json:"total"`
	Caution    KPI `json:"caution"`
	Stagnant   KPI `json:"stagnant"`
	NearExpiry KPI `json:"nearExpiry"`
	Unused     KPI `json:"unused"`
}

// RankEntry は注目リストの1行です。Text は一覧・印刷でそのまま表示されます。
type RankEntry struct {
	DrugCode string `json:"drugCode"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

// Rankings は上位N件の注目リスト群です。
type Rankings struct {
	WorstStagnation []RankEntry `json:"worstStagnation"`
	SoonestExpiry   []RankEntry `json:"soonestExpiry"`
	HighestValue    []RankEntry `json:"highestValue"`
	OldestUnused    []RankEntry `json:"oldestUnused"`
}

// ChartSeries はグラフ描画用のラベル・値の組です。
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}
