// file: dto/report.go
package dto

// ========== 报表响应 DTO ==========
// 报表只读取已算好的计算字段，所有排名/成绩逻辑都在 services 里

// DashboardStats 赛事数据总览
type DashboardStats struct {
	OriginalEventCategoriesImported int64  `json:"original_event_categories_imported"`
	RacesCount                      int64  `json:"races_count"`
	CrewsCount                      int64  `json:"crews_count"`
	RaceTimesCount                  int64  `json:"race_times_count"`
	MastersCrewsCount               int64  `json:"masters_crews_count"`
	LastUpdated                     string `json:"last_updated"`
}

// DuplicateStartOrderCrew 出发序号重复检查里的一条船
type DuplicateStartOrderCrew struct {
	ID                   uint32 `json:"id"`
	Name                 string `json:"name"`
	Club                 string `json:"club"`
	EventBand            string `json:"event_band"`
	CalculatedStartOrder int    `json:"calculated_start_order"`
}

type DuplicateStartOrderSummary struct {
	TotalAcceptedCrews   int `json:"total_accepted_crews"`
	UniqueStartOrders    int `json:"unique_start_orders"`
	DuplicateStartOrders int `json:"duplicate_start_orders"`
	CrewsWithDuplicates  int `json:"crews_with_duplicates"`
}

type DuplicateStartOrderReport struct {
	HasDuplicates bool                                 `json:"has_duplicates"`
	Duplicates    map[int][]DuplicateStartOrderCrew    `json:"duplicates"`
	Summary       DuplicateStartOrderSummary           `json:"summary"`
}

// MissingTimeCrew 缺起点/终点打点的船
type MissingTimeCrew struct {
	CrewID        uint32 `json:"crew_id"`
	Name          string `json:"name"`
	Club          string `json:"club"`
	BibNumber     int    `json:"bib_number"`
	StartTime     int64  `json:"start_time,omitempty"`
	FinishTime    int64  `json:"finish_time,omitempty"`
	MissingStart  bool   `json:"missing_start"`
	MissingFinish bool   `json:"missing_finish"`
	MissingBoth   bool   `json:"missing_both"`
	Status        string `json:"status"`
}

type MissingTimesSummary struct {
	TotalCrewsMissingTimes int `json:"total_crews_missing_times"`
	MissingStartOnly       int `json:"missing_start_only"`
	MissingFinishOnly      int `json:"missing_finish_only"`
	MissingBoth            int `json:"missing_both"`
	TotalCrewsChecked      int `json:"total_crews_checked"`
}

type MissingTimesReport struct {
	CrewsMissingTimes []MissingTimeCrew   `json:"crews_missing_times"`
	Summary           MissingTimesSummary `json:"summary"`
}

// ClosePlacing 一二名成绩对比
type ClosePlacing struct {
	CompetitorNames string  `json:"competitor_names"`
	BibNumber       int     `json:"bib_number"`
	ClubName        string  `json:"club_name"`
	PublishedTime   int64   `json:"published_time"`
}

type CloseFinish struct {
	EventBand      string       `json:"event_band,omitempty"`
	FirstPlace     ClosePlacing `json:"first_place"`
	SecondPlace    ClosePlacing `json:"second_place"`
	TimeDifference float64      `json:"time_difference"`
	Closeness      string       `json:"closeness"`
}

type CloseFinishReport struct {
	Overall         *CloseFinish  `json:"overall"`
	Categories      []CloseFinish `json:"categories"`
	TotalCategories int           `json:"total_categories"`
	VeryCloseCount  int           `json:"very_close_count"`
	CloseCount      int           `json:"close_count"`
	OverallIsClose  bool          `json:"overall_is_close"`
}

// CrewListAggregates 船只列表接口附带的聚合块，前端仪表盘直接用
type CrewListAggregates struct {
	NumScratchedCrews          int64 `json:"num_scratched_crews"`
	NumAcceptedCrews           int64 `json:"num_accepted_crews"`
	NumAcceptedCrewsNoStart    int64 `json:"num_accepted_crews_no_start_time"`
	NumAcceptedCrewsNoFinish   int64 `json:"num_accepted_crews_no_finish_time"`
	NumCrewsMastersAdjusted    int64 `json:"num_crews_masters_adjusted"`
	NumCrewsRequireMasters     int64 `json:"num_crews_require_masters_adjusted"`
	RequiresRankingUpdate      int64 `json:"requires_ranking_update"`
	FastestOpen2xTime          int64 `json:"fastest_open_2x_time"`
	FastestFemale2xTime        int64 `json:"fastest_female_2x_time"`
	FastestOpenSweepTime       int64 `json:"fastest_open_sweep_time"`
	FastestFemaleSweepTime     int64 `json:"fastest_female_sweep_time"`
	FastestMixed2xTime         int64 `json:"fastest_mixed_2x_time"`
}
