// file: dto/import.go
package dto

// ========== CSV / API 导入通用响应 ==========

// ImportSummary 导入结果汇总；单行出错只记录，不中断整个导入
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// HasErrors 有逐行错误时导入接口回 206 语义
func (s *ImportSummary) HasErrors() bool {
	return len(s.Errors) > 0
}

// ========== 请求 DTO ==========

// CrewOverrideUpdate 批量设置船只的起终点设备覆盖
type CrewOverrideUpdate struct {
	CrewID               uint32  `json:"crew_id"`
	RaceStartOverrideID  *uint32 `json:"race_start_override_id"`
	RaceFinishOverrideID *uint32 `json:"race_finish_override_id"`
	SetStart             bool    `json:"set_start"`
	SetFinish            bool    `json:"set_finish"`
}

type CrewOverrideBulkReq struct {
	Updates []CrewOverrideUpdate `json:"updates" binding:"required"`
}
