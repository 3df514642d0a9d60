package model

import (
	"time"

	"gorm.io/gorm"
)

// BenchRun 一次基准运行的元数据（运行历史，用于跨运行对比）
type BenchRun struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// JSON 工件里的 generatedAt（UTC，秒级）
	GeneratedAt string `gorm:"type:varchar(32)" json:"generated_at"`
	Engine      string `gorm:"type:varchar(50);index" json:"engine"`
	Rows        int    `json:"rows"`
	Iterations  int    `json:"iterations"`
	Rounds      int    `json:"rounds"`
	Cases       int    `json:"cases"`
	ResultPath  string `gorm:"type:varchar(500)" json:"result_path"`
}

// BenchCaseResult 单个用例在某次运行中的聚合结果
type BenchCaseResult struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RunID    uint    `gorm:"not null;index" json:"run_id"`
	CaseName string  `gorm:"type:varchar(100);not null;index" json:"case_name"`
	Dataset  string  `gorm:"type:varchar(50);index" json:"dataset"`
	AvgMs    float64 `json:"avg_ms"`

	// 各轮平均耗时的 JSON 数组文本
	RoundAverages string `gorm:"type:text" json:"round_averages"`
}
