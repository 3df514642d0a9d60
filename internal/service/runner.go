package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tabular-bench/internal/db"
	"tabular-bench/internal/model"
)

// ErrReportWrite 结果文件写入失败（目录创建失败、磁盘不可写等），整个 run 以非零退出
var ErrReportWrite = errors.New("结果文件写入失败")

// RunOptions 一次基准运行的参数
type RunOptions struct {
	Rows       int    `json:"rows"`
	Iterations int    `json:"iterations"`
	Rounds     int    `json:"rounds"`
	Engine     string `json:"engine"`
	JSONOut    string `json:"json_out"`
}

// CaseResult 单个用例的聚合结果。JSON 键里的引擎名是和配对引擎对比用的兼容性细节，
// 因此序列化时按引擎标签拼键名（如 pandasAvgMs），不写死。
type CaseResult struct {
	Case          string
	Dataset       string
	AvgMs         float64
	RoundAverages []float64
	Engine        string
}

func (r CaseResult) MarshalJSON() ([]byte, error) {
	engine := r.Engine
	if engine == "" {
		engine = "pandas"
	}
	return json.Marshal(map[string]interface{}{
		"case":                    r.Case,
		"dataset":                 r.Dataset,
		engine + "AvgMs":         r.AvgMs,
		engine + "RoundAverages": r.RoundAverages,
	})
}

// RunPayload 唯一持久化的结果工件，一次写入后不再修改
type RunPayload struct {
	GeneratedAt string       `json:"generatedAt"`
	Rows        int          `json:"rows"`
	Iterations  int          `json:"iterations"`
	Rounds      int          `json:"rounds"`
	Cases       int          `json:"cases"`
	Results     []CaseResult `json:"results"`
}

// BenchRunner 驱动用例表：按注册顺序逐个计时并汇总结果
type BenchRunner struct{}

func NewBenchRunner() *BenchRunner {
	return &BenchRunner{}
}

// Run 用默认用例表跑一次完整基准
func (b *BenchRunner) Run(opts RunOptions) (*RunPayload, error) {
	return b.RunCases(DefaultCases(), opts)
}

// ApplyDefaults 把缺省项填成内置默认值
func (o *RunOptions) ApplyDefaults() {
	if o.Rows <= 0 {
		o.Rows = 25000
	}
	if o.Iterations <= 0 {
		o.Iterations = 8
	}
	if o.Rounds <= 0 {
		o.Rounds = 3
	}
	if o.Engine == "" {
		o.Engine = "pandas"
	}
	if o.JSONOut == "" {
		o.JSONOut = filepath.Join("bench", "results", "pandas.json")
	}
}

// RunCases 跑给定用例表。数据集每个变体只构建一次，被引用它的用例只读共享。
// 任何用例契约违规都让整个 run 失败，不写任何部分结果。
func (b *BenchRunner) RunCases(cases []CaseDef, opts RunOptions) (*RunPayload, error) {
	opts.ApplyDefaults()

	datasets := BuildVariantDatasets(opts.Rows)

	results := make([]CaseResult, 0, len(cases))
	for _, c := range cases {
		ds, ok := datasets[c.Dataset]
		if !ok {
			return nil, fmt.Errorf("用例 %s 引用了未知数据集变体 %q", c.Name, c.Dataset)
		}
		m, err := Measure(c.Name, c.Op, ds, opts.Iterations, opts.Rounds)
		if err != nil {
			return nil, err
		}
		results = append(results, CaseResult{
			Case:          c.Name,
			Dataset:       c.Dataset,
			AvgMs:         m.RobustAvgMs,
			RoundAverages: m.RoundAverages,
			Engine:        opts.Engine,
		})
	}

	payload := &RunPayload{
		GeneratedAt: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Rows:        opts.Rows,
		Iterations:  opts.Iterations,
		Rounds:      opts.Rounds,
		Cases:       len(results),
		Results:     results,
	}

	if err := writePayload(payload, opts); err != nil {
		return nil, err
	}

	// 可选的运行历史入库：JSON 文件仍是权威工件，入库失败只记日志不影响结果
	if db.DB != nil {
		if err := persistRun(payload, opts); err != nil {
			log.Printf("运行历史入库失败: %v", err)
		}
	}

	return payload, nil
}

func writePayload(payload *RunPayload, opts RunOptions) error {
	dir := filepath.Dir(opts.JSONOut)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: 创建输出目录 %s: %v", ErrReportWrite, dir, err)
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: 序列化结果: %v", ErrReportWrite, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(opts.JSONOut, data, 0o644); err != nil {
		return fmt.Errorf("%w: 写入 %s: %v", ErrReportWrite, opts.JSONOut, err)
	}

	// 附带一份 markdown 报告放在 JSON 旁边，方便直接贴进对比文档
	mdPath := strings.TrimSuffix(opts.JSONOut, ".json") + ".md"
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(payload, opts.Engine)), 0o644); err != nil {
		return fmt.Errorf("%w: 写入 %s: %v", ErrReportWrite, mdPath, err)
	}
	return nil
}

func persistRun(payload *RunPayload, opts RunOptions) error {
	run := &model.BenchRun{
		GeneratedAt: payload.GeneratedAt,
		Engine:      opts.Engine,
		Rows:        payload.Rows,
		Iterations:  payload.Iterations,
		Rounds:      payload.Rounds,
		Cases:       payload.Cases,
		ResultPath:  opts.JSONOut,
	}
	if err := db.DB.Create(run).Error; err != nil {
		return fmt.Errorf("创建 run 记录失败: %w", err)
	}

	for _, r := range payload.Results {
		roundsJSON, _ := json.Marshal(r.RoundAverages)
		caseRow := &model.BenchCaseResult{
			RunID:         run.ID,
			CaseName:      r.Case,
			Dataset:       r.Dataset,
			AvgMs:         r.AvgMs,
			RoundAverages: string(roundsJSON),
		}
		if err := db.DB.Create(caseRow).Error; err != nil {
			return fmt.Errorf("写入用例结果失败: %w", err)
		}
	}
	return nil
}
