package handler

import (
	"net/http"

	"tabular-bench/internal/db"
	"tabular-bench/internal/model"
	"tabular-bench/internal/service"

	"github.com/gin-gonic/gin"
)

type BenchHandler struct {
	runner *service.BenchRunner
}

func NewBenchHandler(runner *service.BenchRunner) *BenchHandler {
	return &BenchHandler{runner: runner}
}

// ListRuns 列出最近的运行历史
func (h *BenchHandler) ListRuns(c *gin.Context) {
	var runs []model.BenchRun
	if err := db.DB.Order("id DESC").Limit(50).Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

// GetRun 获取一次运行的元数据和全部用例结果
func (h *BenchHandler) GetRun(c *gin.Context) {
	id := c.Param("id")

	var run model.BenchRun
	if err := db.DB.First(&run, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var results []model.BenchCaseResult
	if err := db.DB.Where("run_id = ?", run.ID).Order("id ASC").Find(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":     run,
		"results": results,
	})
}

// RunBench 触发一次基准运行。计时全程串行，请求会阻塞到整个 run 结束。
func (h *BenchHandler) RunBench(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bench runner not initialized"})
		return
	}

	var opts service.RunOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts.ApplyDefaults()
	payload, err := h.runner.Run(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payload":     payload,
		"result_path": opts.JSONOut,
	})
}
