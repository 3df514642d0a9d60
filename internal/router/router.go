package router

import (
	"tabular-bench/internal/handler"
	"tabular-bench/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(svcCtx *service.ServiceContext) *gin.Engine {
	r := gin.Default()

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 初始化handlers
	benchHandler := handler.NewBenchHandler(svcCtx.BenchRunner)

	// API路由
	api := r.Group("/api")
	{
		// 运行历史
		runs := api.Group("/runs")
		{
			runs.GET("", benchHandler.ListRuns)
			runs.GET("/:id", benchHandler.GetRun)
		}

		// 基准运行
		bench := api.Group("/bench")
		{
			bench.POST("/run", benchHandler.RunBench)
		}
	}

	return r
}
