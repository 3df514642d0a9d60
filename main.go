package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"tabular-bench/internal/config"
	"tabular-bench/internal/db"
	"tabular-bench/internal/router"
	"tabular-bench/internal/service"
)

func main() {
	// 加载配置（文件可选，缺失时用内置默认）
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 参数优先级：命令行 > 环境变量 > 配置文件 > 内置默认
	rows := flag.Int("rows", envInt("TABULAR_BENCH_ROWS", cfg.Bench.Rows), "每个数据集变体的行数")
	iters := flag.Int("iters", envInt("TABULAR_BENCH_ITERS", cfg.Bench.Iterations), "每轮计时调用次数")
	rounds := flag.Int("rounds", envInt("TABULAR_BENCH_ROUNDS", cfg.Bench.Rounds), "轮数（轮均值取中位数）")
	jsonOut := flag.String("json-out", envStr("TABULAR_BENCH_JSON", cfg.Bench.JSONOut), "结果 JSON 输出路径")
	engine := flag.String("engine", envStr("TABULAR_BENCH_ENGINE", cfg.Bench.Engine), "JSON 键里的引擎标签")
	serve := flag.Bool("serve", false, "启动运行历史 HTTP 服务而不是跑基准")
	flag.Parse()

	if *serve {
		runServer(cfg)
		return
	}

	// 可选的运行历史入库
	if cfg.Database.Enabled {
		if err := db.InitDB(cfg); err != nil {
			log.Fatalf("初始化数据库失败: %v", err)
		}
	}

	runner := service.NewBenchRunner()
	payload, err := runner.Run(service.RunOptions{
		Rows:       *rows,
		Iterations: *iters,
		Rounds:     *rounds,
		Engine:     *engine,
		JSONOut:    *jsonOut,
	})
	if err != nil {
		log.Fatalf("基准运行失败: %v", err)
	}

	fmt.Print(service.RenderMarkdown(payload, *engine))
}

func runServer(cfg *config.Config) {
	// 服务模式必须有数据库，否则没有历史可查
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	svcCtx := service.NewServiceContext(cfg)
	r := router.SetupRouter(svcCtx)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("服务启动在 %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("环境变量 %s=%q 不是整数，忽略", key, v)
	}
	return fallback
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
