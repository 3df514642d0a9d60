package service

import (
	"fmt"
	"sort"
	"time"
)

// 预热次数：吸收惰性分配、缓存预热等一次性开销，预热结果和耗时全部丢弃
const warmupRuns = 3

// Measurement 单个用例的计时结果：每轮的平均耗时，以及各轮均值的中位数。
// 取中位数而不是总平均，是为了压掉个别被系统抖动打中的轮次。
type Measurement struct {
	RoundAverages []float64
	RobustAvgMs   float64
}

// Measure 对一个操作做完整计时：预热 -> rounds 轮、每轮 iterations 次顺序调用 -> 轮均值取中位数。
// 全程严格串行，不引入任何并发，避免调度噪声污染墙钟测量。
func Measure(name string, op Operation, ds *Dataset, iterations, rounds int) (*Measurement, error) {
	for i := 0; i < warmupRuns; i++ {
		if _, err := invoke(name, op, ds); err != nil {
			return nil, err
		}
	}

	roundAverages := make([]float64, 0, rounds)
	for r := 0; r < rounds; r++ {
		total := 0.0
		for it := 0; it < iterations; it++ {
			start := time.Now()
			if _, err := invoke(name, op, ds); err != nil {
				return nil, err
			}
			total += float64(time.Since(start)) / float64(time.Millisecond)
		}
		roundAverages = append(roundAverages, total/float64(iterations))
	}

	return &Measurement{
		RoundAverages: roundAverages,
		RobustAvgMs:   median(roundAverages),
	}, nil
}

func invoke(name string, op Operation, ds *Dataset) (int, error) {
	out, err := op.Apply(ds)
	if err != nil {
		return 0, fmt.Errorf("用例 %s 执行失败: %w", name, err)
	}
	if out < 0 {
		return 0, fmt.Errorf("用例 %s 返回负结果 %d: %w", name, out, ErrContractViolation)
	}
	return out, nil
}

// median 中位数：奇数个取中间值，偶数个取中间两个的平均；空序列返回 0
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
