package service

import (
	"errors"
	"fmt"
	"testing"
)

// countingOp 记录调用次数的被测操作
type countingOp struct {
	calls *int
}

func (o countingOp) Apply(ds *Dataset) (int, error) {
	*o.calls++
	return 1, nil
}

// failingOp 模拟契约违规：不返回有效结果
type failingOp struct{}

func (failingOp) Apply(ds *Dataset) (int, error) {
	return 0, fmt.Errorf("%w: 被测操作没有产出", ErrContractViolation)
}

// negativeOp 返回负数结果，同样视为契约违规
type negativeOp struct{}

func (negativeOp) Apply(ds *Dataset) (int, error) {
	return -1, nil
}

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{5}, 5},
		{[]float64{2, 1}, 1.5},
		{nil, 0},
	}
	for _, c := range cases {
		if got := median(c.in); got != c.want {
			t.Errorf("median(%v)=%v, want %v", c.in, got, c.want)
		}
	}
}

// TestMeasureWarmupExclusion 预热 3 次不计入任何轮均值；轮数和结果序列长度一致
func TestMeasureWarmupExclusion(t *testing.T) {
	calls := 0
	ds := BuildDataset("base", 10, DatasetFlags{})

	m, err := Measure("counting", countingOp{calls: &calls}, ds, 2, 3)
	if err != nil {
		t.Fatalf("Measure 失败: %v", err)
	}

	// 3 次预热 + 3 轮 * 2 次计时
	if calls != 9 {
		t.Fatalf("调用次数=%d, want 9", calls)
	}
	if len(m.RoundAverages) != 3 {
		t.Fatalf("轮均值个数=%d, want 3", len(m.RoundAverages))
	}
	if m.RobustAvgMs != median(m.RoundAverages) {
		t.Fatalf("robust average 不是轮均值的中位数")
	}
	for i, avg := range m.RoundAverages {
		if avg < 0 {
			t.Fatalf("轮 %d 均值为负: %v", i, avg)
		}
	}
}

// TestMeasureContractViolation 契约违规立即让整个测量失败，不重试
func TestMeasureContractViolation(t *testing.T) {
	ds := BuildDataset("base", 10, DatasetFlags{})

	if _, err := Measure("failing", failingOp{}, ds, 1, 1); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("want ErrContractViolation, got %v", err)
	}
	if _, err := Measure("negative", negativeOp{}, ds, 1, 1); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("负数结果也应视为契约违规, got %v", err)
	}
}

// TestMeasureWarmupContractViolation 预热阶段的契约违规同样致命
func TestMeasureWarmupContractViolation(t *testing.T) {
	calls := 0
	ds := BuildDataset("base", 10, DatasetFlags{})

	firstCallFails := opFunc(func(d *Dataset) (int, error) {
		calls++
		if calls == 1 {
			return 0, fmt.Errorf("%w: 首次调用即失败", ErrContractViolation)
		}
		return 1, nil
	})

	if _, err := Measure("warmup_fail", firstCallFails, ds, 1, 1); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("预热失败应直接终止, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("失败后不应继续调用, calls=%d", calls)
	}
}

// opFunc 测试辅助：函数适配成 Operation
type opFunc func(ds *Dataset) (int, error)

func (f opFunc) Apply(ds *Dataset) (int, error) {
	return f(ds)
}
