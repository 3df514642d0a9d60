package service

import (
	"fmt"
	"math"
)

// 固定类别表：所有变体共用，顺序不能变（列基数和分组语义依赖它）
var (
	groupNames   = []string{"A", "B", "C", "D", "E", "F"}
	cityNames    = []string{"Austin", "Seattle", "Boston", "Denver", "Miami"}
	segmentNames = []string{"consumer", "enterprise", "startup"}
)

// Row 一行合成数据。City/Segment 用指针表达缺失值（include_missing 模式下按固定步长注入 null）。
// Revenue 和 Bucket 是 Value/Weight 的纯函数派生列，绝不单独随机。
type Row struct {
	ID         int
	Group      string
	City       *string
	Segment    *string
	Value      int
	Weight     float64
	Revenue    float64
	Active     bool
	Bucket     string
	UserKey    string
	SessionKey string
	// wide 模式下追加的 10 个派生整数列 extra_0..extra_9；非 wide 模式为 nil
	Extras []int
}

// Dataset 一个数据集变体：构建后只读，被引用同一变体的所有用例共享
type Dataset struct {
	Variant string
	Rows    []Row
}

// DatasetFlags 数据集形状开关
type DatasetFlags struct {
	Skew            bool
	Wide            bool
	HighCardinality bool
	IncludeMissing  bool
}

// BuildDataset 生成一个数据集变体。
// 每次调用都用固定种子重建生成器，因此相同参数的两次调用产出逐行一致的数据。
func BuildDataset(variant string, rowCount int, flags DatasetFlags) *Dataset {
	gen := NewSeqGen(datasetSeed)
	rows := make([]Row, 0, rowCount)

	for i := 0; i < rowCount; i++ {
		value := int(gen.Next() * 1000)
		weight := round2(gen.Next()*5 + 0.5)

		row := Row{
			ID:      i,
			Group:   pickGroup(i, flags.Skew),
			City:    pickNullable(cityNames, i, flags.IncludeMissing && i%23 == 0),
			Segment: pickNullable(segmentNames, i, flags.IncludeMissing && i%31 == 0),
			Value:   value,
			Weight:  weight,
			Revenue: round2(float64(value) * weight),
			Active:  i%3 == 0,
			Bucket:  bucketOf(value),
		}

		if flags.HighCardinality {
			row.UserKey = fmt.Sprintf("u_%d", i)
			row.SessionKey = fmt.Sprintf("s_%d", i*7)
		} else {
			row.UserKey = fmt.Sprintf("u_%d", i%120)
			row.SessionKey = fmt.Sprintf("s_%d", i%300)
		}

		if flags.Wide {
			extras := make([]int, 10)
			for k := 0; k < 10; k++ {
				extras[k] = (value + k) % (50 + k)
			}
			row.Extras = extras
		}

		rows = append(rows, row)
	}

	return &Dataset{Variant: variant, Rows: rows}
}

// BuildVariantDatasets 构建三个标准变体，每个变体只构建一次
func BuildVariantDatasets(rowCount int) map[string]*Dataset {
	return map[string]*Dataset{
		"base":      BuildDataset("base", rowCount, DatasetFlags{}),
		"high_card": BuildDataset("high_card", rowCount, DatasetFlags{HighCardinality: true}),
		"missing":   BuildDataset("missing", rowCount, DatasetFlags{IncludeMissing: true}),
	}
}

// 倾斜模式：每 100 行的前 70 行强制取第一个类别，其余按 i 对类别数取模循环
func pickGroup(i int, skew bool) string {
	if skew && i%100 < 70 {
		return groupNames[0]
	}
	return groupNames[i%len(groupNames)]
}

func pickNullable(names []string, i int, missing bool) *string {
	if missing {
		return nil
	}
	return &names[i%len(names)]
}

func bucketOf(value int) string {
	switch {
	case value > 700:
		return "high"
	case value > 350:
		return "mid"
	default:
		return "low"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
