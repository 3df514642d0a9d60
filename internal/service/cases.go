package service

import (
	"errors"
	"fmt"
	"sort"
)

// ErrContractViolation 被测操作没有产出有效结果。
// 这是编程错误而不是瞬时故障：整个 run 立刻终止，不重试、不写任何部分结果。
var ErrContractViolation = errors.New("操作未返回有效结果")

// Operation 一个被测操作：对只读数据集求值，返回结果基数（如建模查询的结果行数）。
// 对 harness 来说操作是不透明的；返回错误或负数都视为契约违规。
type Operation interface {
	Apply(ds *Dataset) (int, error)
}

// CaseDef 一个基准用例：名字、绑定的数据集变体、被测操作。启动时静态注册，之后不再变更。
type CaseDef struct {
	Name    string
	Dataset string
	Op      Operation
}

// DefaultCases 固定用例表。顺序即注册顺序，报告永远按这个顺序输出，不按耗时重排。
func DefaultCases() []CaseDef {
	return []CaseDef{
		{Name: "groupby_mean", Dataset: "base", Op: groupByMeanOp{}},
		{Name: "filter_sort_top100", Dataset: "base", Op: filterSortTopOp{limit: 100}},
		{Name: "sort_top1000", Dataset: "base", Op: sortTopOp{limit: 1000}},
		{Name: "sort_multicol_top800", Dataset: "base", Op: sortMulticolTopOp{limit: 800}},
		{Name: "value_counts_city", Dataset: "base", Op: valueCountsCityOp{dropNull: true}},
		{Name: "value_counts_group_city_top10", Dataset: "base", Op: valueCountsGroupCityOp{limit: 10}},
		{Name: "value_counts_missing_city_dropna_false", Dataset: "missing", Op: valueCountsCityOp{dropNull: false}},
		{Name: "groupby_missing_city_mean", Dataset: "missing", Op: groupByCityMeanOp{}},
		{Name: "value_counts_high_card_city_top20", Dataset: "high_card", Op: valueCountsUserCityOp{limit: 20}},
		{Name: "value_counts_high_card_user_top100", Dataset: "high_card", Op: valueCountsUserOp{limit: 100}},
	}
}

// null 值在计数键里的占位符（dropna=false 语义下 null 自成一桶）
const nullBucket = "\x00<null>"

func cityKey(r *Row) (string, bool) {
	if r.City == nil {
		return nullBucket, false
	}
	return *r.City, true
}

// groupByMeanOp 按 group 分组：组内求 value 均值与 revenue 总和，返回组数
type groupByMeanOp struct{}

func (groupByMeanOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	type agg struct {
		n          int
		sumValue   int
		sumRevenue float64
	}
	groups := map[string]*agg{}
	for i := range ds.Rows {
		r := &ds.Rows[i]
		a := groups[r.Group]
		if a == nil {
			a = &agg{}
			groups[r.Group] = a
		}
		a.n++
		a.sumValue += r.Value
		a.sumRevenue += r.Revenue
	}
	// 实际算出均值，保证计时覆盖完整的聚合开销
	for _, a := range groups {
		_ = float64(a.sumValue) / float64(a.n)
	}
	return len(groups), nil
}

// filterSortTopOp 过滤 active 且 value>500 的行，按 value 降序取前 limit 行，返回行数
type filterSortTopOp struct {
	limit int
}

func (op filterSortTopOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	kept := make([]int, 0, len(ds.Rows))
	for i := range ds.Rows {
		r := &ds.Rows[i]
		if r.Active && r.Value > 500 {
			kept = append(kept, r.Value)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(kept)))
	return minInt(op.limit, len(kept)), nil
}

// sortTopOp 全表按 value 降序取前 limit 行，返回行数
type sortTopOp struct {
	limit int
}

func (op sortTopOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	values := make([]int, len(ds.Rows))
	for i := range ds.Rows {
		values[i] = ds.Rows[i].Value
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return minInt(op.limit, len(values)), nil
}

// sortMulticolTopOp 多列排序（city 升序、value 降序、id 升序）后取前 limit 行。
// null city 排在最后（与参照实现的缺省 NaN 位置一致）。
type sortMulticolTopOp struct {
	limit int
}

func (op sortMulticolTopOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	idx := make([]int, len(ds.Rows))
	for i := range idx {
		idx[i] = i
	}
	rows := ds.Rows
	sort.Slice(idx, func(a, b int) bool {
		ra, rb := &rows[idx[a]], &rows[idx[b]]
		switch {
		case ra.City == nil && rb.City == nil:
		case ra.City == nil:
			return false
		case rb.City == nil:
			return true
		case *ra.City != *rb.City:
			return *ra.City < *rb.City
		}
		if ra.Value != rb.Value {
			return ra.Value > rb.Value
		}
		return ra.ID < rb.ID
	})
	return minInt(op.limit, len(idx)), nil
}

// valueCountsCityOp 按 city 去重计数。dropNull 为 false 时 null 自成一桶参与计数。
type valueCountsCityOp struct {
	dropNull bool
}

func (op valueCountsCityOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	counts := map[string]int{}
	for i := range ds.Rows {
		key, ok := cityKey(&ds.Rows[i])
		if !ok && op.dropNull {
			continue
		}
		counts[key]++
	}
	return len(sortedCountsHead(counts, 0)), nil
}

// valueCountsGroupCityOp 按 (group, city) 去重计数，返回前 limit 个组合
type valueCountsGroupCityOp struct {
	limit int
}

func (op valueCountsGroupCityOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	counts := map[string]int{}
	for i := range ds.Rows {
		r := &ds.Rows[i]
		if r.City == nil {
			continue
		}
		counts[r.Group+"\x1f"+*r.City]++
	}
	return len(sortedCountsHead(counts, op.limit)), nil
}

// groupByCityMeanOp 按 city 分组（null 自成一桶）求 value 均值，返回组数
type groupByCityMeanOp struct{}

func (groupByCityMeanOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	type agg struct {
		n   int
		sum int
	}
	groups := map[string]*agg{}
	for i := range ds.Rows {
		r := &ds.Rows[i]
		key, _ := cityKey(r)
		a := groups[key]
		if a == nil {
			a = &agg{}
			groups[key] = a
		}
		a.n++
		a.sum += r.Value
	}
	for _, a := range groups {
		_ = float64(a.sum) / float64(a.n)
	}
	return len(groups), nil
}

// valueCountsUserCityOp 按 (user_key, city) 去重计数，返回前 limit 个组合
type valueCountsUserCityOp struct {
	limit int
}

func (op valueCountsUserCityOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	counts := map[string]int{}
	for i := range ds.Rows {
		r := &ds.Rows[i]
		if r.City == nil {
			continue
		}
		counts[r.UserKey+"\x1f"+*r.City]++
	}
	return len(sortedCountsHead(counts, op.limit)), nil
}

// valueCountsUserOp 按 user_key 去重计数，返回前 limit 个键
type valueCountsUserOp struct {
	limit int
}

func (op valueCountsUserOp) Apply(ds *Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("%w: 数据集为空", ErrContractViolation)
	}
	counts := map[string]int{}
	for i := range ds.Rows {
		counts[ds.Rows[i].UserKey]++
	}
	return len(sortedCountsHead(counts, op.limit)), nil
}

// sortedCountsHead 按计数降序排序后取前 limit 个键（limit<=0 表示全部）。
// 排序本身是 value_counts 语义的一部分，必须留在计时路径里。
func sortedCountsHead(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if counts[keys[a]] != counts[keys[b]] {
			return counts[keys[a]] > counts[keys[b]]
		}
		return keys[a] < keys[b]
	})
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
