package service

// SeqGen 确定性伪随机序列生成器（Numerical Recipes 线性同余）。
// 输出只由种子和调用次数决定，不引入任何外部熵，保证数据集跨运行、跨语言逐位可复现。
type SeqGen struct {
	state uint32
}

// 固定种子：所有数据集变体都从同一个种子重新开始生成
const datasetSeed = 42

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

func NewSeqGen(seed uint32) *SeqGen {
	return &SeqGen{state: seed}
}

// Next 返回 [0,1) 区间的下一个数。uint32 乘加自然对 2^32 取模。
func (g *SeqGen) Next() float64 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return float64(g.state) / (1 << 32)
}
