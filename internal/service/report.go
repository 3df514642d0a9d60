package service

import (
	"fmt"
	"strings"
)

// RenderMarkdown 把一次运行渲染成 markdown 对比表。
// 只是给人看的视图，权威数据以 JSON 工件为准。
func RenderMarkdown(payload *RunPayload, engine string) string {
	if engine == "" {
		engine = "pandas"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("# tabular-bench vs %s benchmark\n", engine))
	b.WriteString(fmt.Sprintf("rows=%d, iterations=%d, rounds=%d, cases=%d\n",
		payload.Rows, payload.Iterations, payload.Rounds, payload.Cases))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("| case | dataset | %s avg |\n", engine))
	b.WriteString("| --- | --- | ---: |\n")
	for _, r := range payload.Results {
		b.WriteString(fmt.Sprintf("| %s | %s | %.2fms |\n", r.Case, r.Dataset, r.AvgMs))
	}
	return b.String()
}
