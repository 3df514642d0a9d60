package service

import (
	"reflect"
	"testing"
)

// TestBuildDatasetDeterminism 相同参数两次构建必须逐行一致（固定种子、无外部熵）
func TestBuildDatasetDeterminism(t *testing.T) {
	flagCombos := []DatasetFlags{
		{},
		{Skew: true},
		{HighCardinality: true},
		{IncludeMissing: true},
		{Wide: true},
		{Skew: true, Wide: true, HighCardinality: true, IncludeMissing: true},
	}

	for _, flags := range flagCombos {
		a := BuildDataset("base", 500, flags)
		b := BuildDataset("base", 500, flags)
		if !reflect.DeepEqual(a.Rows, b.Rows) {
			t.Fatalf("flags=%+v 两次构建结果不一致", flags)
		}
	}

	// 空数据集也要成立
	empty := BuildDataset("base", 0, DatasetFlags{})
	if len(empty.Rows) != 0 {
		t.Fatalf("rowCount=0 应该得到空数据集, got %d 行", len(empty.Rows))
	}
}

// TestDerivedFields revenue 和 bucket 必须是 value/weight 的纯函数派生
func TestDerivedFields(t *testing.T) {
	ds := BuildDataset("base", 1000, DatasetFlags{})

	for _, r := range ds.Rows {
		if r.Value < 0 || r.Value >= 1000 {
			t.Fatalf("行 %d: value=%d 超出 [0,1000)", r.ID, r.Value)
		}
		if r.Weight < 0.5 || r.Weight > 5.5 {
			t.Fatalf("行 %d: weight=%v 超出 [0.5,5.5]", r.ID, r.Weight)
		}

		wantRevenue := round2(float64(r.Value) * r.Weight)
		if r.Revenue != wantRevenue {
			t.Fatalf("行 %d: revenue=%v, want %v", r.ID, r.Revenue, wantRevenue)
		}

		wantBucket := "low"
		if r.Value > 700 {
			wantBucket = "high"
		} else if r.Value > 350 {
			wantBucket = "mid"
		}
		if r.Bucket != wantBucket {
			t.Fatalf("行 %d: value=%d bucket=%s, want %s", r.ID, r.Value, r.Bucket, wantBucket)
		}

		if r.Active != (r.ID%3 == 0) {
			t.Fatalf("行 %d: active=%v 不符合 id%%3==0", r.ID, r.Active)
		}
	}
}

// TestSkewGroups 倾斜模式：每 100 行的前 70 行强制第一个类别，其余按 i%6 循环
func TestSkewGroups(t *testing.T) {
	ds := BuildDataset("base", 500, DatasetFlags{Skew: true})

	for _, r := range ds.Rows {
		if r.ID%100 < 70 {
			if r.Group != "A" {
				t.Fatalf("行 %d: 块内前 70%% 应为 A, got %s", r.ID, r.Group)
			}
		} else if r.Group != groupNames[r.ID%len(groupNames)] {
			t.Fatalf("行 %d: 块内剩余应循环取类别, got %s", r.ID, r.Group)
		}
	}

	// 每个 100 行块里被强制成第一个类别的至少 70 行（循环部分也可能落在 A 上）
	for block := 0; block < 5; block++ {
		count := 0
		for i := block * 100; i < (block+1)*100; i++ {
			if ds.Rows[i].Group == "A" {
				count++
			}
		}
		if count < 70 {
			t.Fatalf("块 %d: A 类行数=%d, 至少应为 70", block, count)
		}
	}

	// 非倾斜模式：纯循环
	plain := BuildDataset("base", 300, DatasetFlags{})
	for _, r := range plain.Rows {
		if r.Group != groupNames[r.ID%len(groupNames)] {
			t.Fatalf("行 %d: 非倾斜模式应纯循环, got %s", r.ID, r.Group)
		}
	}
}

// TestMissingInjection city 在 i%23==0 时为 null，segment 在 i%31==0 时为 null；关闭时无 null
func TestMissingInjection(t *testing.T) {
	ds := BuildDataset("missing", 200, DatasetFlags{IncludeMissing: true})
	for _, r := range ds.Rows {
		if (r.City == nil) != (r.ID%23 == 0) {
			t.Fatalf("行 %d: city null 注入位置错误", r.ID)
		}
		if (r.Segment == nil) != (r.ID%31 == 0) {
			t.Fatalf("行 %d: segment null 注入位置错误", r.ID)
		}
		if r.City != nil && *r.City != cityNames[r.ID%len(cityNames)] {
			t.Fatalf("行 %d: city=%s 不符合循环取值", r.ID, *r.City)
		}
		if r.Segment != nil && *r.Segment != segmentNames[r.ID%len(segmentNames)] {
			t.Fatalf("行 %d: segment=%s 不符合循环取值", r.ID, *r.Segment)
		}
	}

	plain := BuildDataset("base", 200, DatasetFlags{})
	for _, r := range plain.Rows {
		if r.City == nil || r.Segment == nil {
			t.Fatalf("行 %d: 未开启缺失模式却出现 null", r.ID)
		}
	}
}

// TestKeyCardinality 高基数模式逐行唯一键，低基数模式按固定模数循环
func TestKeyCardinality(t *testing.T) {
	high := BuildDataset("high_card", 300, DatasetFlags{HighCardinality: true})
	seen := map[string]bool{}
	for i, r := range high.Rows {
		if seen[r.UserKey] {
			t.Fatalf("行 %d: 高基数 user_key 重复: %s", i, r.UserKey)
		}
		seen[r.UserKey] = true
	}

	low := BuildDataset("base", 300, DatasetFlags{})
	users := map[string]bool{}
	sessions := map[string]bool{}
	for _, r := range low.Rows {
		users[r.UserKey] = true
		sessions[r.SessionKey] = true
	}
	if len(users) != 120 {
		t.Fatalf("低基数 user_key 去重数=%d, want 120", len(users))
	}
	if len(sessions) != 300 {
		t.Fatalf("低基数 session_key 去重数=%d, want 300", len(sessions))
	}
}

// TestWideExtras wide 模式追加 extra_0..extra_9 = (value+k)%(50+k)
func TestWideExtras(t *testing.T) {
	wide := BuildDataset("base", 100, DatasetFlags{Wide: true})
	for _, r := range wide.Rows {
		if len(r.Extras) != 10 {
			t.Fatalf("行 %d: extras 长度=%d, want 10", r.ID, len(r.Extras))
		}
		for k, v := range r.Extras {
			if v != (r.Value+k)%(50+k) {
				t.Fatalf("行 %d: extra_%d=%d, want %d", r.ID, k, v, (r.Value+k)%(50+k))
			}
		}
	}

	plain := BuildDataset("base", 100, DatasetFlags{})
	for _, r := range plain.Rows {
		if r.Extras != nil {
			t.Fatalf("行 %d: 非 wide 模式不应有 extras", r.ID)
		}
	}
}
