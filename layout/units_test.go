package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 1000}
	for _, pt := range samples {
		back := Length{Value: pt, Unit: UnitPT}.ToMM() * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseLength 覆盖常见单位与错误输入。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in     string
		wantMM float64
		wantPT float64
	}{
		{"10mm", 10, 10 * MmToPt},
		{"1cm", 10, 10 * MmToPt},
		{"1in", 25.4, 72.0 / 25.4 * 25.4 * (25.4 * MmToPt / 72.0)},
		{"12pt", 12 * PtToMm, 12},
		{" 7 ", 7, 7},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", c.in, err)
		}
		if diff := math.Abs(l.ToMM() - c.wantMM); diff > 1e-9 {
			t.Fatalf("%q 转 mm 期望 %g，实际 %g", c.in, c.wantMM, l.ToMM())
		}
		if diff := math.Abs(l.ToPT() - c.wantPT); diff > 1e-6 {
			t.Fatalf("%q 转 pt 期望 %g，实际 %g", c.in, c.wantPT, l.ToPT())
		}
	}
	for _, bad := range []string{"", "abc", "-3mm", "mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q 应该解析失败", bad)
		}
	}
}
