package loom

import (
	"fmt"
	"testing"
)

// setupBenchEngine builds an engine over a chain of n connected steps.
func setupBenchEngine(n int) (*Engine, *fakeModel) {
	m := &fakeModel{}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("s%d", i)
		x := float64(i%100) * 200
		y := float64(i/100) * 120
		m.steps = append(m.steps, Step{
			ID: id, Position: Vec2{X: x, Y: y}, Visible: true,
			Inputs:  []Port{{ID: id + ".in", Kind: ElementInput, Step: id, Anchor: Vec2{X: x, Y: y + 20}, Visible: true}},
			Outputs: []Port{{ID: id + ".out", Kind: ElementOutput, Step: id, Anchor: Vec2{X: x + 120, Y: y + 20}, Visible: true}},
		})
		if i > 0 {
			prev := fmt.Sprintf("s%d", i-1)
			m.conns = append(m.conns, Connection{
				ID:         fmt.Sprintf("c%d", i),
				SourceStep: prev, SourcePort: prev + ".out",
				DestinationStep: id, DestinationPort: id + ".in",
				Visible: true,
			})
		}
	}
	e := New(m, newFakeRenderer(Rect{Width: 1280, Height: 720}))
	return e, m
}

func BenchmarkRoutePath(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = RoutePath(100, 100, 400, 300, DirectionRight)
	}
}

func BenchmarkCurveSample(b *testing.B) {
	c := RoutePath(100, 100, 400, 300, DirectionRight)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Sample(24)
	}
}

func BenchmarkRankCandidatePorts_1000(b *testing.B) {
	e, _ := setupBenchEngine(500)
	candidates := make([]string, 0, 1000)
	for _, id := range e.portOrder {
		candidates = append(candidates, id)
	}
	cursor := Vec2{X: 5000, Y: 300}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = RankCandidatePorts(candidates, cursor, e.anchorAt)
	}
}

func BenchmarkToCanvasSpace(b *testing.B) {
	v := NewViewport()
	v.ScaleAt(0.5, Vec2{X: 400, Y: 300})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.ToCanvasSpace(float64(i%1280), 300)
	}
}

func BenchmarkRender_500Steps(b *testing.B) {
	e, _ := setupBenchEngine(500)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.render()
	}
}

func BenchmarkNodeDragTick(b *testing.B) {
	e, _ := setupBenchEngine(100)
	e.BeginNodeDrag("s50", Vec2{X: 640, Y: 360})
	e.DragTo(Vec2{X: 1275, Y: 360}) // inside the right boundary zone
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Update(tickDt)
	}
}
