package grid

import (
	"math"

	"github.com/chaos-io/fresnel2STL/lens"
)

// SampleCartesian 在 [-W/2, W/2] × [-H/2, H/2] 上取 (d+1)×(d+1) 顶点网格，
// 每轴均匀步进，逐点求面高
// 注意是顶点网格不是单元网格：d 个单元需要 d+1 个顶点
func SampleCartesian(spec *lens.LensSpec) (*Grid, lens.Status) {
	prof, st := lens.NewProfile(spec)

	d := spec.Divisions
	n := d + 1
	g := &Grid{
		Topology:  lens.Cartesian,
		Divisions: d,
		Rows:      n,
		Cols:      n,
		Points:    make([]Point, n*n),
	}

	for row := 0; row < n; row++ {
		y := -spec.Height/2 + spec.Height*float64(row)/float64(d)
		for col := 0; col < n; col++ {
			x := -spec.Width/2 + spec.Width*float64(col)/float64(d)
			r := math.Hypot(x, y)
			g.Points[g.Index(row, col)] = Point{X: x, Y: y, R: r, Z: prof.Height(r)}
		}
	}

	return g, st
}
