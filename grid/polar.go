package grid

import (
	"math"

	"github.com/chaos-io/fresnel2STL/lens"
)

// SamplePolar 生成同心圆环网格：圆心单点 + Rings 个环，
// 环半径从 0 均匀步进到 Diameter/2，角向均匀 2π/Segments
// 圆心只存一个共享点，不生成 Segments 个重合顶点
func SamplePolar(spec *lens.LensSpec) (*Grid, lens.Status) {
	prof, st := lens.NewProfile(spec)

	rings, segs := spec.Rings, spec.Segments
	radius := spec.Diameter / 2

	g := &Grid{
		Topology: lens.Polar,
		Rings:    rings,
		Segments: segs,
		Points:   make([]Point, 1+rings*segs),
	}

	// 圆心：r = 0 处公式良定义，z_ideal = 0
	g.Points[0] = Point{X: 0, Y: 0, R: 0, Z: prof.Height(0)}

	step := 2 * math.Pi / float64(segs)
	for ring := 1; ring <= rings; ring++ {
		r := radius * float64(ring) / float64(rings)
		z := prof.Height(r)
		for seg := 0; seg < segs; seg++ {
			a := step * float64(seg)
			g.Points[g.PolarIndex(ring, seg)] = Point{
				X: r * math.Cos(a),
				Y: r * math.Sin(a),
				R: r,
				Z: z,
			}
		}
	}

	return g, st
}
