package mesh

import (
	"runtime"
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chaos-io/fresnel2STL/grid"
	"github.com/chaos-io/fresnel2STL/lens"
)

// Build 把一个采样网格拉伸成封闭实体：
// 锯齿顶面 + z = -thickness 平底 + 域边界上的竖直侧壁
// 所有三角形从实体外侧看逆时针绕序（右手法则，法线向外）
//
// 每个采样同时给出 TOP 顶点 (x,y,z) 和 BACK 顶点 (x,y,-thickness)，
// 一一对应，侧壁就按这对应关系缝合
//
// 逐行/逐环的三角形输出下标是闭式的，按行区间分派给 worker，
// 各写各的预分配区间，无锁也不需要合并；输入网格的尺寸一致性
// 是 grid 包的构造契约，这里不再校验
func Build(g *grid.Grid, thickness float64) Mesh {
	b := &builder{grid: g, back: -thickness}
	if g.Topology == lens.Polar {
		return b.buildPolar()
	}
	return b.buildCartesian()
}

type builder struct {
	grid *grid.Grid
	back float64 // 底面 z
	out  Mesh
}

func (b *builder) top(p grid.Point) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func (b *builder) bottom(p grid.Point) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: b.back}
}

// wallQuad 在下标 at 处写一段侧壁（2 个三角形）
// a → b 沿域边界逆时针行进（从 +z 俯视），外向法线落在行进方向右侧，
// 即指向远离实体水平中心的一侧
func (b *builder) wallQuad(at int, a, bp grid.Point) {
	aT, bT := b.top(a), b.top(bp)
	aB, bB := b.bottom(a), b.bottom(bp)
	b.out[at] = Triangle{aB, bB, bT}
	b.out[at+1] = Triangle{aB, bT, aT}
}

// parallel 把 [0, n) 均分给 NumCPU 个 worker
func parallel(n int, fn func(lo, hi int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// buildCartesian 输出布局：
//
//	[0, 2d²)        顶面，单元 (row, col) → 2·(row·d + col)
//	[2d², 4d²)      底面，同上偏移 2d²
//	[4d², 4d²+8d)   侧壁，南/东/北/西 各 2d
func (b *builder) buildCartesian() Mesh {
	g := b.grid
	d := g.Divisions
	backBase := 2 * d * d
	wallBase := 4 * d * d
	b.out = make(Mesh, 4*d*d+8*d)

	parallel(d, func(lo, hi int) {
		for row := lo; row < hi; row++ {
			for col := 0; col < d; col++ {
				p00 := g.At(row, col)
				p10 := g.At(row, col+1)
				p11 := g.At(row+1, col+1)
				p01 := g.At(row+1, col)

				// 顶面：从 +z 看逆时针（实体在下方，+z 是外侧）
				t := 2 * (row*d + col)
				b.out[t] = Triangle{b.top(p00), b.top(p10), b.top(p11)}
				b.out[t+1] = Triangle{b.top(p00), b.top(p11), b.top(p01)}

				// 底面：绕序取镜像，外侧在 −z 方向
				t += backBase
				b.out[t] = Triangle{b.bottom(p00), b.bottom(p11), b.bottom(p10)}
				b.out[t+1] = Triangle{b.bottom(p00), b.bottom(p01), b.bottom(p11)}
			}
		}
	})

	// 四条外边，沿边界逆时针一圈：南(+x) 东(+y) 北(−x) 西(−y)
	for j := 0; j < d; j++ {
		b.wallQuad(wallBase+2*j, g.At(0, j), g.At(0, j+1))
	}
	for i := 0; i < d; i++ {
		b.wallQuad(wallBase+2*d+2*i, g.At(i, d), g.At(i+1, d))
	}
	for j := 0; j < d; j++ {
		b.wallQuad(wallBase+4*d+2*j, g.At(d, j+1), g.At(d, j))
	}
	for i := 0; i < d; i++ {
		b.wallQuad(wallBase+6*d+2*i, g.At(i+1, 0), g.At(i, 0))
	}

	return b.out
}

// buildPolar 输出布局（S = Segments，R = Rings，topCount = S + 2S(R−1)）：
//
//	[0, S)                    圆心扇面（顶）
//	[S, topCount)             环带 r (1..R−1)，单元 (r, s) → S + 2·((r−1)·S + s)
//	[topCount, 2·topCount)    底面，镜像同布局
//	[2·topCount, 2·topCount+2S) 外环侧壁
//
// 圆心是极点不是域边界，没有侧壁；底面扇面始终存在（封闭实体）
func (b *builder) buildPolar() Mesh {
	g := b.grid
	rings, segs := g.Rings, g.Segments
	topCount := segs + 2*segs*(rings-1)
	backBase := topCount
	wallBase := 2 * topCount
	b.out = make(Mesh, 2*topCount+2*segs)

	hub := g.AtPolar(0, 0)

	// 环带 0 是圆心扇面，1..R−1 是四边形环带
	parallel(rings, func(lo, hi int) {
		for ring := lo; ring < hi; ring++ {
			if ring == 0 {
				for s := 0; s < segs; s++ {
					p0 := g.AtPolar(1, s)
					p1 := g.AtPolar(1, s+1) // s+1 回绕到 0
					b.out[s] = Triangle{b.top(hub), b.top(p0), b.top(p1)}
					b.out[backBase+s] = Triangle{b.bottom(hub), b.bottom(p1), b.bottom(p0)}
				}
				continue
			}
			for s := 0; s < segs; s++ {
				i0 := g.AtPolar(ring, s)
				i1 := g.AtPolar(ring, s+1)
				o0 := g.AtPolar(ring+1, s)
				o1 := g.AtPolar(ring+1, s+1)

				t := segs + 2*((ring-1)*segs+s)
				b.out[t] = Triangle{b.top(i0), b.top(o0), b.top(o1)}
				b.out[t+1] = Triangle{b.top(i0), b.top(o1), b.top(i1)}

				t += backBase
				b.out[t] = Triangle{b.bottom(i0), b.bottom(o1), b.bottom(o0)}
				b.out[t+1] = Triangle{b.bottom(i0), b.bottom(i1), b.bottom(o1)}
			}
		}
	})

	// 外环侧壁，角向递增即从 +z 俯视逆时针，外向法线沿径向朝外
	for s := 0; s < segs; s++ {
		b.wallQuad(wallBase+2*s, g.AtPolar(rings, s), g.AtPolar(rings, s+1))
	}

	return b.out
}
