// Package grid 把 LensSpec 的连续定义域离散成带高度的采样网格，
// 供 mesh 包缝合成封闭实体
package grid

import "github.com/chaos-io/fresnel2STL/lens"

// Point 一个采样点：笛卡尔坐标 + 半径 + 面高
// polar 拓扑下 (X, Y) 由 (ring, segment) 解算得到，半径是天然参数；
// cartesian 拓扑下半径是派生量，两种拓扑都同时记录两者
type Point struct {
	X, Y float64
	R    float64
	Z    float64
}

// Grid 一次生成私有的采样网格，构造后只读
// 索引映射是闭式函数，mesh 的并行 worker 据此算出互不重叠的输出区间
type Grid struct {
	Topology lens.Topology

	// cartesian：Rows×Cols 顶点网格（Divisions+1 每轴）
	Divisions int
	Rows      int
	Cols      int

	// polar：ring 0 是圆心单点，ring 1..Rings 每环 Segments 个点
	Rings    int
	Segments int

	Points []Point
}

// Sample 按 spec 的拓扑分发到对应的采样器
// 调用方应持有返回的网格复用（建网、渲染预览都从同一张网格出），不要重复采样
func Sample(spec *lens.LensSpec) (*Grid, lens.Status) {
	if spec.Topology == lens.Polar {
		return SamplePolar(spec)
	}
	return SampleCartesian(spec)
}

// Index (row, col) → 扁平下标，行优先（外层 row，内层 col）
func (g *Grid) Index(row, col int) int {
	return row*g.Cols + col
}

// At 取 cartesian 采样点
func (g *Grid) At(row, col int) Point {
	return g.Points[g.Index(row, col)]
}

// PolarIndex (ring, seg) → 扁平下标
// ring 0 只有一个点（圆心），不展开成 Segments 个重合点
func (g *Grid) PolarIndex(ring, seg int) int {
	if ring == 0 {
		return 0
	}
	return 1 + (ring-1)*g.Segments + seg
}

// AtPolar 取 polar 采样点，seg 按角向取模（polar 在角向是循环的）
func (g *Grid) AtPolar(ring, seg int) Point {
	if ring > 0 {
		seg = ((seg % g.Segments) + g.Segments) % g.Segments
	}
	return g.Points[g.PolarIndex(ring, seg)]
}
