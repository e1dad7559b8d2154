// Package mesh 把采样网格缝合成封闭、外向一致绕序的三角实体
package mesh

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chaos-io/fresnel2STL/grid"
	"github.com/chaos-io/fresnel2STL/lens"
)

// Triangle 三角形，三个顶点 + 由绕序隐含的外向法线
type Triangle = sdf.Triangle3

// Mesh 有序三角形序列，每个三角形持有自己的三份顶点拷贝（不做共享顶点去重，
// 和 STL 的展平顶点缓冲一致）；构造一次之后只读，被 writer 消费一次
type Mesh []Triangle

// Count 三角形总数
func (m Mesh) Count() int { return len(m) }

// ErrStructuralMismatch 实际产出的三角形数和闭式公式不一致，
// 说明建网逻辑有 bug，永远是致命错误，不是用户输入问题
var ErrStructuralMismatch = errors.New("triangle count mismatch")

// ExpectedTriangles 封闭实体的三角形总数，分辨率的闭式函数
//
//	cartesian: 顶面 2d² + 底面 2d² + 四边侧壁 4·2d = 4d² + 8d
//	polar:     顶面 S + 2S(R−1) + 底面同 + 外环侧壁 2S = 4·R·S
//
// （R 个环、ring 0 为圆心单点；圆心是极点不是边界，没有侧壁）
func ExpectedTriangles(spec *lens.LensSpec) int {
	if spec.Topology == lens.Polar {
		return 4 * spec.Rings * spec.Segments
	}
	d := spec.Divisions
	return 4*d*d + 8*d
}

// Generate 校验 → 采样 → 建网，并核对闭式三角形数
func Generate(spec *lens.LensSpec) (Mesh, lens.Status, error) {
	if err := spec.Validate(); err != nil {
		return nil, lens.Status{}, err
	}
	g, st := grid.Sample(spec)
	m, err := FromGrid(g, spec)
	if err != nil {
		return nil, st, err
	}
	return m, st, nil
}

// FromGrid 对已采样的网格建网并核对闭式三角形数
// 高度场只算一次：调用方把同一张网格再交给 preview 渲染，不必重新采样
func FromGrid(g *grid.Grid, spec *lens.LensSpec) (Mesh, error) {
	m := Build(g, spec.Thickness)
	if want := ExpectedTriangles(spec); len(m) != want {
		return nil, fmt.Errorf("%w: emitted %d, expected %d", ErrStructuralMismatch, len(m), want)
	}
	return m, nil
}

// Normal 三角形的单位外向法线；退化三角形（零面积）返回零向量而不是 NaN
func Normal(t Triangle) v3.Vec {
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])
	n := e1.Cross(e2)
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return v3.Vec{X: n.X / l, Y: n.Y / l, Z: n.Z / l}
}
