package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/fresnel2STL/lens"
)

func cartesianSpec(d int) *lens.LensSpec {
	return &lens.LensSpec{
		Width: 100, Height: 100,
		FocalLength: 150, RefractiveIndex: 1.52,
		GrooveDepth: 0.5, Thickness: 5,
		Divisions: d,
	}
}

func TestSampleCartesianDimensions(t *testing.T) {
	// d 个单元 = d+1 个顶点，这里差一错位是最容易犯的 bug，必须显式钉死
	for _, d := range []int{1, 2, 10, 80} {
		g, _ := SampleCartesian(cartesianSpec(d))
		require.Equal(t, d+1, g.Rows, "d=%d", d)
		require.Equal(t, d+1, g.Cols, "d=%d", d)
		require.Len(t, g.Points, (d+1)*(d+1), "d=%d", d)
	}
}

func TestSampleCartesianDomain(t *testing.T) {
	g, _ := SampleCartesian(cartesianSpec(10))

	// 角点正好落在 ±W/2 ±H/2
	assert.Equal(t, -50.0, g.At(0, 0).X)
	assert.Equal(t, -50.0, g.At(0, 0).Y)
	assert.Equal(t, 50.0, g.At(10, 10).X)
	assert.Equal(t, 50.0, g.At(10, 10).Y)

	// 行优先：row 定 y，col 定 x
	assert.Equal(t, g.At(3, 0).Y, g.At(3, 7).Y)
	assert.Equal(t, g.At(0, 4).X, g.At(9, 4).X)

	// 中心采样在原点，高度为 0
	center := g.At(5, 5)
	assert.Equal(t, 0.0, center.X)
	assert.Equal(t, 0.0, center.Y)
	assert.Equal(t, 0.0, center.Z)

	for _, p := range g.Points {
		assert.Equal(t, math.Hypot(p.X, p.Y), p.R)
	}
}

func TestSampleCartesianRadialSymmetry(t *testing.T) {
	// 高度只依赖 r，四象限镜像采样的高度必须一致
	g, _ := SampleCartesian(cartesianSpec(8))

	for row := 0; row <= 8; row++ {
		for col := 0; col <= 8; col++ {
			p := g.At(row, col)
			for _, q := range []Point{
				g.At(8-row, col),
				g.At(row, 8-col),
				g.At(col, row),
			} {
				require.InDelta(t, p.R, q.R, 1e-12)
				assert.InDelta(t, p.Z, q.Z, 1e-12)
			}
		}
	}
}

func TestIndexRowMajor(t *testing.T) {
	g, _ := SampleCartesian(cartesianSpec(4))
	assert.Equal(t, 0, g.Index(0, 0))
	assert.Equal(t, 1, g.Index(0, 1))
	assert.Equal(t, 5, g.Index(1, 0))
	assert.Equal(t, 24, g.Index(4, 4))
}
