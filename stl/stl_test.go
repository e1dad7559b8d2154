package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/fresnel2STL/lens"
	"github.com/chaos-io/fresnel2STL/mesh"
	"github.com/chaos-io/fresnel2STL/util"
)

func testMesh(t *testing.T) (mesh.Mesh, int) {
	t.Helper()
	spec := &lens.LensSpec{
		Width: 10, Height: 10,
		FocalLength: 100, RefractiveIndex: 1.5,
		GrooveDepth: 0.5, Thickness: 2,
		Divisions: 2,
	}
	m, _, err := mesh.Generate(spec)
	require.NoError(t, err)
	return m, mesh.ExpectedTriangles(spec)
}

func TestWriteBinaryLayout(t *testing.T) {
	m, expected := testMesh(t)

	var buf bytes.Buffer
	n, err := WriteBinary(&buf, "fresnel_lens", m, expected)
	require.NoError(t, err)
	assert.Equal(t, len(m), n)

	// 80 字节 header + 4 字节 count + 每三角形 50 字节
	require.Equal(t, 84+50*len(m), buf.Len())

	data := buf.Bytes()
	assert.True(t, bytes.HasPrefix(data, []byte("fresnel_lens")))

	count := binary.LittleEndian.Uint32(data[80:84])
	assert.Equal(t, uint32(len(m)), count)
}

func TestWriteBinaryRecords(t *testing.T) {
	m, expected := testMesh(t)

	var buf bytes.Buffer
	_, err := WriteBinary(&buf, "lens", m, expected)
	require.NoError(t, err)
	data := buf.Bytes()

	readVec := func(off int) (x, y, z float64) {
		x = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:])))
		y = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])))
		z = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:])))
		return
	}

	for i := range m {
		off := 84 + 50*i

		// 法线来自绕序，应为单位向量
		nx, ny, nz := readVec(off)
		assert.InDelta(t, 1.0, math.Sqrt(nx*nx+ny*ny+nz*nz), 1e-5, "triangle %d normal", i)

		for v := 0; v < 3; v++ {
			x, y, z := readVec(off + 12 + 12*v)
			assert.InDelta(t, m[i][v].X, x, 1e-5)
			assert.InDelta(t, m[i][v].Y, y, 1e-5)
			assert.InDelta(t, m[i][v].Z, z, 1e-5)
		}

		// 保留位
		assert.Equal(t, []byte{0, 0}, data[off+48:off+50])
	}
}

func TestWriteBinaryCountMismatch(t *testing.T) {
	// 数量不符说明 builder 有结构性 bug，必须在写出任何字节前失败
	m, expected := testMesh(t)

	var buf bytes.Buffer
	_, err := WriteBinary(&buf, "lens", m[:len(m)-1], expected)
	require.ErrorIs(t, err, mesh.ErrStructuralMismatch)
	assert.Zero(t, buf.Len(), "不允许输出截断文件")
}

func TestWriteASCII(t *testing.T) {
	m, _ := testMesh(t)

	var buf bytes.Buffer
	require.NoError(t, WriteASCII(&buf, "relief_model", m))

	s := buf.String()
	assert.True(t, strings.HasPrefix(s, "solid relief_model\n"))
	assert.True(t, strings.HasSuffix(s, "endsolid relief_model\n"))
	assert.Equal(t, len(m), strings.Count(s, "facet normal"))
	assert.Equal(t, 3*len(m), strings.Count(s, "vertex"))
}

func TestSaveBinary(t *testing.T) {
	defer util.Trace("gen stl")()

	m, expected := testMesh(t)
	path := filepath.Join(t.TempDir(), "lens.stl")

	require.NoError(t, SaveBinary(path, "lens", m, expected))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(84+50*len(m)), info.Size())
}
