// Package stl 把 mesh 序列化成 STL（二进制为主，ASCII 供调试）
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chaos-io/fresnel2STL/mesh"
)

const (
	headerSize = 80
	recordSize = 50 // 12 个 float32 + 2 字节保留位
)

// WriteBinary 按小端二进制 STL 布局写出：
// 80 字节自由头 + uint32 三角形数 + 每三角形 50 字节（法线 + 3 顶点）
// count 字段必须和实际三角形数严格相等，expected 不符时在写任何字节前
// 就以 ErrStructuralMismatch 失败，绝不输出截断/填充的文件
func WriteBinary(w io.Writer, name string, m mesh.Mesh, expected int) (int, error) {
	if len(m) != expected {
		return 0, fmt.Errorf("%w: mesh has %d triangles, builder expected %d",
			mesh.ErrStructuralMismatch, len(m), expected)
	}

	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(m)))
	if _, err := bw.Write(count[:]); err != nil {
		return 0, fmt.Errorf("write count: %w", err)
	}

	var rec [recordSize]byte
	for i := range m {
		n := mesh.Normal(m[i])
		putVec(rec[0:], n)
		putVec(rec[12:], m[i][0])
		putVec(rec[24:], m[i][1])
		putVec(rec[36:], m[i][2])
		rec[48], rec[49] = 0, 0
		if _, err := bw.Write(rec[:]); err != nil {
			return 0, fmt.Errorf("write triangle %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	return len(m), nil
}

func putVec(b []byte, v v3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}

// SaveBinary 写二进制 STL 文件
func SaveBinary(path, name string, m mesh.Mesh, expected int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := WriteBinary(f, name, m, expected); err != nil {
		return err
	}
	return nil
}

// WriteASCII 写 ASCII STL，调试和肉眼检查用
func WriteASCII(w io.Writer, name string, m mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	_, _ = fmt.Fprintf(bw, "solid %s\n", name)
	for i := range m {
		n := mesh.Normal(m[i])
		_, _ = fmt.Fprintf(bw, "  facet normal %f %f %f\n", n.X, n.Y, n.Z)
		_, _ = fmt.Fprintln(bw, "    outer loop")
		for _, v := range m[i] {
			_, _ = fmt.Fprintf(bw, "      vertex %f %f %f\n", v.X, v.Y, v.Z)
		}
		_, _ = fmt.Fprintln(bw, "    endloop")
		_, _ = fmt.Fprintln(bw, "  endfacet")
	}
	_, _ = fmt.Fprintf(bw, "endsolid %s\n", name)

	return bw.Flush()
}

// SaveASCII 写 ASCII STL 文件
func SaveASCII(path, name string, m mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return WriteASCII(f, name, m)
}
