package lens

import (
	"errors"
	"fmt"
)

// Topology 采样拓扑：矩形网格 或 同心圆环
type Topology int

const (
	Cartesian Topology = iota
	Polar
)

func (t Topology) String() string {
	if t == Polar {
		return "polar"
	}
	return "cartesian"
}

// ErrInvalidParameter 参数非法，在采样开始前直接失败，不产生部分结果
var ErrInvalidParameter = errors.New("invalid lens parameter")

// LensSpec 一次生成所需的全部光学/几何参数
// 所有长度使用同一单位（由调用方在构造前换算好），引擎内部不做任何缩放
type LensSpec struct {
	Topology Topology

	// cartesian 域
	Width  float64
	Height float64

	// polar 域
	Diameter float64

	FocalLength     float64 // 带符号，正=会聚 负=发散
	RefractiveIndex float64 // > 1
	GrooveDepth     float64 // <= 0 表示连续面（普通平凸透镜）
	Thickness       float64 // 实体厚度，底面在 z = -Thickness

	// 分辨率
	Divisions int // cartesian：每轴单元数，顶点数为 Divisions+1
	Rings     int // polar：同心圆环数
	Segments  int // polar：每环角向分段数
}

// Validate 采样前的快速校验，任何一项不过直接判死当前请求
func (s *LensSpec) Validate() error {
	switch s.Topology {
	case Polar:
		if s.Rings <= 0 {
			return fmt.Errorf("%w: rings must be positive, got %d", ErrInvalidParameter, s.Rings)
		}
		if s.Segments <= 0 {
			return fmt.Errorf("%w: segments must be positive, got %d", ErrInvalidParameter, s.Segments)
		}
		if s.Diameter <= 0 {
			return fmt.Errorf("%w: diameter must be positive, got %g", ErrInvalidParameter, s.Diameter)
		}
	default:
		if s.Divisions <= 0 {
			return fmt.Errorf("%w: divisions must be positive, got %d", ErrInvalidParameter, s.Divisions)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: width and height must be positive, got %gx%g", ErrInvalidParameter, s.Width, s.Height)
		}
	}
	if s.RefractiveIndex <= 1.0 {
		return fmt.Errorf("%w: refractive index must be greater than 1.0, got %g", ErrInvalidParameter, s.RefractiveIndex)
	}
	if s.Thickness <= 0 {
		return fmt.Errorf("%w: thickness must be positive, got %g", ErrInvalidParameter, s.Thickness)
	}
	return nil
}
