package lens

import "math"

// SurfaceMode 面型，由 Classify 预判一次，热循环内不再比较 epsilon
type SurfaceMode int

const (
	// Faceted 锯齿面：理想面高按 GrooveDepth 取模
	Faceted SurfaceMode = iota
	// Continuous 连续抛物面（GrooveDepth <= 0 时的普通平凸/平凹透镜）
	Continuous
	// Flat 平面：光学参数退化时的替代面
	Flat
)

func (m SurfaceMode) String() string {
	switch m {
	case Continuous:
		return "continuous"
	case Flat:
		return "flat"
	default:
		return "faceted"
	}
}

const (
	// opticsEpsilon 判定 焦距≈0 或 折射率≈1 的阈值
	opticsEpsilon = 1e-9
	// grooveEpsilon 加到取模周期上，把正好落在槽边界的采样推到下一条槽，
	// 避免浮点舍入产生一格宽的退化刻面
	grooveEpsilon = 1e-9
)

// Status 面型预判结果，随 mesh 一起返回给调用方，
// 退化替换必须可见，不能悄悄给出一块平板
type Status struct {
	Mode             SurfaceMode
	DegenerateOptics bool // 焦距或折射率退化，已替换为平面
	ZeroGrooveDepth  bool // 槽深为零，已替换为连续面
}

// Classify 根据 spec 预判面型
func (s *LensSpec) Classify() Status {
	if math.Abs(s.FocalLength) < opticsEpsilon || math.Abs(s.RefractiveIndex-1.0) < opticsEpsilon {
		return Status{Mode: Flat, DegenerateOptics: true}
	}
	if s.GrooveDepth <= 0 {
		return Status{Mode: Continuous, ZeroGrooveDepth: true}
	}
	return Status{Mode: Faceted}
}

// Profile 高度场求值器，纯函数，对同一 r 永远返回同一 z
type Profile struct {
	mode    SurfaceMode
	sag     float64 // 1 / (2·f·(n−1))
	modulus float64 // GrooveDepth + grooveEpsilon
}

// NewProfile 做一次面型预判并固化求值系数
func NewProfile(s *LensSpec) (Profile, Status) {
	st := s.Classify()
	p := Profile{mode: st.Mode}
	if st.Mode != Flat {
		p.sag = 1.0 / (2.0 * s.FocalLength * (s.RefractiveIndex - 1.0))
	}
	if st.Mode == Faceted {
		p.modulus = s.GrooveDepth + grooveEpsilon
	}
	return p, st
}

// Height 半径 r 处的面高
// 理想面：z = r² / (2·f·(n−1))，近轴抛物近似，对正负焦距都成立
// 锯齿面：理想面高对 (GrooveDepth+ε) 取模，归一化到 [0, modulus)
func (p Profile) Height(r float64) float64 {
	switch p.mode {
	case Flat:
		return 0
	case Continuous:
		return r * r * p.sag
	default:
		z := math.Mod(r*r*p.sag, p.modulus)
		if z < 0 {
			z += p.modulus
		}
		return z
	}
}

// Mode 返回固化的面型
func (p Profile) Mode() SurfaceMode { return p.mode }
