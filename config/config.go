// Package config 加载工具配置：默认值 < yaml 文件
// 毫米 → 目标单位的换算只在这里发生一次（UnitScale），
// 下游的采样/建网引擎拿到的是换算完的 LensSpec，不再关心单位
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaos-io/fresnel2STL/lens"
)

// Config 全部配置
type Config struct {
	Output  OutputConfig      `yaml:"output" json:"output"`
	Server  ServerConfig      `yaml:"server" json:"server"`
	Logging LoggingConfig     `yaml:"logging" json:"logging"`
	Presets map[string]Preset `yaml:"presets" json:"presets"`
}

// OutputConfig 输出位置与单位
type OutputConfig struct {
	Dir       string  `yaml:"dir" json:"dir"`
	UnitScale float64 `yaml:"unit_scale" json:"unit_scale"` // 毫米 → 目标单位，如 0.001 得到米
	ASCII     bool    `yaml:"ascii" json:"ascii"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr        string        `yaml:"addr" json:"addr"`
	RetainFor   time.Duration `yaml:"retain_for" json:"retain_for"`     // 生成产物保留时长
	CleanupSpec string        `yaml:"cleanup_spec" json:"cleanup_spec"` // cron 表达式
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogFile string `yaml:"log_file" json:"log_file"`
}

// Preset 一组毫米单位的镜片参数，可写在配置里按名字复用，
// 也是 HTTP API 的请求体
type Preset struct {
	Topology        string  `yaml:"topology" json:"topology"` // cartesian | polar
	Width           float64 `yaml:"width" json:"width"`
	Height          float64 `yaml:"height" json:"height"`
	Diameter        float64 `yaml:"diameter" json:"diameter"`
	FocalLength     float64 `yaml:"focal_length" json:"focal_length"`
	RefractiveIndex float64 `yaml:"refractive_index" json:"refractive_index"`
	GrooveDepth     float64 `yaml:"groove_depth" json:"groove_depth"`
	Thickness       float64 `yaml:"thickness" json:"thickness"`
	Divisions       int     `yaml:"divisions" json:"divisions"`
	Rings           int     `yaml:"rings" json:"rings"`
	Segments        int     `yaml:"segments" json:"segments"`
}

// Default 默认配置：输出毫米单位到 ./output，内置一个演示 preset
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:       "./output",
			UnitScale: 1.0,
		},
		Server: ServerConfig{
			Addr:        ":8088",
			RetainFor:   24 * time.Hour,
			CleanupSpec: "@hourly",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Presets: map[string]Preset{
			"demo": {
				Topology:        "cartesian",
				Width:           100,
				Height:          100,
				FocalLength:     150,
				RefractiveIndex: 1.52,
				GrooveDepth:     0.5,
				Thickness:       5,
				Divisions:       80,
			},
		},
	}
}

// Load 默认值打底，再用 yaml 文件覆盖；path 为空只用默认值
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ToSpec 把毫米参数换算成目标单位并生成 LensSpec（单位边界，只换算这一次）
func (p Preset) ToSpec(unitScale float64) (*lens.LensSpec, error) {
	if unitScale <= 0 {
		return nil, fmt.Errorf("%w: unit scale must be positive, got %g", lens.ErrInvalidParameter, unitScale)
	}

	spec := &lens.LensSpec{
		Width:           p.Width * unitScale,
		Height:          p.Height * unitScale,
		Diameter:        p.Diameter * unitScale,
		FocalLength:     p.FocalLength * unitScale,
		RefractiveIndex: p.RefractiveIndex,
		GrooveDepth:     p.GrooveDepth * unitScale,
		Thickness:       p.Thickness * unitScale,
		Divisions:       p.Divisions,
		Rings:           p.Rings,
		Segments:        p.Segments,
	}

	switch p.Topology {
	case "polar":
		spec.Topology = lens.Polar
	case "", "cartesian":
		spec.Topology = lens.Cartesian
	default:
		return nil, fmt.Errorf("%w: unknown topology %q", lens.ErrInvalidParameter, p.Topology)
	}

	return spec, nil
}
