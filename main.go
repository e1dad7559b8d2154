package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/chaos-io/fresnel2STL/config"
	"github.com/chaos-io/fresnel2STL/grid"
	"github.com/chaos-io/fresnel2STL/logger"
	"github.com/chaos-io/fresnel2STL/mesh"
	"github.com/chaos-io/fresnel2STL/preview"
	"github.com/chaos-io/fresnel2STL/server"
	"github.com/chaos-io/fresnel2STL/stl"
)

func main() {
	var (
		configPath = flag.String("config", "", "yaml 配置文件路径")
		presetName = flag.String("preset", "", "使用配置里的命名 preset")

		topology  = flag.String("topology", "cartesian", "采样拓扑 cartesian|polar")
		width     = flag.Float64("width", 100, "镜片宽度 (mm, cartesian)")
		height    = flag.Float64("height", 100, "镜片高度 (mm, cartesian)")
		diameter  = flag.Float64("diameter", 100, "镜片直径 (mm, polar)")
		focal     = flag.Float64("f", 200, "焦距 (mm, 带符号, 正=会聚)")
		index     = flag.Float64("n", 1.5, "折射率 (>1)")
		groove    = flag.Float64("groove", 1.0, "槽深 (mm, 0=连续面)")
		thickness = flag.Float64("thickness", 5, "实体厚度 (mm)")
		divisions = flag.Int("divisions", 50, "每轴单元数 (cartesian)")
		rings     = flag.Int("rings", 20, "同心环数 (polar)")
		segments  = flag.Int("segments", 48, "每环角向分段数 (polar)")

		output     = flag.String("o", "", "输出 STL 路径（默认写到配置的输出目录）")
		ascii      = flag.Bool("ascii", false, "输出 ASCII STL 而不是二进制")
		genPreview = flag.Bool("preview", false, "同时输出高度场灰度 PNG")

		serve  = flag.Bool("serve", false, "启动 HTTP 生成服务")
		remote = flag.String("remote", "", "把参数提交给远端服务而不是本地建网")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("info", "")
		logger.Log.Fatal("load config", zap.Error(err))
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync()
	log := logger.Log

	if *serve {
		srv, err := server.New(cfg, log)
		if err != nil {
			log.Fatal("init server", zap.Error(err))
		}
		if err := srv.Run(); err != nil {
			log.Fatal("server exited", zap.Error(err))
		}
		return
	}

	// preset 打底，命令行里显式给过的 flag 覆盖
	preset := config.Preset{
		Topology:        *topology,
		Width:           *width,
		Height:          *height,
		Diameter:        *diameter,
		FocalLength:     *focal,
		RefractiveIndex: *index,
		GrooveDepth:     *groove,
		Thickness:       *thickness,
		Divisions:       *divisions,
		Rings:           *rings,
		Segments:        *segments,
	}
	if *presetName != "" {
		named, ok := cfg.Presets[*presetName]
		if !ok {
			log.Fatal("unknown preset", zap.String("preset", *presetName))
		}
		base := named
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "topology":
				base.Topology = preset.Topology
			case "width":
				base.Width = preset.Width
			case "height":
				base.Height = preset.Height
			case "diameter":
				base.Diameter = preset.Diameter
			case "f":
				base.FocalLength = preset.FocalLength
			case "n":
				base.RefractiveIndex = preset.RefractiveIndex
			case "groove":
				base.GrooveDepth = preset.GrooveDepth
			case "thickness":
				base.Thickness = preset.Thickness
			case "divisions":
				base.Divisions = preset.Divisions
			case "rings":
				base.Rings = preset.Rings
			case "segments":
				base.Segments = preset.Segments
			}
		})
		preset = base
	}

	if *remote != "" {
		cli := server.NewClient(*remote)
		resp, err := cli.Generate(context.Background(), preset)
		if err != nil {
			log.Fatal("remote generate", zap.Error(err))
		}
		log.Info("remote generated",
			zap.String("id", resp.ID),
			zap.Int("triangles", resp.Triangles),
			zap.String("mode", resp.Mode),
			zap.String("url", cli.FileURL(resp)))
		return
	}

	spec, err := preset.ToSpec(cfg.Output.UnitScale)
	if err != nil {
		log.Fatal("bad parameters", zap.Error(err))
	}

	if err := spec.Validate(); err != nil {
		log.Fatal("bad parameters", zap.Error(err))
	}

	// 采样一次，建网和预览渲染共用同一张网格
	g, st := grid.Sample(spec)
	m, err := mesh.FromGrid(g, spec)
	if err != nil {
		log.Fatal("generate", zap.Error(err))
	}
	if st.DegenerateOptics {
		log.Warn("degenerate optics, substituted a flat surface")
	}
	if st.ZeroGrooveDepth {
		log.Warn("groove depth is zero, generated a continuous (non-Fresnel) surface")
	}

	outPath := *output
	if outPath == "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			log.Fatal("create output dir", zap.Error(err))
		}
		outPath = filepath.Join(cfg.Output.Dir, "fresnel_lens.stl")
	}

	expected := mesh.ExpectedTriangles(spec)
	if *ascii || cfg.Output.ASCII {
		err = stl.SaveASCII(outPath, "fresnel_lens", m)
	} else {
		err = stl.SaveBinary(outPath, "fresnel_lens", m, expected)
	}
	if err != nil {
		log.Fatal("write stl", zap.Error(err))
	}

	if *genPreview {
		pngPath := outPath[:len(outPath)-len(filepath.Ext(outPath))] + ".png"
		if err := preview.SaveWithThumbnail(pngPath, preview.Render(g, 512), 128); err != nil {
			log.Fatal("write preview", zap.Error(err))
		}
		log.Info("preview written",
			zap.String("path", pngPath),
			zap.String("thumb", preview.ThumbPath(pngPath)))
	}

	log.Info("done",
		zap.String("path", outPath),
		zap.String("topology", spec.Topology.String()),
		zap.String("mode", st.Mode.String()),
		zap.Int("triangles", m.Count()))
}
