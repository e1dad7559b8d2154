// Package server 提供生成服务的 HTTP API：
// POST /api/lens 生成并落盘，GET /api/lens/:id 下载，GET /healthz 探活
// 产物按 ksuid 命名，由 cron 定时清理过期文件
package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/chaos-io/fresnel2STL/config"
	"github.com/chaos-io/fresnel2STL/lens"
	"github.com/chaos-io/fresnel2STL/mesh"
	"github.com/chaos-io/fresnel2STL/stl"
)

type Server struct {
	cfg    config.ServerConfig
	out    config.OutputConfig
	log    *zap.Logger
	engine *gin.Engine
	cron   *cron.Cron
}

// GenerateResponse 生成结果，退化替换通过 mode/标志位暴露给调用方
type GenerateResponse struct {
	ID               string `json:"id"`
	Triangles        int    `json:"triangles"`
	Mode             string `json:"mode"`
	DegenerateOptics bool   `json:"degenerate_optics,omitempty"`
	ZeroGrooveDepth  bool   `json:"zero_groove_depth,omitempty"`
	File             string `json:"file"`
}

// New 建路由并注册清理任务
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:  cfg.Server,
		out:  cfg.Output,
		log:  log,
		cron: cron.New(),
	}

	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())
	e.POST("/api/lens", s.handleGenerate)
	e.GET("/api/lens/:id", s.handleDownload)
	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine = e

	if _, err := s.cron.AddFunc(s.cfg.CleanupSpec, s.cleanup); err != nil {
		return nil, err
	}

	return s, nil
}

// Engine 暴露给测试用
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run 启动清理调度和 HTTP 服务，阻塞
func (s *Server) Run() error {
	s.cron.Start()
	defer s.cron.Stop()

	s.log.Info("listening", zap.String("addr", s.cfg.Addr))
	return s.engine.Run(s.cfg.Addr)
}

func (s *Server) handleGenerate(c *gin.Context) {
	var p config.Preset
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec, err := p.ToSpec(s.out.UnitScale)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	m, st, err := mesh.Generate(spec)
	if err != nil {
		if errors.Is(err, lens.ErrInvalidParameter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("generate failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	id := ksuid.New().String()
	path := filepath.Join(s.out.Dir, id+".stl")
	if err := stl.SaveBinary(path, "fresnel_lens_"+id, m, mesh.ExpectedTriangles(spec)); err != nil {
		s.log.Error("save failed", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.log.Info("generated lens",
		zap.String("id", id),
		zap.String("topology", spec.Topology.String()),
		zap.String("mode", st.Mode.String()),
		zap.Int("triangles", len(m)),
		zap.Duration("elapsed", time.Since(start)))

	c.JSON(http.StatusOK, GenerateResponse{
		ID:               id,
		Triangles:        len(m),
		Mode:             st.Mode.String(),
		DegenerateOptics: st.DegenerateOptics,
		ZeroGrooveDepth:  st.ZeroGrooveDepth,
		File:             "/api/lens/" + id,
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	id := c.Param("id")
	// id 必须是合法 ksuid，顺带挡掉路径穿越
	if _, err := ksuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	path := filepath.Join(s.out.Dir, id+".stl")
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.FileAttachment(path, id+".stl")
}

// cleanup 删除超过保留时长的产物
func (s *Server) cleanup() {
	entries, err := os.ReadDir(s.out.Dir)
	if err != nil {
		s.log.Warn("cleanup: read dir", zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-s.cfg.RetainFor)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".stl" {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.out.Dir, e.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("cleaned up artifacts", zap.Int("removed", removed))
	}
}
