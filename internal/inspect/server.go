// Package inspect serves the dumper over HTTP for diagnostic tooling.
package inspect

import (
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/tlvdump/internal/config"
	"github.com/danmuck/tlvdump/internal/observability"
	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/danmuck/tlvdump/internal/protocol/dump"
	"github.com/danmuck/tlvdump/internal/protocol/layer"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const maxLevel = 64

var (
	ErrBadFormat = errors.New("inspect: format must be raw or hex")
	ErrBadLevel  = errors.New("inspect: level out of range")
)

type Server struct {
	Name     string
	Addr     string
	Appeared time.Time

	decoder *dump.Decoder
	maxBody int64
	router  *gin.Engine
	logger  zerolog.Logger
}

// LayerInfo describes one row of the layer wrapper table.
type LayerInfo struct {
	Index   int    `json:"index"`
	Version int    `json:"version"`
	Tag     string `json:"tag"`
}

// DumpResult is the body of a successful or failed dump.
type DumpResult struct {
	Text    string `json:"text,omitempty"`
	Words   int    `json:"words"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Partial string `json:"partial,omitempty"`
}

func New(cfg config.ServerConfig, logger zerolog.Logger) (*Server, error) {
	if err := config.ValidateServerConfig(cfg); err != nil {
		return nil, err
	}
	opts, err := config.DecodeOptions(cfg.Decode)
	if err != nil {
		return nil, err
	}
	opts.Logger = &logger
	opts.OnInflate = observability.RecordInflate

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.Instrument(logger, cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Server{
		Name:     cfg.Name,
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		decoder:  dump.New(opts),
		maxBody:  cfg.MaxBodyBytes,
		router:   r,
		logger:   logger,
	}, nil
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": "0.1.0",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"service": s.Name,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/layers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"layers": listLayers(s.decoder.Options().Layers)})
	})

	s.router.POST("/v1/dump", s.handleDump)
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	s.logger.Info().Str("addr", s.Addr).Msg("inspect server listening")
	return s.router.Run(s.Addr)
}

func (s *Server) handleDump(c *gin.Context) {
	req, err := parseDumpQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := c.Request.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(c.Writer, body, s.maxBody)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.hex {
		raw, err = hex.DecodeString(stripSpace(string(raw)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "inspect: invalid hex body: " + err.Error()})
			return
		}
	}

	start := time.Now()
	out, err := s.decoder.DumpBytes(raw, req.tag, req.level, req.vcons)
	observability.RecordDecode("http", err, time.Since(start))
	observability.MarkDecode(c, err)

	res := DumpResult{Words: len(raw) / 4}
	if err != nil {
		res.Error = err.Error()
		res.Kind = protocol.Classify(err)
		res.Partial = out
		status := http.StatusUnprocessableEntity
		if errors.Is(err, protocol.ErrUnaligned) {
			status = http.StatusBadRequest
		}
		s.logger.Warn().
			Str("kind", res.Kind).
			Int("bytes", len(raw)).
			Err(err).
			Msg("dump failed")
		c.JSON(status, res)
		return
	}
	res.Text = out
	c.JSON(http.StatusOK, res)
}

type dumpQuery struct {
	hex   bool
	tag   protocol.Tag
	vcons protocol.Tag
	level int
}

func parseDumpQuery(c *gin.Context) (dumpQuery, error) {
	var q dumpQuery
	switch strings.ToLower(c.DefaultQuery("format", "raw")) {
	case "raw":
	case "hex":
		q.hex = true
	default:
		return q, ErrBadFormat
	}
	var err error
	if v := c.Query("tag"); v != "" {
		if q.tag, err = protocol.ParseTag(v); err != nil {
			return q, err
		}
	}
	if v := c.Query("vcons"); v != "" {
		if q.vcons, err = protocol.ParseTag(v); err != nil {
			return q, err
		}
	}
	if v := c.Query("level"); v != "" {
		q.level, err = strconv.Atoi(v)
		if err != nil || q.level < 0 || q.level > maxLevel {
			return q, ErrBadLevel
		}
	}
	return q, nil
}

func listLayers(tbl *layer.Table) []LayerInfo {
	out := make([]LayerInfo, 0, tbl.Len())
	for i, tag := range tbl.Tags() {
		out = append(out, LayerInfo{Index: i, Version: layer.Version(i), Tag: tag.String()})
	}
	return out
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
