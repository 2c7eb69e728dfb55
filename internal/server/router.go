package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucklab/ets2ctl/internal/supervisor"
)

// Controller is the slice of the supervisor the HTTP API needs. The serve
// command passes the real supervisor; tests pass a fake.
type Controller interface {
	Start() error
	Stop() error
	Restart() error
	Status() supervisor.Status
}

// Router provides the serve-mode HTTP handlers.
// Endpoints:
//
//	POST {basePath}/start
//	POST {basePath}/stop
//	POST {basePath}/restart
//	GET  {basePath}/status
//	GET  {basePath}/healthz
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	ctl      Controller
	basePath string
}

func NewRouter(ctl Controller, basePath string) *Router {
	return &Router{ctl: ctl, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any
// server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.POST("/start", r.handleStart)
	group.POST("/stop", r.handleStop)
	group.POST("/restart", r.handleRestart)
	group.GET("/status", r.handleStatus)
	group.GET("/healthz", r.handleHealthz)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr, basePath string, ctl Controller) (*http.Server, error) {
	r := NewRouter(ctl, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func (r *Router) handleStart(c *gin.Context) {
	if err := r.ctl.Start(); err != nil {
		if errors.Is(err, supervisor.ErrAlreadyRunning) {
			c.JSON(http.StatusOK, okResp{OK: true, Detail: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, okResp{OK: true})
}

func (r *Router) handleStop(c *gin.Context) {
	if err := r.ctl.Stop(); err != nil {
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, okResp{OK: true})
}

func (r *Router) handleRestart(c *gin.Context) {
	if err := r.ctl.Restart(); err != nil {
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, okResp{OK: true})
}

func (r *Router) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, r.ctl.Status())
}

func (r *Router) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, okResp{OK: true})
}

func sanitizeBase(bp string) string {
	bp = strings.TrimSpace(bp)
	if bp == "" || bp == "/" {
		return ""
	}
	if !strings.HasPrefix(bp, "/") {
		bp = "/" + bp
	}
	return strings.TrimRight(bp, "/")
}
