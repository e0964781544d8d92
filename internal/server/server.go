package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apierrors "github.com/gubarz/studymd/internal/errors"
	"github.com/gubarz/studymd/internal/store"
)

// Store is the persistence the API needs
type Store interface {
	ListPatterns(ctx context.Context) ([]store.Pattern, error)
	UpdateProblemStatus(ctx context.Context, id int64, status string) error

	CreateBlog(ctx context.Context, b *store.Blog) error
	GetBlog(ctx context.Context, id int64) (*store.Blog, error)
	ListBlogs(ctx context.Context) ([]store.Blog, error)
	UpdateBlog(ctx context.Context, b *store.Blog) error
	DeleteBlog(ctx context.Context, id int64) error

	RecordActivity(ctx context.Context, userID, day string, seconds int64) (store.Activity, error)
	ListActivity(ctx context.Context, userID, from, to string) ([]store.Activity, error)
	Today() string
}

// Server wires HTTP routes to the store
type Server struct {
	store  Store
	logger *logrus.Logger
	engine *gin.Engine
}

// New builds the router
func New(s Store, logger *logrus.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	srv := &Server{store: s, logger: logger, engine: engine}
	srv.routes()
	return srv
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	api := s.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.GET("/patterns", s.listPatterns)
	api.PATCH("/problems/:id", s.updateProblem)

	api.GET("/blogs", s.listBlogs)
	api.GET("/blogs/:id", s.getBlog)
	api.POST("/blogs", s.createBlog)
	api.PUT("/blogs/:id", s.updateBlog)
	api.DELETE("/blogs/:id", s.deleteBlog)

	api.GET("/activity", s.listActivity)
	api.POST("/activity", s.recordActivity)
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}

func (s *Server) handleError(c *gin.Context, err error, resource string, id any) {
	apiErr := apierrors.FromStore(err, resource, id)
	if apiErr.Type == apierrors.ErrorTypeInternal {
		s.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	c.JSON(apiErr.Status(), apiErr)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierrors.NewValidationError("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (s *Server) listPatterns(c *gin.Context) {
	patterns, err := s.store.ListPatterns(c.Request.Context())
	if err != nil {
		s.handleError(c, err, "patterns", "")
		return
	}
	if patterns == nil {
		patterns = []store.Pattern{}
	}
	c.JSON(http.StatusOK, patterns)
}

func (s *Server) updateProblem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.NewValidationError(err.Error()))
		return
	}

	if err := s.store.UpdateProblemStatus(c.Request.Context(), id, request.Status); err != nil {
		s.handleError(c, err, "problem", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": request.Status})
}

type blogRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (s *Server) listBlogs(c *gin.Context) {
	blogs, err := s.store.ListBlogs(c.Request.Context())
	if err != nil {
		s.handleError(c, err, "blogs", "")
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (s *Server) getBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	blog, err := s.store.GetBlog(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err, "blog", id)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (s *Server) createBlog(c *gin.Context) {
	var request blogRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.NewValidationError(err.Error()))
		return
	}

	blog := &store.Blog{Title: request.Title, Content: request.Content, Author: request.Author}
	if err := s.store.CreateBlog(c.Request.Context(), blog); err != nil {
		s.handleError(c, err, "blog", "")
		return
	}
	c.JSON(http.StatusCreated, blog)
}

func (s *Server) updateBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request blogRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.NewValidationError(err.Error()))
		return
	}

	blog := &store.Blog{ID: id, Title: request.Title, Content: request.Content, Author: request.Author}
	if err := s.store.UpdateBlog(c.Request.Context(), blog); err != nil {
		s.handleError(c, err, "blog", id)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (s *Server) deleteBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteBlog(c.Request.Context(), id); err != nil {
		s.handleError(c, err, "blog", id)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) recordActivity(c *gin.Context) {
	var request struct {
		UserID  string `json:"userId" binding:"required"`
		Date    string `json:"date"`
		Seconds int64  `json:"seconds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, apierrors.NewValidationError(err.Error()))
		return
	}

	day := strings.TrimSpace(request.Date)
	if day == "" {
		day = s.store.Today()
	}

	activity, err := s.store.RecordActivity(c.Request.Context(), request.UserID, day, request.Seconds)
	if err != nil {
		s.handleError(c, err, "activity", day)
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (s *Server) listActivity(c *gin.Context) {
	user := strings.TrimSpace(c.Query("userId"))
	if user == "" {
		c.JSON(http.StatusBadRequest, apierrors.NewValidationError("userId is required"))
		return
	}

	days, err := s.store.ListActivity(c.Request.Context(), user, c.Query("from"), c.Query("to"))
	if err != nil {
		s.handleError(c, err, "activity", user)
		return
	}
	c.JSON(http.StatusOK, days)
}
