// Package server exposes the compression, share-card and EXIF operations
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
	"github.com/user/photoinsight/pkg/stages/loader"
)

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxUploadBytes bounds multipart uploads when Config leaves it unset.
const DefaultMaxUploadBytes int64 = 32 << 20

// Config holds server settings.
type Config struct {
	MaxUploadBytes int64
	Version        string
}

// Server is the HTTP API server.
type Server struct {
	router   *gin.Engine
	compress pipeline.Stage[pipeline.CompressionRequest, pipeline.CompressionResult]
	card     pipeline.Stage[pipeline.ShareCardRequest, pipeline.ShareCardResult]
	exif     ports.ExifReader
	logger   ports.Logger
	config   Config
}

// New creates a new API server.
func New(
	compress pipeline.Stage[pipeline.CompressionRequest, pipeline.CompressionResult],
	card pipeline.Stage[pipeline.ShareCardRequest, pipeline.ShareCardResult],
	exif ports.ExifReader,
	logger ports.Logger,
	config Config,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:   router,
		compress: compress,
		card:     card,
		exif:     exif,
		logger:   logger.WithComponent("server"),
		config:   config,
	}

	router.Use(requestID(), s.accessLog(), corsMiddleware())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.POST("/compress", s.handleCompress)
	api.POST("/share-card", s.handleShareCard)
	api.POST("/exif", s.handleExif)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.config.Version})
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.logger.Info("Server stopped")
		return err
	}
}

// handleCompress compresses a multipart "file" upload to the byte budget in
// the optional "target_mb" field and answers with the resulting bytes.
func (s *Server) handleCompress(c *gin.Context) {
	file, ok := s.readUpload(c)
	if !ok {
		return
	}

	var targetMB float64
	if v := c.PostForm("target_mb"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_mb must be a positive number"})
			return
		}
		targetMB = f
	}

	result, err := s.compress.Execute(c.Request.Context(), pipeline.CompressionRequest{File: file, TargetMB: targetMB})
	if err != nil {
		s.logger.Warn("Request %s failed: %s", c.GetString("request_id"), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compression failed"})
		return
	}

	h := c.Writer.Header()
	h.Set("X-Compression-Unchanged", strconv.FormatBool(result.Unchanged))
	h.Set("X-Compression-Quality", strconv.Itoa(result.Quality))
	h.Set("X-Compression-Attempts", strconv.Itoa(result.Attempts))
	h.Set("X-Compression-Degraded", strconv.FormatBool(result.Degraded))
	h.Set("X-Original-Size", strconv.FormatInt(file.Size(), 10))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.File.Name))

	mime := result.File.MIMEType
	if mime == "" {
		mime = mimetype.Detect(result.File.Data).String()
	}
	c.Data(http.StatusOK, mime, result.File.Data)
}

// handleShareCard renders a card from a JSON ShareCardRequest.
// Clients asking for image/jpeg get the bytes, everyone else a data URI.
func (s *Server) handleShareCard(c *gin.Context) {
	var req pipeline.ShareCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source is required"})
		return
	}
	if !loader.IsEmbeddedOrRemote(req.Source) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be an http(s) URL or a data URI"})
		return
	}
	req.Scores = req.Scores.Normalize()

	result, err := s.card.Execute(c.Request.Context(), req)
	if err != nil {
		s.logger.Warn("Request %s failed: %s", c.GetString("request_id"), err.Error())
		status := statusFor(err)
		c.JSON(status, gin.H{"error": errorMessage(status)})
		return
	}

	if wantsJPEG(c.GetHeader("Accept")) {
		p, err := datauri.Decode(result.DataURI)
		if err != nil {
			s.logger.Warn("Request %s failed: %s", c.GetString("request_id"), err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(http.StatusInternalServerError)})
			return
		}
		c.Data(http.StatusOK, p.MIMEType, p.Data)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data_uri": result.DataURI,
		"tier":     result.TierID,
		"width":    result.Layout.Size.Width,
		"height":   result.Layout.Size.Height,
	})
}

// handleExif extracts camera metadata from a multipart "file" upload.
func (s *Server) handleExif(c *gin.Context) {
	file, ok := s.readUpload(c)
	if !ok {
		return
	}
	snapshot, err := s.exif.Read(file.Data)
	if err != nil {
		s.logger.Warn("Request %s failed: %s", c.GetString("request_id"), err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unreadable EXIF metadata"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exif": snapshot})
}

func (s *Server) readUpload(c *gin.Context) (pipeline.ImageFile, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return pipeline.ImageFile{}, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return pipeline.ImageFile{}, false
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return pipeline.ImageFile{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return pipeline.ImageFile{}, false
	}

	return pipeline.ImageFile{
		Name:     header.Filename,
		MIMEType: mimetype.Detect(data).String(),
		Data:     data,
		ModTime:  time.Now(),
	}, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, loader.ErrLoadTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, loader.ErrLoadFailure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the client-facing text for a share-card failure. Causes
// stay in the server log.
func errorMessage(status int) string {
	switch status {
	case http.StatusGatewayTimeout:
		return "photo load timed out"
	case http.StatusUnprocessableEntity:
		return "photo could not be loaded"
	default:
		return "share card generation failed"
	}
}

func wantsJPEG(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mt, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(mt), "image/jpeg") {
			return true
		}
	}
	return false
}

// requestID tags each request with a uuid, keeping a well-formed incoming id.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s %d (%d ms) [%s]",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start).Milliseconds(), c.GetString("request_id"))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, "+RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", RequestIDHeader+", X-Compression-Quality, X-Compression-Attempts, X-Compression-Unchanged, X-Compression-Degraded")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
