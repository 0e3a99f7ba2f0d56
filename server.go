package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/orangishcat/note/internal/auth"
	"github.com/orangishcat/note/internal/scoring"
	"github.com/orangishcat/note/internal/storage"
	"github.com/orangishcat/note/internal/transcribe"
	"github.com/orangishcat/note/internal/valid"
)

// Server holds the scoring service's wiring: the external collaborators
// (storage, the transcription model, the JWT verifier) plus the tuning
// parameters the core engine needs.
type Server struct {
	Bucket      storage.Bucket
	Transcriber transcribe.Transcriber
	Verifier    *auth.Verifier
	TempoParams scoring.TempoParams

	limiters  map[string]*rate.Limiter
	limiterMu sync.Mutex
	rateRPS   rate.Limit
	rateBurst int
}

// NewServer wires a Server. rateRPS/rateBurst configure the per-client token
// bucket applied to the scoring endpoints.
func NewServer(bucket storage.Bucket, transcriber transcribe.Transcriber, verifier *auth.Verifier, tempoParams scoring.TempoParams, rateRPS int, rateBurst int) *Server {
	return &Server{
		Bucket:      bucket,
		Transcriber: transcriber,
		Verifier:    verifier,
		TempoParams: tempoParams,
		limiters:    make(map[string]*rate.Limiter),
		rateRPS:     rate.Limit(rateRPS),
		rateBurst:   rateBurst,
	}
}

// limiterFor returns the per-client limiter for key, creating it on first
// use. Guarded by limiterMu so concurrent requests from different clients
// can't race on map creation.
func (s *Server) limiterFor(key string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(s.rateRPS, s.rateBurst)
		s.limiters[key] = l
	}
	return l
}

// rateLimit is gin middleware enforcing a per-client-IP token bucket.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// Router builds the gin engine: middleware first, then the scoring routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), sentrygin.New(sentrygin.Options{}), ginLogrusMiddleware())

	scoringGroup := r.Group("/api/scoring")
	scoringGroup.Use(s.rateLimit())
	if s.Verifier != nil {
		scoringGroup.Use(s.Verifier.RequireAuth())
	}
	scoringGroup.POST("/receive-notes", s.receiveNotes)
	scoringGroup.POST("/receive-audio", s.receiveAudio)

	r.GET("/status", s.statusPage)
	return r
}

// ginLogrusMiddleware logs each request the way the teacher's etude server
// logged to a file: one structured line per request, not per sub-step.
func ginLogrusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Info("request handled")
	}
}

// receiveNotes implements POST /api/scoring/receive-notes: the body is a
// wire-encoded NoteList representing a just-played performance, scored
// against the reference score named by X-Notes-ID.
func (s *Server) receiveNotes(c *gin.Context) {
	if err := valid.ContentLength(c.Request.ContentLength); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scoreID := c.GetHeader("X-Score-ID")
	notesID := c.GetHeader("X-Notes-ID")
	if scoreID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no score ID provided"})
		return
	}
	if notesID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no notes ID provided"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no note list payload received"})
		return
	}

	played, err := scoring.UnmarshalNoteList(raw)
	if err != nil {
		logrus.WithError(err).Error("failed to parse provided note list")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note list payload"})
		return
	}

	actual, err := s.loadReferenceNotes(c.Request.Context(), notesID)
	if err != nil {
		logrus.WithError(err).Error("failed to load reference notes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load reference score"})
		return
	}

	focusedPage, _ := strconv.Atoi(c.GetHeader("X-Focused-Page"))
	s.scoreAndRespond(c, scoreID, actual, played, focusedPage)
}

// receiveAudio implements POST /api/scoring/receive-audio: the body is raw
// audio, transcribed via the external model before scoring against the
// reference score named by X-Notes-ID.
func (s *Server) receiveAudio(c *gin.Context) {
	if err := valid.ContentLength(c.Request.ContentLength); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scoreID := c.GetHeader("X-Score-ID")
	notesID := c.GetHeader("X-Notes-ID")
	if scoreID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no score ID provided"})
		return
	}
	if notesID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no notes ID provided"})
		return
	}

	audioBytes, err := io.ReadAll(c.Request.Body)
	if err != nil || len(audioBytes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no audio received"})
		return
	}

	actual, err := s.loadReferenceNotes(c.Request.Context(), notesID)
	if err != nil {
		logrus.WithError(err).Error("failed to load reference notes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load reference score"})
		return
	}

	played, err := s.Transcriber.Transcribe(c.Request.Context(), audioBytes, actual.Size)
	if err != nil {
		logrus.WithError(err).Error("transcription failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "transcription failed"})
		return
	}

	focusedPage, _ := strconv.Atoi(c.GetHeader("X-Focused-Page"))
	s.scoreAndRespond(c, scoreID, actual, played, focusedPage)
}

// loadReferenceNotes fetches and decodes the reference NoteList identified
// by notesID from the storage collaborator.
func (s *Server) loadReferenceNotes(ctx context.Context, notesID string) (*scoring.NoteList, error) {
	data, err := s.Bucket.Get(ctx, notesID)
	if err != nil {
		return nil, fmt.Errorf("server: fetching reference notes %s: %w", notesID, err)
	}
	notes, err := scoring.UnmarshalNoteList(data)
	if err != nil {
		return nil, fmt.Errorf("server: decoding reference notes %s: %w", notesID, err)
	}
	return notes, nil
}

// scoreAndRespond runs the scoring engine against actual/played, persists
// the resulting Recording, and writes it back as the wire-encoded response
// body. focusedPage is accepted for parity with the request contract but
// does not change which notes are scored: the engine always scores the
// full reference against the full performance.
func (s *Server) scoreAndRespond(c *gin.Context, scoreID string, actual, played *scoring.NoteList, focusedPage int) {
	_ = focusedPage // reserved for a future windowed-scoring optimization

	result, err := scoring.Score(actual.Notes, played.Notes, actual.Size, s.TempoParams)
	if err != nil {
		logrus.WithError(err).WithField("score_id", scoreID).Error("scoring failed")
		status := http.StatusInternalServerError
		if errors.Is(err, scoring.ErrInputTooLarge) || errors.Is(err, scoring.ErrMalformedInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if len(played.Size) == 0 {
		played.Size = actual.Size
	}

	recording := &scoring.Recording{
		PlayedNotes:   played,
		ComputedEdits: result,
		CreatedAt:     time.Now().UTC().Unix(),
	}
	payload := scoring.MarshalRecording(recording)

	if s.Bucket != nil {
		if _, err := s.Bucket.Put(c.Request.Context(), fmt.Sprintf("Recording-%s", scoreID), payload); err != nil {
			logrus.WithError(err).Warn("failed to persist recording")
		}
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("X-Response-Format", "recording")
	c.Data(http.StatusOK, "application/octet-stream", payload)
}
