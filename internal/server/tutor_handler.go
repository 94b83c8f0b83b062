package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathbuddy/internal/sse"
	"github.com/abhisek/mathbuddy/internal/tutor"
)

// handleTutorChat streams one tutoring turn as newline-delimited JSON
// events. Errors found before the first event get a JSON error response;
// after that the stream simply ends without a done event.
func (s *Server) handleTutorChat(c *gin.Context) {
	var turn tutor.Turn
	if err := c.ShouldBindJSON(&turn); err != nil {
		respondError(c, fmt.Errorf("%w: %v", tutor.ErrInvalidInput, err))
		return
	}

	// The stream lasts as long as the model talks.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		s.log.Debug("cannot clear write deadline", "error", err)
	}

	started := false
	enc := json.NewEncoder(c.Writer)
	var verdict *bool

	err := s.tutor.Respond(c.Request.Context(), turn, func(ev sse.Event) error {
		if !started {
			c.Header("Content-Type", "application/x-ndjson")
			c.Header("Cache-Control", "no-cache")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
			started = true
		}
		if err := enc.Encode(ev); err != nil {
			return err
		}
		c.Writer.Flush()
		if ev.Kind == sse.KindDone {
			correct := ev.IsCorrect
			verdict = &correct
		}
		return nil
	})

	switch {
	case err != nil && !started:
		s.metrics.TutorTurn("error")
		respondError(c, err)
	case err != nil:
		s.metrics.TutorTurn("interrupted")
		_ = c.Error(err)
	case verdict != nil && *verdict:
		s.metrics.TutorTurn("correct")
	default:
		s.metrics.TutorTurn("incorrect")
	}
}
