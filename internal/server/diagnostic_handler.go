package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathbuddy/internal/diagnostic"
	"github.com/abhisek/mathbuddy/internal/questionbank"
)

// Diagnostic actions.
const (
	actionStart    = "start"
	actionAnswer   = "answer"
	actionComplete = "complete"
)

type diagnosticRequest struct {
	Action         string  `json:"action"`
	StudentID      string  `json:"studentId"`
	Grade          int     `json:"grade"`
	SessionID      string  `json:"sessionId"`
	QuestionID     string  `json:"questionId"`
	Answer         string  `json:"answer"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

type startResponse struct {
	SessionID    string                   `json:"sessionId"`
	Stage        string                   `json:"stage"`
	Domains      []questionbank.Domain    `json:"domains"`
	Total        int                      `json:"total"`
	NextQuestion *diagnostic.QuestionView `json:"nextQuestion"`
}

type answerResponse struct {
	Stage string `json:"stage"`
	*diagnostic.AnswerResult
}

type completeResponse struct {
	Stage string `json:"stage"`
	*diagnostic.Result
}

func (s *Server) handleDiagnostic(c *gin.Context) {
	var req diagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", diagnostic.ErrInvalidInput, err))
		return
	}
	ctx := c.Request.Context()

	switch req.Action {
	case actionStart:
		res, err := s.diagnostic.Start(ctx, req.StudentID, req.Grade)
		if err != nil {
			respondError(c, err)
			return
		}
		s.metrics.SessionStarted()
		c.JSON(http.StatusOK, startResponse{
			SessionID:    res.Session.SessionID,
			Stage:        res.Session.Stage,
			Domains:      res.Session.Domains,
			Total:        res.Session.Total,
			NextQuestion: res.Question,
		})

	case actionAnswer:
		res, err := s.diagnostic.SubmitAnswer(ctx, diagnostic.Submission{
			SessionID:      req.SessionID,
			QuestionID:     req.QuestionID,
			Answer:         req.Answer,
			ElapsedSeconds: req.ElapsedSeconds,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		s.metrics.AnswerGraded(string(res.Domain), res.IsCorrect)
		stage := diagnostic.StageTest
		if res.Completed {
			stage = diagnostic.StageComplete
		}
		c.JSON(http.StatusOK, answerResponse{Stage: stage.String(), AnswerResult: res})

	case actionComplete:
		res, err := s.diagnostic.Complete(ctx, req.SessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		s.metrics.SessionCompleted()
		c.JSON(http.StatusOK, completeResponse{Stage: diagnostic.StageComplete.String(), Result: res})

	default:
		respondError(c, fmt.Errorf("%w: unknown action %q", diagnostic.ErrInvalidInput, req.Action))
	}
}

func (s *Server) handleDiagnosticStatus(c *gin.Context) {
	view, err := s.diagnostic.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
