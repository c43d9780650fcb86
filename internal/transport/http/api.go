package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quiz-live-service/internal/app"
	"quiz-live-service/internal/domain"
)

// API exposes the engine's synchronous operation surface over REST.
type API struct {
	participants *app.ParticipantService
	answers      *app.AnswerService
	leaderboard  *app.LeaderboardService
	control      *app.SessionControl
	content      app.ContentStore
}

func NewAPI(participants *app.ParticipantService, answers *app.AnswerService, leaderboard *app.LeaderboardService, control *app.SessionControl, content app.ContentStore) *API {
	return &API{
		participants: participants,
		answers:      answers,
		leaderboard:  leaderboard,
		control:      control,
		content:      content,
	}
}

// NewRouter wires the REST surface and the websocket feed.
func NewRouter(api *API, ws *WSHandler, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(allowOrigins) > 0 {
		corsCfg.AllowOrigins = allowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Participant-ID", "X-Admin-Code")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/ws", gin.WrapF(ws.ServeWS))

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/participants", api.joinPresentation)
		apiGroup.POST("/answers", api.requireParticipant, api.submitAnswer)

		apiGroup.GET("/presentations/:id/leaderboard", api.getLeaderboard)
		apiGroup.GET("/presentations/:id/participants/:participantID/rank", api.getParticipantRank)
		apiGroup.GET("/presentations/:id/current-question", api.getCurrentQuestion)

		apiGroup.POST("/presentations/:id/questions/:questionID/start", api.requireOperator, api.startQuestion)
		apiGroup.POST("/presentations/:id/questions/:questionID/end", api.requireOperator, api.endQuestion)
		apiGroup.PUT("/presentations/:id/status", api.requireOperator, api.updateStatus)
	}
	return router
}

const participantKey = "participant"

// requireParticipant resolves the X-Participant-ID header or rejects the
// request, mirroring how joins hand out opaque tokens.
func (a *API) requireParticipant(c *gin.Context) {
	token := c.GetHeader("X-Participant-ID")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "participant ID is required"})
		return
	}
	participant, err := a.participants.Resolve(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid participant ID"})
		return
	}
	c.Set(participantKey, participant)
	c.Next()
}

// requireOperator checks the presentation's admin code. Full operator
// authentication lives outside this service.
func (a *API) requireOperator(c *gin.Context) {
	presentationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid presentation id"})
		return
	}
	pres, err := a.content.Presentation(c.Request.Context(), presentationID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if c.GetHeader("X-Admin-Code") != pres.AdminCode {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "invalid admin code"})
		return
	}
	c.Next()
}

type joinRequest struct {
	PresentationID int64  `json:"presentation_id" binding:"required"`
	DisplayName    string `json:"display_name" binding:"required"`
}

func (a *API) joinPresentation(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	participant, err := a.participants.Join(c.Request.Context(), req.PresentationID, req.DisplayName)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"participant_id":  participant.ID,
		"display_name":    participant.DisplayName,
		"presentation_id": participant.PresentationID,
	})
}

type submitAnswerRequest struct {
	QuestionID     int64     `json:"question_id" binding:"required"`
	OptionID       int64     `json:"option_id" binding:"required"`
	ElapsedSeconds float64   `json:"elapsed_seconds" binding:"gte=0"`
	AnsweredAt     time.Time `json:"answered_at" binding:"required"`
}

func (a *API) submitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	participant := c.MustGet(participantKey).(domain.Participant)

	outcome, err := a.answers.Submit(c.Request.Context(), participant, req.QuestionID, req.OptionID, req.ElapsedSeconds)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (a *API) getLeaderboard(c *gin.Context) {
	presentationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid presentation id"})
		return
	}
	limit := app.DefaultBroadcastLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	rows, err := a.leaderboard.TopParticipants(c.Request.Context(), presentationID, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"presentation_id": presentationID,
		"leaderboard":     rows,
	})
}

func (a *API) getParticipantRank(c *gin.Context) {
	presentationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid presentation id"})
		return
	}
	participantID := c.Param("participantID")

	rank, score, err := a.leaderboard.ParticipantRank(c.Request.Context(), participantID, presentationID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"participant_id": participantID,
		"rank":           rank,
		"score":          score,
	})
}

func (a *API) getCurrentQuestion(c *gin.Context) {
	presentationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid presentation id"})
		return
	}
	marker, ok, err := a.control.CurrentQuestion(c.Request.Context(), presentationID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, marker)
}

func (a *API) startQuestion(c *gin.Context) {
	presentationID, questionID, ok := presentationAndQuestion(c)
	if !ok {
		return
	}
	if err := a.control.StartQuestion(c.Request.Context(), presentationID, questionID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question started"})
}

func (a *API) endQuestion(c *gin.Context) {
	presentationID, questionID, ok := presentationAndQuestion(c)
	if !ok {
		return
	}
	if err := a.control.EndQuestion(c.Request.Context(), presentationID, questionID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question ended"})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (a *API) updateStatus(c *gin.Context) {
	presentationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid presentation id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := a.control.UpdateStatus(c.Request.Context(), presentationID, domain.Status(req.Status)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func presentationAndQuestion(c *gin.Context) (int64, int64, bool) {
	presentationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid presentation id"})
		return 0, 0, false
	}
	questionID, err := strconv.ParseInt(c.Param("questionID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid question id"})
		return 0, 0, false
	}
	return presentationID, questionID, true
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"message": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPresentationNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrOptionNotFound),
		errors.Is(err, domain.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuestionMismatch),
		errors.Is(err, domain.ErrQuestionNotActive),
		errors.Is(err, domain.ErrDuplicateAnswer),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoCorrectOption),
		errors.Is(err, domain.ErrPresentationNotStartable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
