package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/telephony"
	"github.com/Rushil1274/palcodeai-local-testing/internal/services"
)

// WebhookHandler serves the telephony provider callbacks. These endpoints
// are unauthenticated and deliberately lenient: the provider retries on
// non-2xx, and the reconcile path is idempotent, so errors are logged and
// acknowledged rather than surfaced.
type WebhookHandler struct {
	interviews services.InterviewService
	log        *logrus.Logger
}

func NewWebhookHandler(interviews services.InterviewService, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{interviews: interviews, log: log}
}

// Answer returns the stored call script when the callee picks up.
func (h *WebhookHandler) Answer(c *gin.Context) {
	interviewID := c.Query("n")

	script, err := h.interviews.CallScript(c.Request.Context(), interviewID)
	if err != nil {
		h.log.WithField("interview_id", interviewID).WithError(err).Warn("answer webhook: no call script")
		c.JSON(http.StatusOK, []telephony.Action{
			{Action: "talk", Text: "Sorry, this interview is no longer available. Goodbye."},
		})
		return
	}
	c.JSON(http.StatusOK, script)
}

type callEventPayload struct {
	Status string `json:"status"`
}

// Event applies a call-status event. Unknown statuses and unknown interviews
// are acknowledged without effect.
func (h *WebhookHandler) Event(c *gin.Context) {
	interviewID := c.Query("n")

	var payload callEventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.interviews.HandleCallEvent(c.Request.Context(), interviewID, payload.Status); err != nil {
		h.log.WithFields(logrus.Fields{
			"interview_id": interviewID,
			"call_status":  payload.Status,
		}).WithError(err).Warn("event webhook failed")
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type recordingPayload struct {
	RecordingURL string `json:"recording_url"`
}

// Record reconciles one per-question recording callback.
func (h *WebhookHandler) Record(c *gin.Context) {
	interviewID := c.Query("interview_id")
	qIdx, err := strconv.Atoi(c.Query("q_idx"))
	if err != nil {
		h.log.WithField("interview_id", interviewID).Warn("record webhook: bad q_idx")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	var payload recordingPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.RecordingURL == "" {
		h.log.WithField("interview_id", interviewID).Warn("record webhook: missing recording_url")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.interviews.RecordAnswer(c.Request.Context(), interviewID, qIdx, payload.RecordingURL); err != nil {
		h.log.WithFields(logrus.Fields{
			"interview_id": interviewID,
			"q_idx":        qIdx,
		}).WithError(err).Warn("record webhook failed")
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
