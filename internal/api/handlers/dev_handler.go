package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rushil1274/palcodeai-local-testing/internal/services"
)

// DevHandler exposes the development-mode shortcuts: simulated answers for an
// interview and a quick snapshot of stored entities.
type DevHandler struct {
	interviews services.InterviewService
}

func NewDevHandler(interviews services.InterviewService) *DevHandler {
	return &DevHandler{interviews: interviews}
}

// SimulateAnswers fills every question of the interview with a fake transcript
// so the scoring path can be exercised without a real call.
func (h *DevHandler) SimulateAnswers(c *gin.Context) {
	n, err := h.interviews.SimulateAnswers(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interview_id":      c.Param("id"),
		"answers_simulated": n,
	})
}

func (h *DevHandler) Status(c *gin.Context) {
	stats, err := h.interviews.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Latest reports the most recent entity ids, handy when driving the API by
// hand without tracking ids client-side.
func (h *DevHandler) Latest(c *gin.Context) {
	stats, err := h.interviews.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"latest_job_id":       stats.LatestJobID,
		"latest_candidate_id": stats.LatestCandidateID,
		"latest_interview_id": stats.LatestInterviewID,
	})
}
