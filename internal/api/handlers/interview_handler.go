package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rushil1274/palcodeai-local-testing/internal/services"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type InterviewHandler struct {
	interviews services.InterviewService
	fromNumber string
}

func NewInterviewHandler(interviews services.InterviewService, fromNumber string) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, fromNumber: fromNumber}
}

type TriggerInterviewRequest struct {
	JobID       string `json:"job_id"`
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	PhoneE164   string `json:"phone_e164"`
}

// Trigger starts an outbound screening call. The candidate is either an
// existing candidate_id or an inline name + phone_e164 pair.
func (h *InterviewHandler) Trigger(c *gin.Context) {
	const op = "InterviewHandler.Trigger"

	var req TriggerInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	res, err := h.interviews.Trigger(c.Request.Context(), services.TriggerInput{
		JobID:       req.JobID,
		CandidateID: req.CandidateID,
		Name:        req.Name,
		PhoneE164:   req.PhoneE164,
		FromNumber:  h.fromNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Get returns the interview snapshot, running the lazy reconcile-and-score
// pass first.
func (h *InterviewHandler) Get(c *gin.Context) {
	snap, err := h.interviews.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
