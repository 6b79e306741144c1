package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rushil1274/palcodeai-local-testing/internal/services"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type CandidateHandler struct {
	candidates services.CandidateService
}

func NewCandidateHandler(candidates services.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates}
}

type CreateCandidateRequest struct {
	Name      string `json:"name" binding:"required"`
	PhoneE164 string `json:"phone_e164" binding:"required"`
}

type CreateCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	PhoneE164   string `json:"phone_e164"`
}

func (h *CandidateHandler) Create(c *gin.Context) {
	const op = "CandidateHandler.Create"

	var req CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "name and phone_e164 are required", err))
		return
	}

	cand, err := h.candidates.Create(c.Request.Context(), req.Name, req.PhoneE164)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateCandidateResponse{
		CandidateID: cand.ID,
		Name:        cand.Name,
		PhoneE164:   cand.PhoneE164,
	})
}

// AttachResumeMeta replaces the candidate's stored resume metadata. The body
// is taken as-is so callers can forward the parse response unchanged.
func (h *CandidateHandler) AttachResumeMeta(c *gin.Context) {
	const op = "CandidateHandler.AttachResumeMeta"

	var meta map[string]any
	if err := c.ShouldBindJSON(&meta); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid resume meta payload", err))
		return
	}

	if err := h.candidates.AttachResumeMeta(c.Request.Context(), c.Param("id"), meta); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CandidateHandler) Get(c *gin.Context) {
	cand, err := h.candidates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}
