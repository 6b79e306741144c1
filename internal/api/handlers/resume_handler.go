package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rushil1274/palcodeai-local-testing/internal/services"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type ResumeHandler struct {
	resumes services.ResumeService
}

func NewResumeHandler(resumes services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

// Parse accepts a resume upload and returns the best-effort extraction.
func (h *ResumeHandler) Parse(c *gin.Context) {
	const op = "ResumeHandler.Parse"

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is required", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer f.Close()

	meta, err := h.resumes.Parse(c.Request.Context(), fh.Filename, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}
