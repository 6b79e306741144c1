package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/services"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type CreateJobResponse struct {
	JobID     string   `json:"job_id"`
	Questions []string `json:"questions"`
}

// Create accepts a job description as a form field or an uploaded
// PDF/DOCX/TXT file and returns the generated questions.
func (h *JobHandler) Create(c *gin.Context) {
	const op = "JobHandler.Create"

	jdText := c.PostForm("jd_text")

	if fh, err := c.FormFile("file"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
			return
		}
		defer f.Close()

		text, err := services.ExtractDocumentText(fh.Filename, f)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to extract text from file", err))
			return
		}
		jdText = text
	}

	if jdText == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "provide jd_text or file", nil))
		return
	}

	job, err := h.jobs.CreateFromDescription(c.Request.Context(), jdText)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateJobResponse{JobID: job.ID, Questions: job.Questions})
}

// Get returns one job; "latest" resolves the most recently created one.
func (h *JobHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var (
		job *models.Job
		err error
	)
	if id == "latest" {
		job, err = h.jobs.Latest(c.Request.Context())
	} else {
		job, err = h.jobs.Get(c.Request.Context(), id)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
