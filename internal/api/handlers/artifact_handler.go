package handlers

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rushil1274/palcodeai-local-testing/internal/storage"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type ArtifactHandler struct {
	store storage.Store
}

func NewArtifactHandler(store storage.Store) *ArtifactHandler {
	return &ArtifactHandler{store: store}
}

func contentTypeFor(key string) string {
	switch path.Ext(key) {
	case ".mp3":
		return "audio/mpeg"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Serve streams a stored artifact (recording, call script, or resume text).
func (h *ArtifactHandler) Serve(c *gin.Context) {
	const op = "ArtifactHandler.Serve"

	key := strings.TrimPrefix(c.Param("path"), "/")
	if !storage.ValidKey(key) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid artifact path", nil))
		return
	}

	rc, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		writeError(c, utils.E(utils.CodeNotFound, op, "artifact not found", err))
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentTypeFor(key))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(err)
	}
}
