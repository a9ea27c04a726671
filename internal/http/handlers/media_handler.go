package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/phtrivia/phtrivia-backend/internal/http/handlers/common"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/service"
	"github.com/phtrivia/phtrivia-backend/internal/storage"
)

var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaHandler accepts question image uploads. Uploaded bytes are
// sniffed, the claimed extension alone is not trusted.
type MediaHandler struct {
	storage   *storage.PhotoStorage
	questions *service.QuestionService
}

func NewMediaHandler(storage *storage.PhotoStorage, questions *service.QuestionService) *MediaHandler {
	return &MediaHandler{storage: storage, questions: questions}
}

// UploadQuestionImage handles POST /admin/questions/:id/image.
func (h *MediaHandler) UploadQuestionImage(c *gin.Context) {
	questionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if _, err := h.questions.GetQuestion(c.Request.Context(), questionID); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			common.RespondNotFound(c, "question not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "file is required")
		return
	}

	if file.Size > h.storage.MaxUploadBytes() {
		common.RespondError(c, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		common.RespondBadRequest(c, "file extension is not allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}
	defer src.Close()

	header := make([]byte, 261)
	n, err := src.Read(header)
	if err != nil && n == 0 {
		common.RespondBadRequest(c, "file is empty")
		return
	}

	kind, err := filetype.Match(header[:n])
	if err != nil || kind == filetype.Unknown || !allowedImageMimeTypes[kind.MIME.Value] {
		common.RespondBadRequest(c, "file content is not a supported image")
		return
	}

	if _, err := src.Seek(0, 0); err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), questionID, file.Filename, src)
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "failed to store file")
		return
	}

	if err := h.questions.SetQuestionImage(c.Request.Context(), questionID, relativePath); err != nil {
		// The file is orphaned if the reference write fails; remove it.
		_ = h.storage.Delete(c.Request.Context(), relativePath)
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": relativePath,
		"size": size,
		"mime": kind.MIME.Value,
	})
}
