package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/ikkim/canteen-backend/internal/middleware"
	"github.com/ikkim/canteen-backend/internal/storage"
)

type UploadController struct {
	presigner storage.Presigner
}

func NewUploadController(presigner storage.Presigner) *UploadController {
	return &UploadController{
		presigner: presigner,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder" binding:"required"`
}

// GeneratePresignedURL 매장/메뉴 이미지 직접 업로드용 URL 발급
// POST /upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c)
		return
	}

	if ctrl.presigner == nil {
		log.Warn("Presigned URL requested but storage is not configured")
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadUnavailable, "File storage is not configured")
		return
	}

	upload, err := ctrl.presigner.PresignUpload(c.Request.Context(), req.Folder, req.Filename, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedContentType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		case errors.Is(err, storage.ErrInvalidFolder):
			apperrors.BadRequest(c, apperrors.UploadInvalidFolder, err.Error())
		default:
			log.Error("Failed to generate presigned URL", err, map[string]interface{}{
				"filename":     req.Filename,
				"content_type": req.ContentType,
				"folder":       req.Folder,
			})
			apperrors.InternalError(c, "Failed to generate presigned URL")
		}
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": upload.Key,
	})
	c.JSON(http.StatusOK, upload)
}
