package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"tinytreats/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UploadHandler stores product images and hands back their public URL
type UploadHandler struct {
	Dir string
}

// Upload saves the multipart file under the upload directory
func (h *UploadHandler) Upload(c echo.Context) error {
	log := logger.FromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		log.Error("Missing file in upload request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}

	src, err := file.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}
	defer src.Close()

	// Strip any path components a client might send
	name := filepath.Base(file.Filename)
	dstPath := filepath.Join(h.Dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		log.Error("Failed to create upload file",
			zap.String("path", dstPath),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store upload"})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		log.Error("Failed to write upload file",
			zap.String("path", dstPath),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store upload"})
	}

	log.Info("File uploaded", zap.String("filename", name))
	return c.JSON(http.StatusOK, echo.Map{"url": "/uploads/" + name})
}
