package handlers

import (
	"net/http"

	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
)

// UploadHandler handles media uploads (avatars, post images)
type UploadHandler struct {
	uploader *services.Uploader
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploader *services.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// RegisterUploadRoutes registers upload-related routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/uploads", h.Upload)
}

// maxUploadSize caps a single media upload at 5 MiB
const maxUploadSize = 5 << 20

// Upload stores a multipart file in the media bucket and returns its
// public URL. The caller puts the URL into the profile or post it was
// uploading for; an upload failure aborts that dependent write.
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, err := currentClaims(c); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'file' form field")
	}
	if fileHeader.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File exceeds the 5MB upload limit")
	}

	folder := c.FormValue("folder")
	if folder != "avatars" && folder != "posts" {
		folder = "media"
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer file.Close()

	url, err := h.uploader.Upload(
		c.Request().Context(),
		folder,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
