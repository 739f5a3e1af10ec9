package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/ports/outbound"
)

// ImageHandlers serves subject image lookups.
type ImageHandlers struct {
	images outbound.ImageResolver
	logger *zap.Logger
}

// NewImageHandlers creates the image handler set.
func NewImageHandlers(images outbound.ImageResolver, logger *zap.Logger) *ImageHandlers {
	return &ImageHandlers{images: images, logger: logger}
}

type subjectImageResponse struct {
	// URL is null when the whole resolution chain came up empty.
	URL *string `json:"url"`
}

// SubjectImage handles GET /api/images/subject?type=&name=.
func (h *ImageHandlers) SubjectImage(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeBadRequest(w, h.logger, "name is required")
		return
	}

	imageType := strings.TrimSpace(r.URL.Query().Get("type"))
	if imageType == "" {
		imageType = "food"
	}

	var resp subjectImageResponse
	if url := h.images.Resolve(r.Context(), imageType, name); url != "" {
		resp.URL = &url
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}
