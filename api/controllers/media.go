package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kasuwa-dev/kasuwa-backend/api/responses"
	"github.com/kasuwa-dev/kasuwa-backend/internal/catalog"
	"github.com/kasuwa-dev/kasuwa-backend/internal/media"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/config"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/logger"
)

// ProductImageUpload accepts a multipart "image" part, stores the file under
// the media dir and attaches a product_images row.
func ProductImageUpload(svc media.Service, cfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file required"))
			return
		}
		defer file.Close()

		upload := media.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
			IsMain:   strings.EqualFold(r.FormValue("is_main"), "true"),
		}

		if alt := strings.TrimSpace(r.FormValue("alt_text")); alt != "" {
			upload.AltText = &alt
		}
		if raw := strings.TrimSpace(r.FormValue("position")); raw != "" {
			position, err := strconv.Atoi(raw)
			if err != nil || position < 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "position must be a non-negative integer"))
				return
			}
			upload.Position = position
		}

		image, err := svc.SaveProductImage(r.Context(), productID, upload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.ImageView{
			ID:       image.ID,
			URL:      image.URL,
			AltText:  image.AltText,
			IsMain:   image.IsMain,
			Position: image.Position,
		})
	}
}
