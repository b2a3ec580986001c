package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"chirp/apperr"
	"chirp/media"
)

type pendingImage struct {
	field  string
	upload media.Upload
}

// openImages opens and checks the multipart files under fields. Missing
// fields are skipped. Nothing is stored, so a rejected request leaves no
// files behind. The returned func closes every opened file.
func openImages(c *gin.Context, fields ...string) ([]pendingImage, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, closeAll, nil
	}

	var out []pendingImage
	for _, field := range fields {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			closeAll()
			return nil, func() {}, apperr.Invalid(field, "could not read uploaded file")
		}

		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperr.Internal(err)
		}
		files = append(files, f)

		up, err := media.Prepare(field, media.Upload{Size: fh.Size, Body: f})
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		out = append(out, pendingImage{field: field, upload: up})
	}
	return out, closeAll, nil
}

// saveImages stores checked images and returns their URLs by field.
func (h *handler) saveImages(c *gin.Context, images []pendingImage) (map[string]string, error) {
	urls := make(map[string]string, len(images))
	for _, img := range images {
		url, err := h.media.Save(c.Request.Context(), img.upload)
		if err != nil {
			return nil, err
		}
		urls[img.field] = url
	}
	return urls, nil
}
