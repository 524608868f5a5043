package adaptor

import (
	"net/http"

	"travel-agency/internal/usecase"
	"travel-agency/pkg/utils"
)

const maxUploadBytes = 10 << 20

// readImage pulls the "image" file out of a multipart form. The returned
// close func must be called once the upload has been stored.
func readImage(w http.ResponseWriter, r *http.Request) (usecase.ImageUpload, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", map[string]string{"image": "Must be a file up to 10MB"})
		return usecase.ImageUpload{}, nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"image": "This field is required"})
		return usecase.ImageUpload{}, nil, false
	}

	closeFn := func() {
		file.Close()
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}

	return usecase.ImageUpload{Filename: header.Filename, Body: file}, closeFn, true
}
