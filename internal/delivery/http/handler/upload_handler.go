package handler

import (
	"io"
	"net/http"

	"belezure-api/internal/service"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"
	"belezure-api/pkg/session"
)

// multipart overhead allowed on top of the image itself
const uploadFormOverhead = 1 << 20

type UploadHandler struct {
	uploadUsecase usecase.UploadUsecase
}

func NewUploadHandler(uploadUsecase usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{
		uploadUsecase: uploadUsecase,
	}
}

// UploadImage accepts a multipart form with the image in the "file" field
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+uploadFormOverhead)
	if err := r.ParseMultipartForm(service.MaxImageSize + uploadFormOverhead); err != nil {
		response.BadRequest(w, "Invalid multipart form or image exceeds the 10MB limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		response.BadRequest(w, "Failed to read file")
		return
	}

	uploaded, err := h.uploadUsecase.UploadImage(r.Context(), sess.UserID, header.Filename, content)
	if err != nil {
		writeUsecaseError(w, err, "Failed to upload image")
		return
	}

	response.Success(w, http.StatusCreated, "Image uploaded successfully", uploaded)
}
