package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"skyvault/internal/database"
	"skyvault/internal/files"
	"skyvault/internal/filetype"
	"skyvault/internal/models"
)

type UploadResult struct {
	Name  string       `json:"name"`
	File  *models.File `json:"file,omitempty"`
	Error string       `json:"error,omitempty"`
}

// @Summary      Upload files
// @Description  Uploads one or more files from a multipart form. Each file is uploaded independently: oversize files are rejected per file before any storage call, and one failure does not abort the rest of the batch.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionCookie
// @Param        files  formData  file  true  "File(s) to upload"
// @Success      201    {array}   UploadResult
// @Failure      400    {string}  string "Bad Request"
// @Failure      401    {string}  string "Unauthorized"
// @Router       /files [post]
func (s *Server) UploadFilesHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<30)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "No files provided (use the 'files' form field)", http.StatusBadRequest)
		return
	}

	// Each file is an independent upload with no ordering guarantee,
	// matching how the browser dispatches a multi-file drop.
	results := make([]UploadResult, len(headers))
	var wg sync.WaitGroup
	for i, header := range headers {
		wg.Add(1)
		go func(i int, header *multipart.FileHeader) {
			defer wg.Done()
			results[i] = s.uploadOne(r, user, header)
		}(i, header)
	}
	wg.Wait()

	status := http.StatusCreated
	for _, res := range results {
		if res.Error != "" {
			status = http.StatusMultiStatus
			break
		}
	}

	writeJSON(w, status, results)
}

func (s *Server) uploadOne(r *http.Request, user *models.User, header *multipart.FileHeader) UploadResult {
	result := UploadResult{Name: header.Filename}

	if header.Size > files.MaxUploadBytes {
		result.Error = fmt.Sprintf("%s is too large. Max file size is %d MB.", header.Filename, files.MaxUploadBytes/(1024*1024))
		return result
	}

	src, err := header.Open()
	if err != nil {
		result.Error = "Failed to read uploaded file"
		return result
	}
	defer src.Close()

	file, err := s.files.Upload(r.Context(), user, header.Filename, header.Size, src)
	if err != nil {
		log.Printf("ERROR: upload of %s for user %d failed: %v", header.Filename, user.ID, err)
		result.Error = "Failed to upload file"
		return result
	}

	result.File = file
	return result
}

type ListFilesResponse struct {
	Files []models.File `json:"files"`
	Total int64         `json:"total"`
}

// @Summary      List files
// @Description  Lists files the viewer owns or has been shared. Supports category filters, substring search on the name, a sort spec of the form "field-asc"/"field-desc" (anything but "asc" sorts descending), and a result limit.
// @Tags         files
// @Produce      json
// @Security     SessionCookie
// @Param        type    query     string  false  "Category filter, repeatable (document, image, video, audio, other)"
// @Param        search  query     string  false  "Substring to match in file names"
// @Param        sort    query     string  false  "Sort spec"  default($createdAt-desc)
// @Param        limit   query     int     false  "Maximum number of results"
// @Success      200     {object}  ListFilesResponse
// @Failure      400     {string}  string "Bad Request"
// @Failure      401     {string}  string "Unauthorized"
// @Failure      500     {string}  string "Failed to list files"
// @Router       /files [get]
func (s *Server) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var types []filetype.Category
	for _, t := range r.URL.Query()["type"] {
		category := filetype.Category(t)
		if !filetype.Valid(category) {
			http.Error(w, "Unknown file type: "+t, http.StatusBadRequest)
			return
		}
		types = append(types, category)
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid 'limit' parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	fileList, total, err := s.files.List(
		r.Context(),
		user,
		types,
		r.URL.Query().Get("search"),
		r.URL.Query().Get("sort"),
		limit,
	)
	if err != nil {
		if errors.Is(err, database.ErrUnknownQueryField) {
			http.Error(w, "Unknown sort or filter field", http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: listing files for user %d failed: %v", user.ID, err)
		http.Error(w, "Failed to list files", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListFilesResponse{Files: fileList, Total: total})
}

type RenameFileRequest struct {
	Name      string `json:"name" example:"quarterly-report"`
	Extension string `json:"extension" example:"pdf"`
}

// @Summary      Rename a file
// @Description  Recomputes the full name as "name.extension" and updates the name only. Only the owner may rename.
// @Tags         files
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        fileId   path      string             true  "File ID"
// @Param        request  body      RenameFileRequest  true  "New base name and extension"
// @Success      200      {object}  models.File
// @Failure      400      {string}  string "Bad Request"
// @Failure      401      {string}  string "Unauthorized"
// @Failure      404      {string}  string "File not found"
// @Failure      500      {string}  string "Failed to rename file"
// @Router       /files/{fileId} [patch]
func (s *Server) RenameFileHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	fileID := chi.URLParam(r, "fileId")

	var req RenameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	file, err := s.files.Rename(r.Context(), user, fileID, req.Name, req.Extension)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrEmptyName):
			http.Error(w, "Name cannot be empty", http.StatusBadRequest)
		case errors.Is(err, files.ErrNotFound):
			http.Error(w, "File not found or you do not have permission to modify it", http.StatusNotFound)
		default:
			log.Printf("ERROR: renaming file %s failed: %v", fileID, err)
			http.Error(w, "Failed to rename file", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, file)
}

type UpdateSharingRequest struct {
	Emails []string `json:"emails" example:"friend@example.com"`
}

// @Summary      Update file sharing
// @Description  Replaces the sharing email list wholesale: the provided list becomes the complete set of additional viewers.
// @Tags         files
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        fileId   path      string                true  "File ID"
// @Param        request  body      UpdateSharingRequest  true  "Complete list of viewer emails"
// @Success      200      {object}  models.File
// @Failure      400      {string}  string "Bad Request"
// @Failure      401      {string}  string "Unauthorized"
// @Failure      404      {string}  string "File not found"
// @Failure      500      {string}  string "Failed to update sharing"
// @Router       /files/{fileId}/users [put]
func (s *Server) UpdateSharingHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	fileID := chi.URLParam(r, "fileId")

	var req UpdateSharingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	file, err := s.files.UpdateSharing(r.Context(), user, fileID, req.Emails)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			http.Error(w, "File not found or you do not have permission to modify it", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: updating sharing of file %s failed: %v", fileID, err)
		http.Error(w, "Failed to update sharing", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// @Summary      Delete a file
// @Description  Deletes the database record first and the storage object only afterwards. When the record delete fails the object is left intact.
// @Tags         files
// @Security     SessionCookie
// @Param        fileId  path      string  true  "File ID"
// @Success      204     {null}    nil "No Content"
// @Failure      401     {string}  string "Unauthorized"
// @Failure      404     {string}  string "File not found"
// @Failure      500     {string}  string "Failed to delete file"
// @Router       /files/{fileId} [delete]
func (s *Server) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	fileID := chi.URLParam(r, "fileId")

	if err := s.files.Delete(r.Context(), user, fileID); err != nil {
		if errors.Is(err, files.ErrNotFound) {
			http.Error(w, "File not found or you do not have permission to delete it", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: deleting file %s failed: %v", fileID, err)
		http.Error(w, "Failed to delete file", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      View a file
// @Description  Streams the file bytes inline. This is the target of a record's public URL.
// @Tags         files
// @Produce      octet-stream
// @Param        fileId  path      string  true  "File ID"
// @Success      200     {file}    file
// @Failure      404     {string}  string "File not found"
// @Router       /files/{fileId}/view [get]
func (s *Server) ViewFileHandler(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "inline")
}

// @Summary      Download a file
// @Description  Streams the file bytes as an attachment.
// @Tags         files
// @Produce      octet-stream
// @Param        fileId  path      string  true  "File ID"
// @Success      200     {file}    file
// @Failure      404     {string}  string "File not found"
// @Router       /files/{fileId}/download [get]
func (s *Server) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "attachment")
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, disposition string) {
	fileID := chi.URLParam(r, "fileId")
	if fileID == "" {
		http.Error(w, "File ID is required", http.StatusBadRequest)
		return
	}

	file, reader, err := s.files.Open(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: serving file %s failed: %v", fileID, err)
		http.Error(w, "Failed to serve file", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Name))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))

	io.Copy(w, reader)
}
