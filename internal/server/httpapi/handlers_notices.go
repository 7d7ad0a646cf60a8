package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"noticeboard/internal/server/models"
	"noticeboard/internal/server/services"
)

type noticeResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type attachmentResponse struct {
	ID           int64  `json:"id"`
	NoticeID     int64  `json:"notice_id"`
	OriginalName string `json:"original_name"`
}

func toNoticeResponse(n *models.Notice) noticeResponse {
	return noticeResponse{ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt}
}

func toAttachmentResponses(attaches []*models.Attachment) []attachmentResponse {
	result := make([]attachmentResponse, 0, len(attaches))
	for _, a := range attaches {
		result = append(result, attachmentResponse{ID: a.ID, NoticeID: a.NoticeID, OriginalName: a.OriginalName})
	}
	return result
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (s *Server) handleListNotices(w http.ResponseWriter, r *http.Request) {
	list, err := s.notices.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result := make([]noticeResponse, 0, len(list))
	for _, n := range list {
		result = append(result, toNoticeResponse(n))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetNotice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	notice, attaches, err := s.notices.Find(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"notice":   toNoticeResponse(notice),
		"attaches": toAttachmentResponses(attaches),
	})
}

// handleCreateNotice accepts a multipart form with "title" and "content"
// fields plus zero or more "files" parts. Empty file parts are skipped by
// the service.
func (s *Server) handleCreateNotice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	title := r.FormValue("title")
	if title == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	notice := &models.Notice{Title: title, Content: r.FormValue("content")}

	var uploads []services.FileUpload
	var opened []io.Closer
	defer func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}()

	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				s.writeError(w, r, fmt.Errorf("open multipart file: %w", err))
				return
			}
			opened = append(opened, f)
			uploads = append(uploads, services.FileUpload{
				OriginalName: fh.Filename,
				Size:         fh.Size,
				Data:         f,
			})
		}
	}

	if err := s.notices.Create(r.Context(), notice, uploads); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toNoticeResponse(notice))
}

func (s *Server) handleDeleteNotice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	deleted, err := s.notices.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	attach, rc, err := s.notices.OpenAttachment(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": attach.OriginalName}))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "attachment download interrupted", "id", id, "error", err)
	}
}
