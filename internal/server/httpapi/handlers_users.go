package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"noticeboard/internal/server/models"
	"noticeboard/internal/server/services"
)

type userResponse struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	HasPhoto    bool      `json:"has_photo"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Login:       u.Login,
		DisplayName: u.DisplayName,
		HasPhoto:    u.HasPhoto(),
		CreatedAt:   u.CreatedAt,
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result := make([]userResponse, 0, len(list))
	for _, u := range list {
		result = append(result, toUserResponse(u))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	user, err := s.users.Find(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// handleSignUp accepts a multipart form with "login", "display_name" and
// "password" fields plus an optional "photo" part.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	login := r.FormValue("login")
	password := r.FormValue("password")
	if login == "" || password == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "login and password are required"})
		return
	}
	user := &models.User{Login: login, DisplayName: r.FormValue("display_name")}

	var photo services.FileUpload
	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["photo"]; len(headers) > 0 {
			fh := headers[0]
			f, err := fh.Open()
			if err != nil {
				s.writeError(w, r, fmt.Errorf("open multipart file: %w", err))
				return
			}
			defer f.Close()
			photo = services.FileUpload{OriginalName: fh.Filename, Size: fh.Size, Data: f}
		}
	}

	if err := s.users.SignUp(r.Context(), user, password, photo); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleUserPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	user, rc, err := s.users.OpenPhoto(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": user.OriginalName}))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "photo download interrupted", "id", id, "error", err)
	}
}
