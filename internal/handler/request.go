package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"rentflow-backend/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const defaultMaxUpload = 10 << 20

var errBadPayload = errors.New("invalid payload")

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadPayload
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// decodeIDs reads {"ids": [...]} from the body.
func decodeIDs(r *http.Request) ([]uuid.UUID, error) {
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errBadPayload
	}
	return req.IDs, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeForm reads the record from a JSON body or, for multipart requests,
// from the "data" form field. The parsed form is returned for file access.
func decodeForm(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) (*multipart.Form, error) {
	if !isMultipart(r) {
		return nil, decodeJSON(r, v)
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, errors.New("invalid multipart form: " + err.Error())
	}
	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), v); err != nil {
			return nil, errBadPayload
		}
	}
	return r.MultipartForm, nil
}

// formValue returns the first value of a plain form field.
func formValue(form *multipart.Form, key string) string {
	if form == nil || len(form.Value[key]) == 0 {
		return ""
	}
	return form.Value[key][0]
}

func formFiles(form *multipart.Form, field string) ([]domain.Upload, error) {
	if form == nil {
		return nil, nil
	}
	var out []domain.Upload
	for _, fh := range form.File[field] {
		up, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, nil
}

func formFile(form *multipart.Form, field string) (*domain.Upload, error) {
	files, err := formFiles(form, field)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

func readFile(fh *multipart.FileHeader) (domain.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Upload{}, err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return domain.Upload{FileName: fh.Filename, ContentType: contentType, Data: data}, nil
}

type idsFunc func(ctx context.Context, ids []uuid.UUID) error

// softDelete and restore serve the POST .../delete and .../undo routes.
func softDelete(w http.ResponseWriter, r *http.Request, fn idsFunc) {
	ids, err := decodeIDs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := fn(r.Context(), ids); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": len(ids)})
}

func restore(w http.ResponseWriter, r *http.Request, fn idsFunc) {
	ids, err := decodeIDs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := fn(r.Context(), ids); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restored": len(ids)})
}
