package handler

import (
	"apodweb"
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// getStringParam reads a query parameter, nil requests read as empty.
func getStringParam(r *http.Request, name string) string {

	if r == nil {
		return ""
	}

	return r.URL.Query().Get(name)
}

// Response is the body of every JSON answer that carries only a message.
type Response struct {
	Message string `json:"message"`
}

type PictureResponse struct {
	Message string           `json:"message"`
	Picture *apodweb.Picture `json:"picture"`
}

type FavoritesResponse struct {
	Message   string            `json:"message"`
	Favorites []apodweb.Picture `json:"favorites"`
}

// sendResponse writes body as JSON with the given status.
func sendResponse(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}

// render executes a view into a buffer, the page is sent whole or not at all.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logrus.Errorf("error while rendering %s: %q", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// pictureFromForm reads the hidden fields of the add-to-favorites form.
func pictureFromForm(r *http.Request) *apodweb.Picture {
	isImage, _ := strconv.ParseBool(r.PostForm.Get("is_image"))

	return &apodweb.Picture{
		Date:        r.PostForm.Get("date"),
		Title:       r.PostForm.Get("title"),
		URL:         r.PostForm.Get("url"),
		HDURL:       r.PostForm.Get("hdurl"),
		ThumbURL:    r.PostForm.Get("thumbnail_url"),
		MediaType:   r.PostForm.Get("media_type"),
		Copyright:   r.PostForm.Get("copyright"),
		Explanation: r.PostForm.Get("explanation"),
		Credit:      r.PostForm.Get("credit"),
		IsImage:     isImage,
		NasaURL:     r.PostForm.Get("nasa_url"),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logrus.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}
