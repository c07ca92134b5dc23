package handler

import (
	"apodweb"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"apodweb/pkg/apod"
	"apodweb/pkg/config"
	"apodweb/pkg/consts"
	srvc "apodweb/pkg/service"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Handler struct {
	services  *srvc.Service
	templates *template.Template
	session   config.Session
}

// NewHandler parses the views and returns a handler keeping sessions in the
// cookie described by session.
func NewHandler(services *srvc.Service, session config.Session) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"displayDate": apod.DisplayDate,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	if session.Cookie == "" {
		session.Cookie = consts.SessionCookie
	}

	return &Handler{
		services:  services,
		templates: tmpl,
		session:   session,
	}, nil
}

func (h *Handler) InitRoutes() *mux.Router {

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, logRequests, middleware.Recoverer, h.sessions)

	router.HandleFunc("/", h.index).Methods(http.MethodGet)
	router.HandleFunc("/fetchpicture", h.fetchPicture).Methods(http.MethodGet)
	router.HandleFunc("/favorites", h.favorites).Methods(http.MethodGet)
	router.HandleFunc("/favorites/add", h.addFavorite).Methods(http.MethodPost)

	router.HandleFunc("/v1/picture", h.PictureAPI).Methods(http.MethodGet)
	router.HandleFunc("/v1/favorites", h.FavoritesAPI).Methods(http.MethodGet)
	router.HandleFunc("/v1/favorites", h.AddFavoriteAPI).Methods(http.MethodPost)

	return router
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index", nil)
}

// fetchPicture shows today's or a random picture, depending on picturetype.
func (h *Handler) fetchPicture(w http.ResponseWriter, r *http.Request) {

	picture, err := h.services.RequestPicture(r.Context(), getStringParam(r, consts.ParamPictureType))
	if err != nil {
		logrus.Errorf("Error while fetching picture: %q", err)
		h.render(w, errorStatus(err), "error", "Could not fetch the picture of the day, please try again later.")
		return
	}

	h.render(w, http.StatusOK, "picture", picture)
}

func (h *Handler) favorites(w http.ResponseWriter, r *http.Request) {

	list, err := h.services.ListFavorites(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		logrus.Errorf("Error while listing favorites: %q", err)
		h.render(w, http.StatusInternalServerError, "error", "Could not load your favorites.")
		return
	}

	h.render(w, http.StatusOK, "favorites", list)
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "error", "Invalid favorite.")
		return
	}

	_, err := h.services.AddFavorite(r.Context(), sessionFrom(r.Context()), pictureFromForm(r))
	if err != nil {
		logrus.Errorf("Error while adding favorite: %q", err)
		h.render(w, errorStatus(err), "error", "Could not save this favorite.")
		return
	}

	http.Redirect(w, r, "/favorites", http.StatusSeeOther)
}

// PictureAPI is the JSON version of fetchPicture.
func (h *Handler) PictureAPI(w http.ResponseWriter, r *http.Request) {

	picture, err := h.services.RequestPicture(r.Context(), getStringParam(r, consts.ParamPictureType))
	if err != nil {
		logrus.Errorf("Error while fetching picture: %q", err)
		sendResponse(w, errorStatus(err), Response{Message: err.Error()})
		return
	}

	sendResponse(w, http.StatusOK, PictureResponse{Message: "ok", Picture: picture})
}

func (h *Handler) FavoritesAPI(w http.ResponseWriter, r *http.Request) {

	list, err := h.services.ListFavorites(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		logrus.Errorf("Error while listing favorites: %q", err)
		sendResponse(w, http.StatusInternalServerError, Response{Message: err.Error()})
		return
	}

	sendResponse(w, http.StatusOK, FavoritesResponse{Message: "ok", Favorites: list})
}

func (h *Handler) AddFavoriteAPI(w http.ResponseWriter, r *http.Request) {

	var picture apodweb.Picture
	if err := decodeBody(w, r, &picture); err != nil {
		sendResponse(w, http.StatusBadRequest, Response{Message: err.Error()})
		return
	}

	added, err := h.services.AddFavorite(r.Context(), sessionFrom(r.Context()), &picture)
	if err != nil {
		logrus.Errorf("Error while adding favorite: %q", err)
		sendResponse(w, errorStatus(err), Response{Message: err.Error()})
		return
	}

	if !added {
		sendResponse(w, http.StatusOK, Response{Message: "already saved"})
		return
	}

	sendResponse(w, http.StatusCreated, Response{Message: "saved"})
}

// errorStatus maps a service error to the status sent back to the browser.
func errorStatus(err error) int {
	var e *apod.Error
	switch {
	case errors.Is(err, srvc.ErrInvalidFavorite):
		return http.StatusBadRequest
	case errors.As(err, &e) && e.Kind == apod.Transport:
		return http.StatusServiceUnavailable
	case errors.As(err, &e):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
