package affiliate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/quangdng/spotline/internal/platform/request"
	"github.com/quangdng/spotline/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes exposes the lifecycle transitions. Mounted under a place id, e.g.
// POST /places/{id}/affiliate/activate.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/url", handler.setURL)
	router.Post("/activate", handler.activate)
	router.Post("/deactivate", handler.deactivate)
	router.Post("/flag", handler.flag)
	router.Post("/resolve", handler.resolve)
	router.Post("/reverify", handler.reverify)
	return router
}

type urlRequest struct {
	URL string `json:"url"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (handler *Handler) setURL(writer http.ResponseWriter, request *http.Request) {
	var body urlRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.SetURL(request.Context(), requestutil.ID(request, "id"), body.URL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	updated, err := handler.service.Activate(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	var body reasonRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Deactivate(request.Context(), requestutil.ID(request, "id"), body.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) flag(writer http.ResponseWriter, request *http.Request) {
	var body reasonRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Flag(request.Context(), requestutil.ID(request, "id"), body.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	var body reasonRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Resolve(request.Context(), requestutil.ID(request, "id"), body.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) reverify(writer http.ResponseWriter, request *http.Request) {
	updated, err := handler.service.Reverify(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}
