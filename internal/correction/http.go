package correction

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

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.correct)
	router.Get("/{kind}/{id}/history", handler.history)
	router.Post("/rollback/{auditId}", handler.rollback)
	return router
}

type correctRequest struct {
	Kind   EntityKind        `json:"kind"`
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
	Note   string            `json:"note"`
}

type rollbackRequest struct {
	Note string `json:"note"`
}

func (handler *Handler) correct(writer http.ResponseWriter, request *http.Request) {
	var body correctRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Correct(request.Context(), Input{
		Kind:   body.Kind,
		ID:     body.ID,
		Fields: body.Fields,
		Note:   body.Note,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	kind := EntityKind(requestutil.Param(request, "kind"))
	entityID := requestutil.ID(request, "id")

	changes, err := handler.service.History(request.Context(), kind, entityID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, changes)
}

func (handler *Handler) rollback(writer http.ResponseWriter, request *http.Request) {
	var body rollbackRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Rollback(request.Context(), requestutil.ID(request, "auditId"), body.Note)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
