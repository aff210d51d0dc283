package creator

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quangdng/spotline/internal/platform/respond"
	"github.com/quangdng/spotline/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listCreators)
	router.Get("/{slug}", handler.getCreatorBySlug)
	return router
}

func (handler *Handler) listCreators(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		Query:  request.URL.Query().Get("q"),
		Status: request.URL.Query().Get("status"),
	}

	creators, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, creators, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getCreatorBySlug(writer http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	creator, err := handler.service.GetBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, creator)
}
