package episode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/quangdng/spotline/internal/platform/request"
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
	router.Get("/", handler.listEpisodes)
	router.Get("/{id}", handler.getEpisode)
	return router
}

func (handler *Handler) listEpisodes(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		CreatorID: requestutil.Query(request, "creator_id"),
		Query:     requestutil.Query(request, "q"),
	}

	episodes, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, episodes, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getEpisode(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	episode, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, episode)
}
