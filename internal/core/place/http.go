package place

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/quangdng/spotline/internal/platform/request"
	"github.com/quangdng/spotline/internal/platform/respond"
	"github.com/quangdng/spotline/internal/platform/validate"
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
	router.Get("/", handler.listPlaces)
	router.Get("/{id}", handler.getPlace)
	return router
}

func (handler *Handler) listPlaces(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		CreatorID:  requestutil.Query(request, "creator_id"),
		Query:      requestutil.Query(request, "q"),
		LinkStatus: requestutil.Query(request, "link_status"),
	}

	places, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, places, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getPlace(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	place, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, place)
}

// ListByEpisode serves the episode-scoped projection. Mounted by the server
// under the episode route tree.
func (handler *Handler) ListByEpisode(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "id")

	places, err := handler.service.ListByEpisode(request.Context(), episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, places)
}

// ListActiveByCreator serves the monetization projection: the places of one
// creator whose affiliate link is active. Flagged places never show up.
func (handler *Handler) ListActiveByCreator(writer http.ResponseWriter, request *http.Request) {
	creatorID := requestutil.Query(request, "creator_id")
	if creatorID == "" {
		respond.Error(writer, request, validate.RequiredError("creator_id", "This query parameter is required"))
		return
	}

	places, err := handler.service.ListActiveByCreator(request.Context(), creatorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, places)
}
