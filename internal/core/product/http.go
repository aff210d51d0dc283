package product

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
	router.Get("/", handler.listProducts)
	router.Get("/{id}", handler.getProduct)
	return router
}

func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		CreatorID: requestutil.Query(request, "creator_id"),
		Category:  requestutil.Query(request, "category"),
		Query:     requestutil.Query(request, "q"),
	}

	products, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, products, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	product, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

// ListByEpisode serves the episode-scoped projection. Mounted by the server
// under the episode route tree.
func (handler *Handler) ListByEpisode(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "id")

	products, err := handler.service.ListByEpisode(request.Context(), episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, products)
}
