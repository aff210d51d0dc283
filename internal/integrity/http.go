package integrity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/quangdng/spotline/internal/platform/request"
	"github.com/quangdng/spotline/internal/platform/respond"
)

type Handler struct {
	validator *Validator
	cache     *ReportCache
}

func NewHandler(validator *Validator, cache *ReportCache) *Handler {
	return &Handler{validator: validator, cache: cache}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/run", handler.runValidator)
	router.Get("/report", handler.latestReport)
	return router
}

// runValidator executes a synchronous pass and snapshots the result.
// ?plausibility=true additionally fetches active affiliate targets, which
// makes the run slow and network-bound.
func (handler *Handler) runValidator(writer http.ResponseWriter, request *http.Request) {
	checkPlausibility := requestutil.Query(request, "plausibility") == "true"

	report, err := handler.validator.Run(request.Context(), checkPlausibility)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cache.Store(request.Context(), report); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

func (handler *Handler) latestReport(writer http.ResponseWriter, request *http.Request) {
	report, err := handler.cache.Latest(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}
