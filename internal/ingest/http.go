package ingest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/quangdng/spotline/internal/platform/request"
	"github.com/quangdng/spotline/internal/platform/respond"
)

type Handler struct {
	pipeline *Pipeline
}

func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.runBatch)
	return router
}

// runBatch ingests a provider batch synchronously and returns the summary.
// The response is 200 even when records failed; callers read the summary's
// error list rather than the status code.
func (handler *Handler) runBatch(writer http.ResponseWriter, request *http.Request) {
	var batch Batch
	if err := requestutil.DecodeJSON(request, &batch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.pipeline.Run(request.Context(), batch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}
