package link

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
	router.Post("/", handler.createLink)
	router.Delete("/", handler.deleteLink)
	router.Get("/orphans", handler.listOrphans)
	return router
}

type linkRequest struct {
	EpisodeID string `json:"episode_id"`
	TargetID  string `json:"target_id"`
	Kind      Kind   `json:"kind"`
}

func (handler *Handler) createLink(writer http.ResponseWriter, request *http.Request) {
	var body linkRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Link(request.Context(), body.Kind, body.EpisodeID, body.TargetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.AlreadyLinked {
		respond.OK(writer, result)
		return
	}
	respond.Created(writer, result)
}

func (handler *Handler) deleteLink(writer http.ResponseWriter, request *http.Request) {
	var body linkRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Unlink(request.Context(), body.Kind, body.EpisodeID, body.TargetID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listOrphans(writer http.ResponseWriter, request *http.Request) {
	orphans, err := handler.service.ListOrphans(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, orphans)
}

// ListByEpisode serves the episode-scoped link listing. Mounted by the
// server under the episode route tree.
func (handler *Handler) ListByEpisode(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "id")

	links, err := handler.service.ListByEpisode(request.Context(), episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, links)
}
