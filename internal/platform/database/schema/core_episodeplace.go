package schema

// CoreEpisodePlaceTable represents the 'core.episodeplace' join table.
//
// The (episodeid, placeid) pair carries a unique index: at most one link row
// may exist per pair, which makes concurrent duplicate-link attempts a no-op.
type CoreEpisodePlaceTable struct {
	Table     string
	EpisodeID string
	PlaceID   string
	CreatedAt string
}

// CoreEpisodePlace is the schema definition for core.episodeplace
var CoreEpisodePlace = CoreEpisodePlaceTable{
	Table:     "core.episodeplace",
	EpisodeID: "episodeid",
	PlaceID:   "placeid",
	CreatedAt: "createdat",
}
