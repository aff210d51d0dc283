package schema

// CoreEpisodeProductTable represents the 'core.episodeproduct' join table.
//
// Mirrors core.episodeplace: unique (episodeid, productid) pair, cascade on
// deletion of either endpoint.
type CoreEpisodeProductTable struct {
	Table     string
	EpisodeID string
	ProductID string
	CreatedAt string
}

// CoreEpisodeProduct is the schema definition for core.episodeproduct
var CoreEpisodeProduct = CoreEpisodeProductTable{
	Table:     "core.episodeproduct",
	EpisodeID: "episodeid",
	ProductID: "productid",
	CreatedAt: "createdat",
}
