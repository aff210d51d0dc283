package integrity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quangdng/spotline/internal/platform/database/schema"
	"github.com/quangdng/spotline/internal/platform/dberr"
)

// DuplicateName is a (creator, name) bucket holding more than one live row.
type DuplicateName struct {
	CreatorID *string
	Name      string
	Count     int
}

// AffiliateRow is the slice of a place the URL checks look at.
type AffiliateRow struct {
	PlaceID string
	Name    string
	URL     string
	Status  string
}

// EpisodeRow feeds the numbering-gap check.
type EpisodeRow struct {
	EpisodeID string
	CreatorID string
	Title     string
}

// Store is the read-only query surface of the validator.
type Store interface {
	DuplicatePlaceNames(context context.Context) ([]DuplicateName, error)
	DuplicateProductNames(context context.Context) ([]DuplicateName, error)
	AffiliateRows(context context.Context) ([]AffiliateRow, error)
	AffiliateRow(context context.Context, placeID string) (*AffiliateRow, error)
	EpisodeRows(context context.Context) ([]EpisodeRow, error)
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (store *PostgresStore) DuplicatePlaceNames(context context.Context) ([]DuplicateName, error) {
	return store.duplicateNames(context,
		schema.CorePlace.Table, schema.CorePlace.CreatorID, schema.CorePlace.Name, schema.CorePlace.DeletedAt)
}

func (store *PostgresStore) DuplicateProductNames(context context.Context) ([]DuplicateName, error) {
	return store.duplicateNames(context,
		schema.CoreProduct.Table, schema.CoreProduct.CreatorID, schema.CoreProduct.Name, schema.CoreProduct.DeletedAt)
}

// duplicateNames groups live rows on (creator, lowercased name). The unique
// index should make a non-empty result impossible; a hit means the index
// was bypassed or predates the constraint.
func (store *PostgresStore) duplicateNames(context context.Context, table, creatorColumn, nameColumn, deletedColumn string) ([]DuplicateName, error) {
	query := fmt.Sprintf(`
		SELECT %s, LOWER(%s), COUNT(*)
		FROM %s
		WHERE %s IS NULL
		GROUP BY %s, LOWER(%s)
		HAVING COUNT(*) > 1
	`,
		creatorColumn, nameColumn, table, deletedColumn, creatorColumn, nameColumn,
	)

	rows, err := store.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "duplicate_names")
	}
	defer rows.Close()

	var duplicates []DuplicateName
	for rows.Next() {
		var d DuplicateName
		if err := rows.Scan(&d.CreatorID, &d.Name, &d.Count); err != nil {
			return nil, dberr.Wrap(err, "scan_duplicate_name")
		}
		duplicates = append(duplicates, d)
	}

	return duplicates, nil
}

func (store *PostgresStore) AffiliateRows(context context.Context) ([]AffiliateRow, error) {
	query := affiliateRowQuery("")

	rows, err := store.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "affiliate_rows")
	}
	defer rows.Close()

	var result []AffiliateRow
	for rows.Next() {
		var row AffiliateRow
		if err := rows.Scan(&row.PlaceID, &row.Name, &row.URL, &row.Status); err != nil {
			return nil, dberr.Wrap(err, "scan_affiliate_row")
		}
		result = append(result, row)
	}

	return result, nil
}

func (store *PostgresStore) AffiliateRow(context context.Context, placeID string) (*AffiliateRow, error) {
	query := affiliateRowQuery(fmt.Sprintf(" AND %s = $1", schema.CorePlace.ID))

	row := &AffiliateRow{}
	err := store.db.QueryRow(context, query, placeID).Scan(&row.PlaceID, &row.Name, &row.URL, &row.Status)
	if err != nil {
		return nil, dberr.Wrap(err, "affiliate_row")
	}
	return row, nil
}

func affiliateRowQuery(extraWhere string) string {
	return fmt.Sprintf(`
		SELECT %s, %s,
			COALESCE(%s->'linkswitch'->>'original_url', ''),
			COALESCE(%s->'linkswitch'->>'status', 'unset')
		FROM %s
		WHERE %s IS NULL%s
	`,
		schema.CorePlace.ID, schema.CorePlace.Name,
		schema.CorePlace.AffiliateInfo, schema.CorePlace.AffiliateInfo,
		schema.CorePlace.Table, schema.CorePlace.DeletedAt, extraWhere,
	)
}

func (store *PostgresStore) EpisodeRows(context context.Context) ([]EpisodeRow, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		ORDER BY %s, %s
	`,
		schema.CoreEpisode.ID, schema.CoreEpisode.CreatorID, schema.CoreEpisode.Title,
		schema.CoreEpisode.Table,
		schema.CoreEpisode.CreatorID, schema.CoreEpisode.PublishedAt,
	)

	rows, err := store.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "episode_rows")
	}
	defer rows.Close()

	var result []EpisodeRow
	for rows.Next() {
		var row EpisodeRow
		if err := rows.Scan(&row.EpisodeID, &row.CreatorID, &row.Title); err != nil {
			return nil, dberr.Wrap(err, "scan_episode_row")
		}
		result = append(result, row)
	}

	return result, nil
}
