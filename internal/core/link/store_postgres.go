package link

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quangdng/spotline/internal/platform/database/schema"
	"github.com/quangdng/spotline/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func joinTable(kind Kind) (table, targetColumn string) {
	if kind == KindProduct {
		return schema.CoreEpisodeProduct.Table, schema.CoreEpisodeProduct.ProductID
	}
	return schema.CoreEpisodePlace.Table, schema.CoreEpisodePlace.PlaceID
}

// Insert relies on the pair's unique index: ON CONFLICT DO NOTHING turns a
// duplicate attempt into zero affected rows instead of an error, which also
// settles concurrent racers for the same pair.
func (repository *PostgresRepository) Insert(context context.Context, kind Kind, episodeID, targetID string) (bool, error) {
	table, targetColumn := joinTable(kind)
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING
	`,
		table, schema.CoreEpisodePlace.EpisodeID, targetColumn, schema.CoreEpisodePlace.CreatedAt,
	)

	cmd, err := repository.db.Exec(context, query, episodeID, targetID)
	if err != nil {
		return false, dberr.Wrap(err, "insert_link")
	}
	return cmd.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) Delete(context context.Context, kind Kind, episodeID, targetID string) error {
	table, targetColumn := joinTable(kind)
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		table, schema.CoreEpisodePlace.EpisodeID, targetColumn,
	)

	cmd, err := repository.db.Exec(context, query, episodeID, targetID)
	if err != nil {
		return dberr.Wrap(err, "delete_link")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ListByEpisode(context context.Context, episodeID string) ([]Link, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, 'place', %s FROM %s WHERE %s = $1
		UNION ALL
		SELECT %s, %s, 'product', %s FROM %s WHERE %s = $1
		ORDER BY 4
	`,
		schema.CoreEpisodePlace.EpisodeID, schema.CoreEpisodePlace.PlaceID,
		schema.CoreEpisodePlace.CreatedAt, schema.CoreEpisodePlace.Table,
		schema.CoreEpisodePlace.EpisodeID,
		schema.CoreEpisodeProduct.EpisodeID, schema.CoreEpisodeProduct.ProductID,
		schema.CoreEpisodeProduct.CreatedAt, schema.CoreEpisodeProduct.Table,
		schema.CoreEpisodeProduct.EpisodeID,
	)

	rows, err := repository.db.Query(context, query, episodeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_links")
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.EpisodeID, &l.TargetID, &l.Kind, &l.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_link")
		}
		links = append(links, l)
	}

	return links, nil
}

// ListOrphans finds live places and products no join row points at.
func (repository *PostgresRepository) ListOrphans(context context.Context) ([]Orphan, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, 'place', p.%s
		FROM %s p
		LEFT JOIN %s ep ON ep.%s = p.%s
		WHERE ep.%s IS NULL AND p.%s IS NULL
		UNION ALL
		SELECT pr.%s, 'product', pr.%s
		FROM %s pr
		LEFT JOIN %s epr ON epr.%s = pr.%s
		WHERE epr.%s IS NULL AND pr.%s IS NULL
		ORDER BY 2, 3
	`,
		schema.CorePlace.ID, schema.CorePlace.Name,
		schema.CorePlace.Table,
		schema.CoreEpisodePlace.Table, schema.CoreEpisodePlace.PlaceID, schema.CorePlace.ID,
		schema.CoreEpisodePlace.PlaceID, schema.CorePlace.DeletedAt,
		schema.CoreProduct.ID, schema.CoreProduct.Name,
		schema.CoreProduct.Table,
		schema.CoreEpisodeProduct.Table, schema.CoreEpisodeProduct.ProductID, schema.CoreProduct.ID,
		schema.CoreEpisodeProduct.ProductID, schema.CoreProduct.DeletedAt,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_orphans")
	}
	defer rows.Close()

	var orphans []Orphan
	for rows.Next() {
		var o Orphan
		if err := rows.Scan(&o.ID, &o.Kind, &o.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_orphan")
		}
		orphans = append(orphans, o)
	}

	return orphans, nil
}
