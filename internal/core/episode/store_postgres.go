package episode

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

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Episode, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE
	`,
		schema.CoreEpisode.ID, schema.CoreEpisode.CreatorID, schema.CoreEpisode.ExternalID,
		schema.CoreEpisode.Title, schema.CoreEpisode.Description, schema.CoreEpisode.PublishedAt,
		schema.CoreEpisode.MediaURL, schema.CoreEpisode.ThumbnailURL, schema.CoreEpisode.Tags,
		schema.CoreEpisode.CreatedAt, schema.CoreEpisode.UpdatedAt,
		schema.CoreEpisode.Table,
	)

	args := []any{}
	argID := 1

	if f.CreatorID != "" {
		query += fmt.Sprintf(" AND %s = $%d", schema.CoreEpisode.CreatorID, argID)
		args = append(args, f.CreatorID)
		argID++
	}
	if f.Query != "" {
		query += fmt.Sprintf(" AND %s ILIKE $%d", schema.CoreEpisode.Title, argID)
		args = append(args, "%"+f.Query+"%")
		argID++
	}

	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d OFFSET $%d", schema.CoreEpisode.PublishedAt, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_episodes")
	}
	defer rows.Close()

	var episodes []*Episode
	var total int
	for rows.Next() {
		e := &Episode{}
		if err := rows.Scan(
			&e.ID, &e.CreatorID, &e.ExternalID, &e.Title, &e.Description, &e.PublishedAt,
			&e.MediaURL, &e.ThumbnailURL, &e.Tags, &e.CreatedAt, &e.UpdatedAt, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_episode")
		}
		episodes = append(episodes, e)
	}

	return episodes, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Episode, error) {
	return repository.getByColumn(context, schema.CoreEpisode.ID, id)
}

func (repository *PostgresRepository) GetByExternalID(context context.Context, externalID string) (*Episode, error) {
	return repository.getByColumn(context, schema.CoreEpisode.ExternalID, externalID)
}

func (repository *PostgresRepository) getByColumn(context context.Context, column, value string) (*Episode, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.CoreEpisode.ID, schema.CoreEpisode.CreatorID, schema.CoreEpisode.ExternalID,
		schema.CoreEpisode.Title, schema.CoreEpisode.Description, schema.CoreEpisode.PublishedAt,
		schema.CoreEpisode.MediaURL, schema.CoreEpisode.ThumbnailURL, schema.CoreEpisode.Tags,
		schema.CoreEpisode.CreatedAt, schema.CoreEpisode.UpdatedAt,
		schema.CoreEpisode.Table, column,
	)
	e := &Episode{}

	err := repository.db.QueryRow(context, query, value).Scan(
		&e.ID, &e.CreatorID, &e.ExternalID, &e.Title, &e.Description, &e.PublishedAt,
		&e.MediaURL, &e.ThumbnailURL, &e.Tags, &e.CreatedAt, &e.UpdatedAt,
	)

	return e, dberr.Wrap(err, "get_episode")
}

func (repository *PostgresRepository) Create(context context.Context, e *Episode) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CoreEpisode.Table,
		schema.CoreEpisode.ID, schema.CoreEpisode.CreatorID, schema.CoreEpisode.ExternalID,
		schema.CoreEpisode.Title, schema.CoreEpisode.Description, schema.CoreEpisode.PublishedAt,
		schema.CoreEpisode.MediaURL, schema.CoreEpisode.ThumbnailURL, schema.CoreEpisode.Tags,
		schema.CoreEpisode.CreatedAt, schema.CoreEpisode.UpdatedAt,
		schema.CoreEpisode.CreatedAt, schema.CoreEpisode.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		e.ID, e.CreatorID, e.ExternalID, e.Title, e.Description, e.PublishedAt,
		e.MediaURL, e.ThumbnailURL, e.Tags,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return dberr.Wrap(err, "create_episode")
}

// Delete removes the episode row. The join tables cascade, so links vanish
// together with their endpoint.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreEpisode.Table, schema.CoreEpisode.ID,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_episode")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Exists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CoreEpisode.Table, schema.CoreEpisode.ID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "episode_exists")
	}
	return exists, nil
}
