package creator

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

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Creator, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL
	`,
		schema.CoreCreator.ID, schema.CoreCreator.Name, schema.CoreCreator.Slug, schema.CoreCreator.Bio,
		schema.CoreCreator.ImageURL, schema.CoreCreator.Status, schema.CoreCreator.CreatedAt, schema.CoreCreator.UpdatedAt,
		schema.CoreCreator.Table, schema.CoreCreator.DeletedAt,
	)

	args := []any{}
	argID := 1

	if f.Query != "" {
		query += fmt.Sprintf(" AND %s ILIKE $%d", schema.CoreCreator.Name, argID)
		args = append(args, "%"+f.Query+"%")
		argID++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND %s = $%d", schema.CoreCreator.Status, argID)
		args = append(args, f.Status)
		argID++
	}

	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", schema.CoreCreator.Name, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_creators")
	}
	defer rows.Close()

	var creators []*Creator
	var total int
	for rows.Next() {
		c := &Creator{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Bio, &c.ImageURL, &c.Status, &c.CreatedAt, &c.UpdatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_creator")
		}
		creators = append(creators, c)
	}

	return creators, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Creator, error) {
	return repository.getByColumn(context, schema.CoreCreator.ID, id)
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Creator, error) {
	return repository.getByColumn(context, schema.CoreCreator.Slug, slug)
}

func (repository *PostgresRepository) getByColumn(context context.Context, column, value string) (*Creator, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreCreator.ID, schema.CoreCreator.Name, schema.CoreCreator.Slug, schema.CoreCreator.Bio,
		schema.CoreCreator.ImageURL, schema.CoreCreator.Status, schema.CoreCreator.CreatedAt, schema.CoreCreator.UpdatedAt,
		schema.CoreCreator.Table, column, schema.CoreCreator.DeletedAt,
	)
	c := &Creator{}

	err := repository.db.QueryRow(context, query, value).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Bio, &c.ImageURL, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)

	return c, dberr.Wrap(err, "get_creator")
}

func (repository *PostgresRepository) Create(context context.Context, c *Creator) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CoreCreator.Table, schema.CoreCreator.ID, schema.CoreCreator.Name, schema.CoreCreator.Slug,
		schema.CoreCreator.Bio, schema.CoreCreator.ImageURL, schema.CoreCreator.Status,
		schema.CoreCreator.CreatedAt, schema.CoreCreator.UpdatedAt,
		schema.CoreCreator.CreatedAt, schema.CoreCreator.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, c.ID, c.Name, c.Slug, c.Bio, c.ImageURL, c.Status).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "create_creator")
}

// Update applies a partial patch via COALESCE so that nil fields keep their
// stored value. The id column is never part of the SET clause: existing
// episode references survive every correction.
func (repository *PostgresRepository) Update(context context.Context, id string, p Patch) (*Creator, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
			%s = COALESCE($3, %s),
			%s = COALESCE($4, %s),
			%s = COALESCE($5, %s),
			%s = COALESCE($6, %s),
			%s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s
	`,
		schema.CoreCreator.Table,
		schema.CoreCreator.Name, schema.CoreCreator.Name,
		schema.CoreCreator.Slug, schema.CoreCreator.Slug,
		schema.CoreCreator.Bio, schema.CoreCreator.Bio,
		schema.CoreCreator.ImageURL, schema.CoreCreator.ImageURL,
		schema.CoreCreator.Status, schema.CoreCreator.Status,
		schema.CoreCreator.UpdatedAt,
		schema.CoreCreator.ID, schema.CoreCreator.DeletedAt,
		schema.CoreCreator.ID, schema.CoreCreator.Name, schema.CoreCreator.Slug, schema.CoreCreator.Bio,
		schema.CoreCreator.ImageURL, schema.CoreCreator.Status, schema.CoreCreator.CreatedAt, schema.CoreCreator.UpdatedAt,
	)

	c := &Creator{}
	err := repository.db.QueryRow(context, query, id, p.Name, p.Slug, p.Bio, p.ImageURL, p.Status).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Bio, &c.ImageURL, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "update_creator")
	}
	return c, nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CoreCreator.Table, schema.CoreCreator.DeletedAt, schema.CoreCreator.ID, schema.CoreCreator.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_creator")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Exists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL)`,
		schema.CoreCreator.Table, schema.CoreCreator.ID, schema.CoreCreator.DeletedAt,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "creator_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) HasEpisodes(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CoreEpisode.Table, schema.CoreEpisode.CreatorID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "creator_has_episodes")
	}
	return exists, nil
}
