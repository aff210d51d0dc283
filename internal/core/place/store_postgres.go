package place

import (
	"context"
	"fmt"
	"strings"

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

func placeColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.CorePlace.ID, schema.CorePlace.CreatorID, schema.CorePlace.Name,
		schema.CorePlace.Address, schema.CorePlace.Description, schema.CorePlace.AffiliateInfo,
		schema.CorePlace.Tags, schema.CorePlace.CreatedAt, schema.CorePlace.UpdatedAt,
	)
}

func scanPlace(row interface{ Scan(...any) error }, p *Place, extra ...any) error {
	dest := []any{
		&p.ID, &p.CreatorID, &p.Name, &p.Address, &p.Description,
		&p.Affiliate, &p.Tags, &p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Place, int, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL
	`,
		placeColumns(), schema.CorePlace.Table, schema.CorePlace.DeletedAt,
	)

	args := []any{}
	argID := 1

	if f.CreatorID != "" {
		query += fmt.Sprintf(" AND %s = $%d", schema.CorePlace.CreatorID, argID)
		args = append(args, f.CreatorID)
		argID++
	}
	if f.Query != "" {
		query += fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.CorePlace.Name, argID, schema.CorePlace.Address, argID)
		args = append(args, "%"+f.Query+"%")
		argID++
	}
	if f.LinkStatus != "" {
		query += fmt.Sprintf(" AND %s->'linkswitch'->>'status' = $%d", schema.CorePlace.AffiliateInfo, argID)
		args = append(args, f.LinkStatus)
		argID++
	}

	query += fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", schema.CorePlace.Name, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_places")
	}
	defer rows.Close()

	var places []*Place
	var total int
	for rows.Next() {
		p := &Place{}
		if err := scanPlace(rows, p, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_place")
		}
		places = append(places, p)
	}

	return places, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Place, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		placeColumns(), schema.CorePlace.Table, schema.CorePlace.ID, schema.CorePlace.DeletedAt,
	)
	p := &Place{}

	err := scanPlace(repository.db.QueryRow(context, query, id), p)
	return p, dberr.Wrap(err, "get_place")
}

// FindByName matches live rows on the natural key. IS NOT DISTINCT FROM
// lets the nil creator bucket dedupe against itself.
func (repository *PostgresRepository) FindByName(context context.Context, creatorID *string, name string) (*Place, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NOT DISTINCT FROM $1 AND LOWER(%s) = LOWER($2) AND %s IS NULL
	`,
		placeColumns(), schema.CorePlace.Table,
		schema.CorePlace.CreatorID, schema.CorePlace.Name, schema.CorePlace.DeletedAt,
	)
	p := &Place{}

	err := scanPlace(repository.db.QueryRow(context, query, creatorID, name), p)
	return p, dberr.Wrap(err, "find_place_by_name")
}

func (repository *PostgresRepository) Create(context context.Context, p *Place) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CorePlace.Table,
		schema.CorePlace.ID, schema.CorePlace.CreatorID, schema.CorePlace.Name,
		schema.CorePlace.Address, schema.CorePlace.Description, schema.CorePlace.AffiliateInfo,
		schema.CorePlace.Tags, schema.CorePlace.CreatedAt, schema.CorePlace.UpdatedAt,
		schema.CorePlace.CreatedAt, schema.CorePlace.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.CreatorID, p.Name, p.Address, p.Description, p.Affiliate, p.Tags,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, "create_place")
}

func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) (*Place, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
			%s = COALESCE($3, %s),
			%s = COALESCE($4, %s),
			%s = COALESCE($5, %s),
			%s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.CorePlace.Table,
		schema.CorePlace.Name, schema.CorePlace.Name,
		schema.CorePlace.Address, schema.CorePlace.Address,
		schema.CorePlace.Description, schema.CorePlace.Description,
		schema.CorePlace.Tags, schema.CorePlace.Tags,
		schema.CorePlace.UpdatedAt,
		schema.CorePlace.ID, schema.CorePlace.DeletedAt,
		placeColumns(),
	)
	p := &Place{}

	err := scanPlace(repository.db.QueryRow(context, query,
		id, patch.Name, patch.Address, patch.Description, patch.Tags,
	), p)
	return p, dberr.Wrap(err, "update_place")
}

func (repository *PostgresRepository) UpdateAffiliate(context context.Context, id string, info AffiliateInfo) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CorePlace.Table,
		schema.CorePlace.AffiliateInfo, schema.CorePlace.UpdatedAt,
		schema.CorePlace.ID, schema.CorePlace.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, info)
	if err != nil {
		return dberr.Wrap(err, "update_place_affiliate")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = NOW(), %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CorePlace.Table,
		schema.CorePlace.DeletedAt, schema.CorePlace.UpdatedAt,
		schema.CorePlace.ID, schema.CorePlace.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_place")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Exists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL)`,
		schema.CorePlace.Table, schema.CorePlace.ID, schema.CorePlace.DeletedAt,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "place_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) ListByEpisode(context context.Context, episodeID string) ([]*Place, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s ep ON ep.%s = p.%s
		WHERE ep.%s = $1 AND p.%s IS NULL
		ORDER BY p.%s
	`,
		prefixedPlaceColumns("p"),
		schema.CorePlace.Table, schema.CoreEpisodePlace.Table,
		schema.CoreEpisodePlace.PlaceID, schema.CorePlace.ID,
		schema.CoreEpisodePlace.EpisodeID, schema.CorePlace.DeletedAt,
		schema.CorePlace.Name,
	)

	return repository.queryPlaces(context, query, "list_places_by_episode", episodeID)
}

func (repository *PostgresRepository) ListActiveByCreator(context context.Context, creatorID string) ([]*Place, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
			AND %s->'linkswitch'->>'status' = $2
			AND %s IS NULL
		ORDER BY %s
	`,
		placeColumns(), schema.CorePlace.Table,
		schema.CorePlace.CreatorID, schema.CorePlace.AffiliateInfo,
		schema.CorePlace.DeletedAt, schema.CorePlace.Name,
	)

	return repository.queryPlaces(context, query, "list_active_places", creatorID, string(LinkActive))
}

func prefixedPlaceColumns(alias string) string {
	columns := []string{
		schema.CorePlace.ID, schema.CorePlace.CreatorID, schema.CorePlace.Name,
		schema.CorePlace.Address, schema.CorePlace.Description, schema.CorePlace.AffiliateInfo,
		schema.CorePlace.Tags, schema.CorePlace.CreatedAt, schema.CorePlace.UpdatedAt,
	}
	for i, column := range columns {
		columns[i] = alias + "." + column
	}
	return strings.Join(columns, ", ")
}

func (repository *PostgresRepository) queryPlaces(context context.Context, query, action string, args ...any) ([]*Place, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var places []*Place
	for rows.Next() {
		p := &Place{}
		if err := scanPlace(rows, p); err != nil {
			return nil, dberr.Wrap(err, "scan_place")
		}
		places = append(places, p)
	}

	return places, nil
}
