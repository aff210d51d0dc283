package product

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

func productColumns() string {
	return strings.Join([]string{
		schema.CoreProduct.ID, schema.CoreProduct.CreatorID, schema.CoreProduct.Name,
		schema.CoreProduct.Brand, schema.CoreProduct.Category, schema.CoreProduct.Price,
		schema.CoreProduct.PurchaseURL, schema.CoreProduct.Tags,
		schema.CoreProduct.CreatedAt, schema.CoreProduct.UpdatedAt,
	}, ", ")
}

func scanProduct(row interface{ Scan(...any) error }, p *Product, extra ...any) error {
	dest := []any{
		&p.ID, &p.CreatorID, &p.Name, &p.Brand, &p.Category, &p.Price,
		&p.PurchaseURL, &p.Tags, &p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Product, int, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL
	`,
		productColumns(), schema.CoreProduct.Table, schema.CoreProduct.DeletedAt,
	)

	args := []any{}
	argID := 1

	if f.CreatorID != "" {
		query += fmt.Sprintf(" AND %s = $%d", schema.CoreProduct.CreatorID, argID)
		args = append(args, f.CreatorID)
		argID++
	}
	if f.Category != "" {
		query += fmt.Sprintf(" AND %s = $%d", schema.CoreProduct.Category, argID)
		args = append(args, f.Category)
		argID++
	}
	if f.Query != "" {
		query += fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.CoreProduct.Name, argID, schema.CoreProduct.Brand, argID)
		args = append(args, "%"+f.Query+"%")
		argID++
	}

	query += fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", schema.CoreProduct.Name, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_products")
	}
	defer rows.Close()

	var products []*Product
	var total int
	for rows.Next() {
		p := &Product{}
		if err := scanProduct(rows, p, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_product")
		}
		products = append(products, p)
	}

	return products, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		productColumns(), schema.CoreProduct.Table, schema.CoreProduct.ID, schema.CoreProduct.DeletedAt,
	)
	p := &Product{}

	err := scanProduct(repository.db.QueryRow(context, query, id), p)
	return p, dberr.Wrap(err, "get_product")
}

func (repository *PostgresRepository) FindByName(context context.Context, creatorID *string, name string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NOT DISTINCT FROM $1 AND LOWER(%s) = LOWER($2) AND %s IS NULL
	`,
		productColumns(), schema.CoreProduct.Table,
		schema.CoreProduct.CreatorID, schema.CoreProduct.Name, schema.CoreProduct.DeletedAt,
	)
	p := &Product{}

	err := scanProduct(repository.db.QueryRow(context, query, creatorID, name), p)
	return p, dberr.Wrap(err, "find_product_by_name")
}

func (repository *PostgresRepository) Create(context context.Context, p *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CoreProduct.Table,
		schema.CoreProduct.ID, schema.CoreProduct.CreatorID, schema.CoreProduct.Name,
		schema.CoreProduct.Brand, schema.CoreProduct.Category, schema.CoreProduct.Price,
		schema.CoreProduct.PurchaseURL, schema.CoreProduct.Tags,
		schema.CoreProduct.CreatedAt, schema.CoreProduct.UpdatedAt,
		schema.CoreProduct.CreatedAt, schema.CoreProduct.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		p.ID, p.CreatorID, p.Name, p.Brand, p.Category, p.Price, p.PurchaseURL, p.Tags,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return dberr.Wrap(err, "create_product")
}

func (repository *PostgresRepository) Update(context context.Context, id string, patch Patch) (*Product, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
			%s = COALESCE($3, %s),
			%s = COALESCE($4, %s),
			%s = COALESCE($5, %s),
			%s = COALESCE($6, %s),
			%s = COALESCE($7, %s),
			%s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.CoreProduct.Table,
		schema.CoreProduct.Name, schema.CoreProduct.Name,
		schema.CoreProduct.Brand, schema.CoreProduct.Brand,
		schema.CoreProduct.Category, schema.CoreProduct.Category,
		schema.CoreProduct.Price, schema.CoreProduct.Price,
		schema.CoreProduct.PurchaseURL, schema.CoreProduct.PurchaseURL,
		schema.CoreProduct.Tags, schema.CoreProduct.Tags,
		schema.CoreProduct.UpdatedAt,
		schema.CoreProduct.ID, schema.CoreProduct.DeletedAt,
		productColumns(),
	)
	p := &Product{}

	err := scanProduct(repository.db.QueryRow(context, query,
		id, patch.Name, patch.Brand, patch.Category, patch.Price, patch.PurchaseURL, patch.Tags,
	), p)
	return p, dberr.Wrap(err, "update_product")
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = NOW(), %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreProduct.Table,
		schema.CoreProduct.DeletedAt, schema.CoreProduct.UpdatedAt,
		schema.CoreProduct.ID, schema.CoreProduct.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_product")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Exists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL)`,
		schema.CoreProduct.Table, schema.CoreProduct.ID, schema.CoreProduct.DeletedAt,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "product_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) ListByEpisode(context context.Context, episodeID string) ([]*Product, error) {
	columns := strings.Split(productColumns(), ", ")
	for i, column := range columns {
		columns[i] = "p." + column
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		JOIN %s ep ON ep.%s = p.%s
		WHERE ep.%s = $1 AND p.%s IS NULL
		ORDER BY p.%s
	`,
		strings.Join(columns, ", "),
		schema.CoreProduct.Table, schema.CoreEpisodeProduct.Table,
		schema.CoreEpisodeProduct.ProductID, schema.CoreProduct.ID,
		schema.CoreEpisodeProduct.EpisodeID, schema.CoreProduct.DeletedAt,
		schema.CoreProduct.Name,
	)

	rows, err := repository.db.Query(context, query, episodeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_products_by_episode")
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := scanProduct(rows, p); err != nil {
			return nil, dberr.Wrap(err, "scan_product")
		}
		products = append(products, p)
	}

	return products, nil
}
