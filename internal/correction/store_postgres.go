package correction

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quangdng/spotline/internal/platform/database/schema"
	"github.com/quangdng/spotline/internal/platform/dberr"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append writes all changes of one correction in a single transaction, so a
// multi-field correction can never leave a partial audit trail.
func (store *PostgresStore) Append(context context.Context, changes []Change) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING %s
	`,
		schema.SystemAuditLog.Table,
		schema.SystemAuditLog.ID, schema.SystemAuditLog.EntityType, schema.SystemAuditLog.EntityID,
		schema.SystemAuditLog.Field, schema.SystemAuditLog.Before, schema.SystemAuditLog.After,
		schema.SystemAuditLog.Note, schema.SystemAuditLog.CreatedAt,
		schema.SystemAuditLog.CreatedAt,
	)

	err := pgx.BeginFunc(context, store.db, func(tx pgx.Tx) error {
		for i := range changes {
			change := &changes[i]
			if err := tx.QueryRow(context, query,
				change.ID, change.EntityKind, change.EntityID,
				change.Field, change.Before, change.After, change.Note,
			).Scan(&change.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	return dberr.Wrap(err, "append_audit")
}

func (store *PostgresStore) History(context context.Context, kind EntityKind, entityID string) ([]Change, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s DESC
	`,
		schema.SystemAuditLog.ID, schema.SystemAuditLog.EntityType, schema.SystemAuditLog.EntityID,
		schema.SystemAuditLog.Field, schema.SystemAuditLog.Before, schema.SystemAuditLog.After,
		schema.SystemAuditLog.Note, schema.SystemAuditLog.CreatedAt,
		schema.SystemAuditLog.Table,
		schema.SystemAuditLog.EntityType, schema.SystemAuditLog.EntityID,
		schema.SystemAuditLog.ID,
	)

	rows, err := store.db.Query(context, query, kind, entityID)
	if err != nil {
		return nil, dberr.Wrap(err, "audit_history")
	}
	defer rows.Close()

	var changes []Change
	for rows.Next() {
		var change Change
		if err := rows.Scan(
			&change.ID, &change.EntityKind, &change.EntityID, &change.Field,
			&change.Before, &change.After, &change.Note, &change.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_audit")
		}
		changes = append(changes, change)
	}

	return changes, nil
}

func (store *PostgresStore) Get(context context.Context, auditID string) (*Change, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.SystemAuditLog.ID, schema.SystemAuditLog.EntityType, schema.SystemAuditLog.EntityID,
		schema.SystemAuditLog.Field, schema.SystemAuditLog.Before, schema.SystemAuditLog.After,
		schema.SystemAuditLog.Note, schema.SystemAuditLog.CreatedAt,
		schema.SystemAuditLog.Table, schema.SystemAuditLog.ID,
	)

	change := &Change{}
	err := store.db.QueryRow(context, query, auditID).Scan(
		&change.ID, &change.EntityKind, &change.EntityID, &change.Field,
		&change.Before, &change.After, &change.Note, &change.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_audit")
	}
	return change, nil
}
