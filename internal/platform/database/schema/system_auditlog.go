package schema

// SystemAuditLogTable represents the 'system.auditlog' table
type SystemAuditLogTable struct {
	Table      string
	ID         string
	EntityType string
	EntityID   string
	Field      string
	Before     string
	After      string
	Note       string
	CreatedAt  string
}

var SystemAuditLog = SystemAuditLogTable{
	Table:      "system.auditlog",
	ID:         "id",
	EntityType: "entitytype",
	EntityID:   "entityid",
	Field:      "field",
	Before:     "before",
	After:      "after",
	Note:       "note",
	CreatedAt:  "createdat",
}
