package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

const (
	auditColumns = `id, actor_id, action, staff_id, target_user_id, from_role, to_role, organization_id, request_id, timestamp`

	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert inserts a new audit log entry
func (r *AuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO rol_audit_log (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		log.ID,
		log.ActorID,
		string(log.Action),
		log.StaffID,
		log.TargetUserID,
		roleArg(log.FromRole),
		roleArg(log.ToRole),
		log.OrganizationID,
		log.RequestID,
		log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// List retrieves audit entries matching filter, newest first
func (r *AuditRepository) List(ctx context.Context, filter repositories.AuditFilter) ([]*models.AuditLog, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", len(args)))
	}
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	args = append(args, limit)

	query := `SELECT ` + auditColumns + ` FROM rol_audit_log`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY timestamp DESC LIMIT $%d`, len(args))

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	for rows.Next() {
		log := &models.AuditLog{}
		var action string
		var fromRole, toRole sql.NullString
		if err := rows.Scan(
			&log.ID,
			&log.ActorID,
			&action,
			&log.StaffID,
			&log.TargetUserID,
			&fromRole,
			&toRole,
			&log.OrganizationID,
			&log.RequestID,
			&log.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		log.Action = models.AuditAction(action)
		log.FromRole = roleFromNull(fromRole)
		log.ToRole = roleFromNull(toRole)
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}

	return logs, nil
}

func roleArg(role *permissions.StaffRole) interface{} {
	if role == nil {
		return nil
	}
	return string(*role)
}

func roleFromNull(s sql.NullString) *permissions.StaffRole {
	if !s.Valid {
		return nil
	}
	role := permissions.StaffRole(s.String)
	return &role
}
