package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

const staffColumns = `id, user_id, role, organization_id, created_at, updated_at`

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// StaffMemberRepository implements the repositories.StaffMemberRepository interface
type StaffMemberRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStaffMemberRepository creates a new staff member repository
func NewStaffMemberRepository(db *DB, logger *zap.Logger) repositories.StaffMemberRepository {
	return &StaffMemberRepository{
		db:     db,
		logger: logger,
	}
}

func scanStaffMember(row scanner) (*models.StaffMember, error) {
	member := &models.StaffMember{}
	var role string
	err := row.Scan(
		&member.ID,
		&member.UserID,
		&role,
		&member.OrganizationID,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	member.Role = permissions.StaffRole(role)
	return member, nil
}

// GetByID retrieves a staff member by ID
func (r *StaffMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		WHERE id = $1
	`

	member, err := scanStaffMember(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff member %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return member, nil
}

// GetByUserID retrieves the staff member record of an auth user
func (r *StaffMemberRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.StaffMember, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		WHERE user_id = $1
	`

	member, err := scanStaffMember(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff member for user %s: %w", userID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return member, nil
}

// List retrieves staff members matching filter, newest first
func (r *StaffMemberRepository) List(ctx context.Context, filter repositories.StaffFilter) ([]*models.StaffMember, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.OrganizationID != nil {
		args = append(args, *filter.OrganizationID)
		conditions = append(conditions, fmt.Sprintf("organization_id = $%d", len(args)))
	}
	if filter.Roles != nil {
		roles := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			roles[i] = string(role)
		}
		args = append(args, pq.Array(roles))
		conditions = append(conditions, fmt.Sprintf("role::text = ANY($%d)", len(args)))
	}

	query := `SELECT ` + staffColumns + ` FROM staff_members`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff members: %w", err)
	}
	defer rows.Close()

	members := []*models.StaffMember{}
	for rows.Next() {
		member, err := scanStaffMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff member rows: %w", err)
	}

	return members, nil
}

// Create inserts a new staff member
func (r *StaffMemberRepository) Create(ctx context.Context, member *models.StaffMember) error {
	query := `
		INSERT INTO staff_members (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		member.ID,
		member.UserID,
		string(member.Role),
		member.OrganizationID,
		member.CreatedAt,
		member.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("staff member for user %s: %w", member.UserID, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	r.logger.Debug("staff member created",
		zap.String("id", member.ID.String()),
		zap.String("role", string(member.Role)),
	)
	return nil
}

// UpdateRole changes the role of a staff member
func (r *StaffMemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role permissions.StaffRole) error {
	query := `
		UPDATE staff_members
		SET role = $2,
		    updated_at = $3
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id, string(role), time.Now())
	if err != nil {
		return fmt.Errorf("failed to update staff role: %w", err)
	}

	if err := requireAffected(result, "staff member", id); err != nil {
		return err
	}

	r.logger.Debug("staff role updated", zap.String("id", id.String()), zap.String("role", string(role)))
	return nil
}

// Delete removes a staff member
func (r *StaffMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM staff_members WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	if err := requireAffected(result, "staff member", id); err != nil {
		return err
	}

	r.logger.Debug("staff member deleted", zap.String("id", id.String()))
	return nil
}

// requireAffected turns a zero-row write into ErrNotFound
func requireAffected(result sql.Result, what string, id uuid.UUID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", what, id, repositories.ErrNotFound)
	}
	return nil
}
