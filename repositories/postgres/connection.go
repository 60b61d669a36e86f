package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/upb/rol-control-plane/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return NewDBFromConn(db, logger), nil
}

// NewDBFromConn wraps an already opened connection pool
func NewDBFromConn(db *sql.DB, logger *zap.Logger) *DB {
	return &DB{
		DB:     db,
		logger: logger,
	}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// InitSchema creates the tables and access functions for a local database.
// The hosted database already carries them.
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}

const schema = `
	DO $$ BEGIN
		CREATE TYPE staff_role AS ENUM ('owner', 'platform_admin', 'customer_service',
			'tournament_director', 'tournament_coordinator', 'league_director', 'league_coordinator');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$;

	DO $$ BEGIN
		CREATE TYPE tournament_status AS ENUM ('draft', 'registration', 'in_progress', 'completed', 'cancelled');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$;

	CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		username VARCHAR(255) NOT NULL UNIQUE,
		full_name TEXT,
		avatar_url TEXT,
		summoner_name TEXT,
		region VARCHAR(8),
		puuid TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS organizations (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		website TEXT,
		contact_email TEXT,
		logo_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS staff_members (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE,
		role staff_role NOT NULL,
		organization_id UUID REFERENCES organizations(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS rol_audit_log (
		id UUID PRIMARY KEY,
		actor_id UUID NOT NULL,
		action VARCHAR(64) NOT NULL,
		staff_id UUID NOT NULL,
		target_user_id UUID NOT NULL,
		from_role staff_role,
		to_role staff_role,
		organization_id UUID,
		request_id VARCHAR(128) NOT NULL DEFAULT '',
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_rol_audit_log_staff ON rol_audit_log (staff_id, timestamp DESC);

	CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		tag VARCHAR(10) NOT NULL,
		logo_url TEXT,
		captain_id UUID NOT NULL,
		organization_id UUID REFERENCES organizations(id) ON DELETE SET NULL,
		region VARCHAR(8) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS tournaments (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		max_teams INTEGER NOT NULL,
		current_teams INTEGER NOT NULL DEFAULT 0,
		organizer_id UUID NOT NULL,
		region VARCHAR(8) NOT NULL,
		status tournament_status NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS tournament_teams (
		tournament_id UUID NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		registration_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (tournament_id, team_id)
	);

	CREATE TABLE IF NOT EXISTS leagues (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		max_teams INTEGER NOT NULL,
		current_teams INTEGER NOT NULL DEFAULT 0,
		organizer_id UUID NOT NULL,
		region VARCHAR(8) NOT NULL,
		status tournament_status NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS league_teams (
		league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		registration_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (league_id, team_id)
	);

	CREATE TABLE IF NOT EXISTS players (
		id UUID PRIMARY KEY,
		profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		team_id UUID REFERENCES teams(id) ON DELETE SET NULL,
		summoner_name TEXT NOT NULL,
		role VARCHAR(16) NOT NULL,
		rank VARCHAR(16),
		region VARCHAR(8) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		tournament_id UUID NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		team1_id UUID NOT NULL REFERENCES teams(id),
		team2_id UUID NOT NULL REFERENCES teams(id),
		winner_id UUID REFERENCES teams(id),
		round INTEGER NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		status tournament_status NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_staff_members_organization_id ON staff_members(organization_id);
	CREATE INDEX IF NOT EXISTS idx_teams_organization_id ON teams(organization_id);
	CREATE INDEX IF NOT EXISTS idx_tournaments_region ON tournaments(region);
	CREATE INDEX IF NOT EXISTS idx_leagues_region ON leagues(region);
	CREATE INDEX IF NOT EXISTS idx_players_team_id ON players(team_id);
	CREATE INDEX IF NOT EXISTS idx_matches_tournament_id ON matches(tournament_id);

	CREATE OR REPLACE FUNCTION is_owner(user_id UUID) RETURNS BOOLEAN AS $$
		SELECT EXISTS (SELECT 1 FROM staff_members s WHERE s.user_id = $1 AND s.role = 'owner');
	$$ LANGUAGE sql STABLE;

	CREATE OR REPLACE FUNCTION is_platform_admin(user_id UUID) RETURNS BOOLEAN AS $$
		SELECT EXISTS (SELECT 1 FROM staff_members s WHERE s.user_id = $1 AND s.role = 'platform_admin');
	$$ LANGUAGE sql STABLE;

	CREATE OR REPLACE FUNCTION is_super_admin(user_id UUID) RETURNS BOOLEAN AS $$
		SELECT EXISTS (SELECT 1 FROM staff_members s WHERE s.user_id = $1 AND s.role IN ('owner', 'platform_admin'));
	$$ LANGUAGE sql STABLE;

	CREATE OR REPLACE FUNCTION can_manage_team(team_id UUID, user_id UUID) RETURNS BOOLEAN AS $$
		SELECT is_super_admin($2) OR EXISTS (
			SELECT 1 FROM teams t
			LEFT JOIN staff_members s ON s.user_id = $2 AND s.organization_id = t.organization_id
			WHERE t.id = $1 AND (t.captain_id = $2 OR s.id IS NOT NULL)
		);
	$$ LANGUAGE sql STABLE;

	CREATE OR REPLACE FUNCTION is_tournament_registration_open(tournament_id UUID) RETURNS BOOLEAN AS $$
		SELECT EXISTS (
			SELECT 1 FROM tournaments t
			WHERE t.id = $1 AND t.status = 'registration' AND t.current_teams < t.max_teams
		);
	$$ LANGUAGE sql STABLE;

	CREATE OR REPLACE FUNCTION can_team_join_tournament(team_id UUID, tournament_id UUID) RETURNS BOOLEAN AS $$
		SELECT is_tournament_registration_open($2)
			AND EXISTS (
				SELECT 1 FROM teams tm JOIN tournaments t ON t.id = $2
				WHERE tm.id = $1 AND tm.region = t.region
			)
			AND NOT EXISTS (
				SELECT 1 FROM tournament_teams tt WHERE tt.team_id = $1 AND tt.tournament_id = $2
			);
	$$ LANGUAGE sql STABLE;
`
