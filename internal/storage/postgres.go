package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
)

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("storage: failed to connect to postgres: %v", err)
		return nil, err
	}
	s := &PostgresStore{pool: pool, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		logger.Errorf("storage: failed to ensure schema: %v", err)
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) ensureSchema(ctx context.Context) error {
	// One statement per Exec; the extended protocol rejects batches.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snore_logs (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			timestamp TIMESTAMPTZ NOT NULL,
			snore_detected BOOLEAN NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			audio_duration DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snore_logs_user_ts ON snore_logs (user_id, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS pump_logs (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			activated_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			error_message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pump_logs_user_ts ON pump_logs (activated_by, timestamp DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresStore) Close() {
	p.pool.Close()
}

// --- UserRepository ---

func (p *PostgresStore) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		p.logger.Errorf("storage: failed to insert user: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (p *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*internal.User, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*internal.User, error) {
	var u internal.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- SnoreLogRepository ---

func (p *PostgresStore) SaveSnoreLog(ctx context.Context, log *internal.SnoreLog) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO snore_logs (id, user_id, timestamp, snore_detected, confidence, audio_duration) VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.UserID, log.Timestamp, log.SnoreDetected, log.Confidence, log.AudioDuration)
	if err != nil {
		p.logger.Errorf("storage: failed to insert snore log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStore) ListSnoreLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]internal.SnoreLog, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, timestamp, snore_detected, confidence, audio_duration
		 FROM snore_logs WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		p.logger.Errorf("storage: failed to query snore logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []internal.SnoreLog
	for rows.Next() {
		var l internal.SnoreLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Timestamp, &l.SnoreDetected, &l.Confidence, &l.AudioDuration); err != nil {
			p.logger.Errorf("storage: failed to scan snore log: %v", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (p *PostgresStore) SnoreStats(ctx context.Context, userID uuid.UUID) (internal.SnoreStats, error) {
	var stats internal.SnoreStats
	row := p.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE snore_detected),
		        COALESCE(AVG(confidence) FILTER (WHERE snore_detected), 0)
		 FROM snore_logs WHERE user_id = $1`, userID)
	if err := row.Scan(&stats.TotalDetections, &stats.SnoringDetectedCount, &stats.AverageConfidence); err != nil {
		p.logger.Errorf("storage: failed to aggregate snore stats: %v", err)
		return internal.SnoreStats{}, err
	}
	finishStats(&stats)
	return stats, nil
}

// --- PumpLogRepository ---

func (p *PostgresStore) SavePumpLog(ctx context.Context, log *internal.PumpLog) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO pump_logs (id, timestamp, activated_by, status, error_message) VALUES ($1, $2, $3, $4, $5)`,
		log.ID, log.Timestamp, log.ActivatedBy, log.Status, log.ErrorMessage)
	if err != nil {
		p.logger.Errorf("storage: failed to insert pump log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStore) ListPumpLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]internal.PumpLog, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, timestamp, activated_by, status, error_message
		 FROM pump_logs WHERE activated_by = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		p.logger.Errorf("storage: failed to query pump logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []internal.PumpLog
	for rows.Next() {
		var l internal.PumpLog
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.ActivatedBy, &l.Status, &l.ErrorMessage); err != nil {
			p.logger.Errorf("storage: failed to scan pump log: %v", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- Compile-time assertions ---
var _ UserRepository = (*PostgresStore)(nil)
var _ SnoreLogRepository = (*PostgresStore)(nil)
var _ PumpLogRepository = (*PostgresStore)(nil)
