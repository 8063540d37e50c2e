package storage

import (
	"context"
	"fmt"
	"time"

	"messages-bot/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Message is a row of general_messages.
type Message struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Number  string `db:"number"`
	Message string `db:"message"`
}

// MessageStorage runs the general_messages queries. Every call borrows its
// own connection and gives it back before returning.
type MessageStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostgresStorage(ctx context.Context, cfg *config.Database, logger *zap.Logger) (*MessageStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.ConnectTimeout
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.Name))

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	// No idle pool: a released connection is closed right away.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(0)

	logger.Info("Successfully connected to PostgreSQL")
	return NewMessageStorage(db, logger), nil
}

// NewMessageStorage wraps an already opened database handle.
func NewMessageStorage(db *sqlx.DB, logger *zap.Logger) *MessageStorage {
	return &MessageStorage{
		db:     db,
		logger: logger,
	}
}

// DB exposes the underlying handle for migrations.
func (s *MessageStorage) DB() *sqlx.DB {
	return s.db
}

func (s *MessageStorage) ListPage(ctx context.Context, offset, limit int) ([]Message, error) {
	const operation = "storage.ListPage"
	const query = `
        SELECT id, name, number, message
        FROM general_messages
        ORDER BY id DESC
        LIMIT $1 OFFSET $2
    `

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: acquire connection: %w", operation, err)
	}
	defer s.release(conn)

	messages := make([]Message, 0, limit)
	if err := conn.SelectContext(ctx, &messages, query, limit, offset); err != nil {
		return nil, fmt.Errorf("%s: failed to list messages: %w", operation, err)
	}
	return messages, nil
}

func (s *MessageStorage) Count(ctx context.Context) (int, error) {
	const operation = "storage.Count"
	const query = `SELECT COUNT(*) FROM general_messages`

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: acquire connection: %w", operation, err)
	}
	defer s.release(conn)

	var total int
	if err := conn.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("%s: failed to count messages: %w", operation, err)
	}
	return total, nil
}

// Delete removes the message with the given id and reports whether a row
// was actually removed. The id column may be int4, so the parameter is cast
// to bigint to turn an out-of-range id into a plain miss.
func (s *MessageStorage) Delete(ctx context.Context, id int64) (bool, error) {
	const operation = "storage.Delete"
	const query = `DELETE FROM general_messages WHERE id = CAST($1 AS BIGINT)`

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: acquire connection: %w", operation, err)
	}
	defer s.release(conn)

	res, err := conn.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("%s: failed to delete message %d: %w", operation, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: rows affected: %w", operation, err)
	}
	return affected > 0, nil
}

// All returns every message, newest first.
func (s *MessageStorage) All(ctx context.Context) ([]Message, error) {
	const operation = "storage.All"
	const query = `SELECT id, name, number, message FROM general_messages ORDER BY id DESC`

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: acquire connection: %w", operation, err)
	}
	defer s.release(conn)

	var messages []Message
	if err := conn.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("%s: failed to fetch messages: %w", operation, err)
	}
	return messages, nil
}

func (s *MessageStorage) release(conn *sqlx.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.Warn("Failed to release connection", zap.Error(err))
	}
}

func (s *MessageStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
