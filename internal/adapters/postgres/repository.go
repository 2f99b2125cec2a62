package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, user_id, course_id, amount_minor, currency, provider, customer_email, status,
	provider_ref, provider_transaction_id, client_secret, authorization_url, provider_refund_id, refund_reason,
	created_at, updated_at, paid_at, refunded_at`

const activeAttemptConstraint = "transactions_active_attempt_key"

type TransactionRepository struct {
	pool *pgxpool.Pool
	q    Executor
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{
		pool: db.Pool,
		q:    db.Pool,
	}
}

// Create saves a new transaction
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.q.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.CourseID,
		t.AmountMinor,
		t.Currency,
		t.Provider,
		t.CustomerEmail,
		t.Status,
		t.ProviderRef,
		t.ProviderTransactionID,
		t.ClientSecret,
		t.AuthorizationURL,
		t.ProviderRefundID,
		t.RefundReason,
		t.CreatedAt,
		t.UpdatedAt,
		t.PaidAt,
		t.RefundedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) && constraintName(err) == activeAttemptConstraint {
			return domain.NewActiveTransactionExistsError(t.UserID, t.CourseID)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.q.QueryRow(ctx, query, id), id.String())
}

// FindByIDForUpdate retrieves a transaction and locks its row until the surrounding transaction ends
func (r *TransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return scanTransaction(r.q.QueryRow(ctx, query, id), id.String())
}

// FindByProviderRefForUpdate is the webhook lookup: providers only know their own reference.
func (r *TransactionRepository) FindByProviderRefForUpdate(ctx context.Context, provider domain.ProviderName, ref string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
			WHERE provider = $1 AND provider_ref = $2
			FOR UPDATE`
	return scanTransaction(r.q.QueryRow(ctx, query, provider, ref), ref)
}

// FindActive returns the user's pending or processing transaction for a course, or nil.
func (r *TransactionRepository) FindActive(ctx context.Context, userID, courseID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
			WHERE user_id = $1 AND course_id = $2 AND status IN ('pending', 'processing')`

	t, err := scanTransaction(r.q.QueryRow(ctx, query, userID, courseID), "")
	if domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound) {
		return nil, nil
	}
	return t, err
}

func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	where := `WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR status = $2)`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions `+where, filter.UserID, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions ` + where + `
			ORDER BY created_at DESC, id
			LIMIT $3 OFFSET $4`

	rows, err := r.q.Query(ctx, query, filter.UserID, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query transactions: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Transaction, error) {
		return scanRow(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return results, total, nil
}

// FindStale returns non-terminal transactions created before now-olderThan, oldest first.
func (r *TransactionRepository) FindStale(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error) {
	cutoff := time.Now().Add(-olderThan)

	query := `SELECT ` + transactionColumns + ` FROM transactions
			WHERE status IN ('pending', 'processing') AND created_at < $1
			ORDER BY created_at ASC
			LIMIT $2`

	rows, err := r.q.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale transactions: %w", err)
	}
	stale, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Transaction, error) {
		return scanRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale transactions: %w", err)
	}
	return stale, nil
}

// AttachIntent writes provider references; a reference that is already stored is left alone.
func (r *TransactionRepository) AttachIntent(ctx context.Context, t *domain.Transaction) error {
	query := `UPDATE transactions
			SET provider_ref = $1, client_secret = $2, authorization_url = $3, updated_at = NOW()
			WHERE id = $4 AND provider_ref IS NULL`

	cmdTag, err := r.q.Exec(ctx, query, t.ProviderRef, t.ClientSecret, t.AuthorizationURL, t.ID)
	if err != nil {
		return fmt.Errorf("failed to attach provider intent: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewProviderRefImmutableError(t.ID.String())
	}
	return nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, t *domain.Transaction, expected domain.TransactionStatus) (bool, error) {
	query := `UPDATE transactions SET status = $1,
				provider_transaction_id = COALESCE(provider_transaction_id, $2),
				provider_refund_id = $3, refund_reason = $4,
				paid_at = $5, refunded_at = $6, updated_at = $7
			WHERE id = $8 AND status = $9`

	cmdTag, err := r.q.Exec(ctx, query,
		t.Status,
		t.ProviderTransactionID,
		t.ProviderRefundID,
		t.RefundReason,
		t.PaidAt,
		t.RefundedAt,
		t.UpdatedAt,
		t.ID,
		expected,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *TransactionRepository) RecordProviderEvent(ctx context.Context, evt *domain.ProviderEvent) (bool, error) {
	query := `INSERT INTO provider_events
				(provider, event_id, event_type, provider_ref, provider_status, transaction_id, outcome, received_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (provider, event_id) DO NOTHING`

	cmdTag, err := r.q.Exec(ctx, query,
		evt.Provider,
		evt.EventID,
		evt.EventType,
		evt.ProviderRef,
		evt.ProviderStatus,
		evt.TransactionID,
		evt.Outcome,
		evt.ReceivedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record provider event: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *TransactionRepository) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// CreateEnrollmentIfAbsent grants access once. The bool reports whether this call created it.
func (r *TransactionRepository) CreateEnrollmentIfAbsent(ctx context.Context, userID, courseID string, transactionID uuid.UUID) (*domain.Enrollment, bool, error) {
	query := `INSERT INTO enrollments (user_id, course_id, transaction_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, course_id) DO NOTHING`

	cmdTag, err := r.q.Exec(ctx, query, userID, courseID, transactionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create enrollment: %w", err)
	}

	var e domain.Enrollment
	err = r.q.QueryRow(ctx,
		`SELECT user_id, course_id, transaction_id, created_at FROM enrollments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&e.UserID, &e.CourseID, &e.TransactionID, &e.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read enrollment: %w", err)
	}
	return &e, cmdTag.RowsAffected() == 1, nil
}

// WithTx executes a function within a database transaction
func (r *TransactionRepository) WithTx(ctx context.Context, fn func(ports.TransactionRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback is a no-op once Commit has succeeded
	defer tx.Rollback(ctx)

	repoWithTx := &TransactionRepository{
		pool: r.pool,
		q:    tx,
	}

	if err := fn(repoWithTx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanTransaction(row pgx.Row, lookup string) (*domain.Transaction, error) {
	t, err := scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewTransactionNotFoundError(lookup)
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	return t, nil
}

func scanRow(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CourseID,
		&t.AmountMinor,
		&t.Currency,
		&t.Provider,
		&t.CustomerEmail,
		&t.Status,
		&t.ProviderRef,
		&t.ProviderTransactionID,
		&t.ClientSecret,
		&t.AuthorizationURL,
		&t.ProviderRefundID,
		&t.RefundReason,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.PaidAt,
		&t.RefundedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
