package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CourseCatalog reads course prices owned by the course subsystem.
type CourseCatalog struct {
	q Executor
}

func NewCourseCatalog(db *DB) *CourseCatalog {
	return &CourseCatalog{q: db.Pool}
}

func (c *CourseCatalog) FindPrice(ctx context.Context, courseID, currency string) (*domain.CoursePrice, error) {
	var p domain.CoursePrice
	err := c.q.QueryRow(ctx,
		`SELECT course_id, currency, amount_minor, purchasable FROM course_prices WHERE course_id = $1 AND currency = $2`,
		courseID, currency,
	).Scan(&p.CourseID, &p.Currency, &p.AmountMinor, &p.Purchasable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewCourseNotPurchasableError(courseID, currency)
		}
		return nil, fmt.Errorf("failed to read course price: %w", err)
	}
	return &p, nil
}
