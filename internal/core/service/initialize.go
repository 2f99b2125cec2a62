package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
	"github.com/go-playground/validator"
)

type InitializeCommand struct {
	UserID        string `validate:"required"`
	CourseID      string `validate:"required"`
	Currency      string `validate:"required,len=3,alpha"`
	CustomerEmail string `validate:"omitempty,email"`
	ProviderHint  *domain.ProviderName
}

type InitializationService struct {
	repo     ports.TransactionRepository
	catalog  ports.CourseCatalog
	selector *ProviderSelector
	validate *validator.Validate
	logger   *slog.Logger
}

func NewInitializationService(
	repo ports.TransactionRepository,
	catalog ports.CourseCatalog,
	selector *ProviderSelector,
	logger *slog.Logger,
) *InitializationService {
	return &InitializationService{
		repo:     repo,
		catalog:  catalog,
		selector: selector,
		validate: validator.New(),
		logger:   logger,
	}
}

// Initialize opens a payment attempt for a course, or returns the user's
// active attempt if one exists. The returned transaction carries the client
// secret or authorization URL the client completes payment with.
func (s *InitializationService) Initialize(ctx context.Context, cmd InitializeCommand) (*domain.Transaction, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	currency := strings.ToUpper(cmd.Currency)

	enrolled, err := s.repo.IsEnrolled(ctx, cmd.UserID, cmd.CourseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, domain.NewAlreadyEnrolledError(cmd.CourseID)
	}

	active, err := s.repo.FindActive(ctx, cmd.UserID, cmd.CourseID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		if active.ProviderRef != nil {
			return active, nil
		}
		return s.createIntent(ctx, active)
	}

	price, err := s.catalog.FindPrice(ctx, cmd.CourseID, currency)
	if err != nil {
		return nil, err
	}
	if !price.Purchasable {
		return nil, domain.NewCourseNotPurchasableError(cmd.CourseID, currency)
	}

	provider, err := s.selector.Select(currency, cmd.ProviderHint)
	if err != nil {
		return nil, err
	}

	tx := domain.NewTransaction(cmd.UserID, cmd.CourseID, price.AmountMinor, currency, provider, cmd.CustomerEmail)
	if err := s.repo.Create(ctx, tx); err != nil {
		if !domain.IsErrorCode(err, domain.ErrCodeActiveTransactionExists) {
			return nil, err
		}
		// A concurrent initialize created the attempt first; continue with theirs.
		winner, findErr := s.repo.FindActive(ctx, cmd.UserID, cmd.CourseID)
		if findErr != nil {
			return nil, findErr
		}
		if winner == nil {
			return nil, err
		}
		if winner.ProviderRef != nil {
			return winner, nil
		}
		tx = winner
	}

	return s.createIntent(ctx, tx)
}

func (s *InitializationService) createIntent(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	adapter, ok := s.selector.Adapter(tx.Provider)
	if !ok {
		return nil, domain.NewProviderUnavailableError(tx.Provider, errors.New("provider not registered"))
	}

	intent, err := adapter.CreateIntent(ctx, domain.IntentRequest{
		TransactionID:  tx.ID.String(),
		AmountMinor:    tx.AmountMinor,
		Currency:       tx.Currency,
		CustomerEmail:  tx.CustomerEmail,
		CourseID:       tx.CourseID,
		UserID:         tx.UserID,
		IdempotencyKey: tx.ID.String(),
	})
	if err != nil {
		// Another request may have attached the intent while ours was in flight.
		if current, findErr := s.repo.FindByID(ctx, tx.ID); findErr == nil && current.ProviderRef != nil {
			return current, nil
		}
		s.logger.Warn("create intent failed",
			"transaction_id", tx.ID,
			"provider", tx.Provider,
			"error", err)
		return nil, domain.ProviderFailure(tx.Provider, err)
	}

	var result *domain.Transaction
	err = s.repo.WithTx(ctx, func(txRepo ports.TransactionRepository) error {
		locked, err := txRepo.FindByIDForUpdate(ctx, tx.ID)
		if err != nil {
			return err
		}
		attached := locked.ProviderRef != nil
		if err := locked.AttachIntent(intent); err != nil {
			return err
		}
		if !attached {
			if err := txRepo.AttachIntent(ctx, locked); err != nil {
				return err
			}
		}
		result = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment initialized",
		"transaction_id", result.ID,
		"provider", result.Provider,
		"currency", result.Currency)
	return result, nil
}
