package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/user-api/internal/common/clock"
	"github.com/AlibekovAA/user-api/internal/common/constants"
	"github.com/AlibekovAA/user-api/internal/common/db"
	commonerrors "github.com/AlibekovAA/user-api/internal/common/errors"
	"github.com/AlibekovAA/user-api/internal/common/idgen"
	"github.com/AlibekovAA/user-api/internal/common/logger"
	"github.com/AlibekovAA/user-api/internal/common/resilience"
	"github.com/AlibekovAA/user-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-api/internal/user/repository"
)

type UserServiceDeps struct {
	Repo        userrepo.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
	Log         *logger.Logger
}

type UserServiceConfig struct {
	MaxListLimit            int
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
	Retry                   db.RetryConfig
}

type UserService struct {
	repo         userrepo.Repository
	idGenerator  idgen.Generator
	breaker      *resilience.CircuitBreaker
	validator    inputValidator
	retry        db.RetryConfig
	maxListLimit int
	log          *logger.Logger
}

func NewUserService(deps UserServiceDeps, config UserServiceConfig) *UserService {
	maxListLimit := config.MaxListLimit
	if maxListLimit <= 0 {
		maxListLimit = constants.MaxListLimit
	}

	return &UserService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  config.CircuitBreakerThreshold,
			Timeout:    config.CircuitBreakerTimeout,
			ResetAfter: config.CircuitBreakerReset,
			Name:       "users_store",
			Ignore: func(err error) bool {
				return errors.Is(err, userrepo.ErrUserNotFound)
			},
			Clock:  deps.Clock,
			Logger: deps.Log,
		}),
		validator:    newInputValidator(),
		retry:        config.Retry,
		maxListLimit: maxListLimit,
		log:          deps.Log,
	}
}

type ListInput struct {
	Limit  int `validate:"gte=1"`
	Offset int `validate:"gte=0"`
}

type CreateInput struct {
	Name        string `validate:"notblank"`
	DateOfBirth domain.Date
}

type UpdateInput struct {
	Name        string `validate:"notblank"`
	DateOfBirth domain.Date
}

func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.read(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.repo.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, s.mapError(ctx, "list_all", err)
	}

	recordOperation("list_all", resultSuccess)
	return users, nil
}

func (s *UserService) List(ctx context.Context, input ListInput) ([]domain.User, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, s.rejectInput(ctx, "list", err)
	}

	limit := input.Limit
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}

	var users []domain.User
	err := s.read(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.repo.List(ctx, limit, input.Offset)
		return err
	})
	if err != nil {
		return nil, s.mapError(ctx, "list", err)
	}

	recordOperation("list", resultSuccess)
	return users, nil
}

func (s *UserService) Create(ctx context.Context, input CreateInput) (domain.User, error) {
	if err := s.validateRecord(input, input.DateOfBirth); err != nil {
		return domain.User{}, s.rejectInput(ctx, "create", err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "create_user_id_generation_failed",
		}).Errorf("create user failed: id generation error: %v", err)
		recordOperation("create", resultError)
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := domain.User{
		ID:          id,
		Name:        input.Name,
		DateOfBirth: input.DateOfBirth,
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, user)
	})
	if err != nil {
		return domain.User{}, s.mapError(ctx, "create", err)
	}

	incrementUsersCreated()
	recordOperation("create", resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID.String(),
		"action":  "user_created",
	}).Info("user created")

	return user, nil
}

func (s *UserService) Get(ctx context.Context, id domain.ID) (domain.User, error) {
	var user domain.User
	err := s.read(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.User{}, s.mapError(ctx, "get", err)
	}

	recordOperation("get", resultSuccess)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id domain.ID, input UpdateInput) (domain.User, error) {
	if err := s.validateRecord(input, input.DateOfBirth); err != nil {
		return domain.User{}, s.rejectInput(ctx, "update", err)
	}

	user := domain.User{
		ID:          id,
		Name:        input.Name,
		DateOfBirth: input.DateOfBirth,
	}

	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, user)
	})
	if err != nil {
		return domain.User{}, s.mapError(ctx, "update", err)
	}

	recordOperation("update", resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"user_id": id.String(),
		"action":  "user_updated",
	}).Info("user updated")

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id domain.ID) error {
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return s.mapError(ctx, "delete", err)
	}

	incrementUsersDeleted()
	recordOperation("delete", resultSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"user_id": id.String(),
		"action":  "user_deleted",
	}).Info("user deleted")

	return nil
}

// read runs an idempotent store call behind the breaker and retries transient failures.
func (s *UserService) read(ctx context.Context, fn func(context.Context) error) error {
	return s.breaker.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, s.log, s.retry, func() error {
			return fn(ctx)
		})
	})
}

func (s *UserService) validateRecord(input any, dateOfBirth domain.Date) error {
	if err := s.validator.Struct(input); err != nil {
		return err
	}
	if dateOfBirth.IsZero() {
		return ErrDateOfBirthRequired
	}
	return nil
}

func (s *UserService) rejectInput(ctx context.Context, operation string, err error) error {
	s.log.WithFields(ctx, logger.Fields{
		"operation": operation,
		"action":    "user_validation_failed",
	}).Warnf("%s rejected: %v", operation, err)
	recordOperation(operation, resultInvalid)
	return err
}

func (s *UserService) mapError(ctx context.Context, operation string, err error) error {
	switch {
	case errors.Is(err, userrepo.ErrUserNotFound):
		recordOperation(operation, resultNotFound)
		return ErrUserNotFound
	case errors.Is(err, context.Canceled) && errors.Is(ctx.Err(), context.Canceled):
		recordOperation(operation, resultCanceled)
		s.log.WithFields(ctx, logger.Fields{
			"operation": operation,
			"action":    "user_request_canceled",
		}).Debugf("%s canceled by caller: %v", operation, err)
		return ErrRequestCanceled.WithCause(err)
	case errors.Is(err, commonerrors.ErrCircuitOpen):
		recordOperation(operation, resultUnavailable)
		return ErrServiceUnavailable.WithCause(err)
	default:
		recordOperation(operation, resultError)
		s.log.WithFields(ctx, logger.Fields{
			"operation": operation,
			"action":    "user_store_failed",
		}).Errorf("%s failed: %v", operation, err)
		return commonerrors.ErrStorageFailure.WithCause(err)
	}
}
