package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/user-api/internal/common/db"
	"github.com/AlibekovAA/user-api/internal/user/domain"
)

const table = "users"

const selectUsers = `SELECT id, name, date_of_birth FROM users`

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	ListAll(ctx context.Context) ([]domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id domain.ID) error
}

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgRepository struct {
	db DBTX
}

func NewPgRepository(db DBTX) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, "list users", selectUsers)
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return r.query(ctx, "list users page", selectUsers+` LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO users (id, name, date_of_birth) VALUES ($1, $2, $3)`,
		user.ID.String(),
		user.Name,
		user.DateOfBirth.String(),
	)
	return db.HandleExecError(err, "create user", table, start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(ctx, selectUsers+` WHERE id = $1`, id.String())

	var rawID, name, rawDate string
	err := row.Scan(&rawID, &name, &rawDate)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by id", table, start); err != nil {
		return domain.User{}, err
	}

	user, err := toUser(rawID, name, rawDate)
	if err != nil {
		return domain.User{}, db.RecordScanError(err, "find user by id", table)
	}
	return user, nil
}

func (r *PgRepository) Update(ctx context.Context, user domain.User) error {
	start := time.Now()
	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET name = $1, date_of_birth = $2 WHERE id = $3`,
		user.Name,
		user.DateOfBirth.String(),
		user.ID.String(),
	)
	if err := db.HandleExecError(err, "update user", table, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err := db.HandleExecError(err, "delete user", table, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) query(ctx context.Context, operation, sql string, args ...interface{}) ([]domain.User, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.HandleExecError(err, operation, table, start)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var rawID, name, rawDate string
		if err := rows.Scan(&rawID, &name, &rawDate); err != nil {
			return nil, db.RecordScanError(err, operation, table)
		}
		user, err := toUser(rawID, name, rawDate)
		if err != nil {
			return nil, db.RecordScanError(err, operation, table)
		}
		users = append(users, user)
	}

	if err := db.HandleExecError(rows.Err(), operation, table, start); err != nil {
		return nil, err
	}

	return users, nil
}

func toUser(rawID, name, rawDate string) (domain.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %q has a malformed id: %w", rawID, err)
	}
	dob, err := domain.ParseDate(rawDate)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %s has a malformed date of birth: %w", rawID, err)
	}
	return domain.User{ID: id, Name: name, DateOfBirth: dob}, nil
}
