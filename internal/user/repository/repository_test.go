package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/user-api/internal/user/domain"
)

type fakeRows struct {
	pgx.Rows
	data   [][]string
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	return scanStrings(r.data[r.pos-1], dest)
}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Close() { r.closed = true }

type fakeRow struct {
	data []string
	err  error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	return scanStrings(r.data, dest)
}

func scanStrings(values []string, dest []interface{}) error {
	if len(values) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, v := range values {
		p, ok := dest[i].(*string)
		if !ok {
			return errors.New("unsupported scan target")
		}
		*p = v
	}
	return nil
}

type execCall struct {
	sql  string
	args []interface{}
}

type fakeDB struct {
	rows     *fakeRows
	queryErr error
	row      fakeRow
	tag      pgconn.CommandTag
	execErr  error

	queries []execCall
	execs   []execCall
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return f.tag, f.execErr
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.queries = append(f.queries, execCall{sql: sql, args: args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.queries = append(f.queries, execCall{sql: sql, args: args})
	return f.row
}

var (
	adaID   = uuid.MustParse("5d4d4c1e-5a7e-4d8c-9d2f-3f0b7e1a2c11")
	alanID  = uuid.MustParse("8b0f2d6a-1c3e-4f5a-8b7d-9e0a1b2c3d44")
	graceID = uuid.MustParse("c2a1e3f4-5b6d-4e7f-8a9b-0c1d2e3f4a55")
)

func TestPgRepository_ListAll(t *testing.T) {
	rows := &fakeRows{data: [][]string{
		{adaID.String(), "Ada Lovelace", "1815-12-10"},
		{alanID.String(), "Alan Turing", "1912-06-23"},
	}}
	fdb := &fakeDB{rows: rows}
	repo := NewPgRepository(fdb)

	users, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != adaID || users[0].Name != "Ada Lovelace" || users[0].DateOfBirth != domain.NewDate(1815, time.December, 10) {
		t.Errorf("unexpected first user %+v", users[0])
	}
	if users[1].ID != alanID {
		t.Errorf("store order not preserved: %+v", users[1])
	}
	if !rows.closed {
		t.Error("rows must be closed")
	}
}

func TestPgRepository_ListAll_Empty(t *testing.T) {
	repo := NewPgRepository(&fakeDB{rows: &fakeRows{}})

	users, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", users)
	}
}

func TestPgRepository_ListAll_CorruptDateAbortsScan(t *testing.T) {
	rows := &fakeRows{data: [][]string{
		{adaID.String(), "Ada Lovelace", "1815-12-10"},
		{alanID.String(), "Alan Turing", "23/06/1912"},
		{graceID.String(), "Grace Hopper", "1906-12-09"},
	}}
	repo := NewPgRepository(&fakeDB{rows: rows})

	users, err := repo.ListAll(context.Background())
	if err == nil {
		t.Fatal("expected error for corrupt date")
	}
	if users != nil {
		t.Errorf("expected no partial result, got %d users", len(users))
	}
	if !rows.closed {
		t.Error("rows must be closed on error path")
	}
}

func TestPgRepository_ListAll_QueryError(t *testing.T) {
	cause := errors.New("connection refused")
	repo := NewPgRepository(&fakeDB{queryErr: cause})

	_, err := repo.ListAll(context.Background())
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestPgRepository_ListAll_RowsError(t *testing.T) {
	cause := errors.New("connection reset")
	rows := &fakeRows{err: cause}
	repo := NewPgRepository(&fakeDB{rows: rows})

	_, err := repo.ListAll(context.Background())
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if !rows.closed {
		t.Error("rows must be closed")
	}
}

func TestPgRepository_List_BindsLimitAndOffset(t *testing.T) {
	fdb := &fakeDB{rows: &fakeRows{data: [][]string{
		{alanID.String(), "Alan Turing", "1912-06-23"},
	}}}
	repo := NewPgRepository(fdb)

	users, err := repo.List(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	q := fdb.queries[0]
	if !strings.Contains(q.sql, "LIMIT $1 OFFSET $2") {
		t.Errorf("expected parameterized pagination, got %q", q.sql)
	}
	if len(q.args) != 2 || q.args[0] != 2 || q.args[1] != 1 {
		t.Errorf("unexpected args %v", q.args)
	}
}

func TestPgRepository_Create(t *testing.T) {
	fdb := &fakeDB{tag: pgconn.CommandTag("INSERT 0 1")}
	repo := NewPgRepository(fdb)

	user := domain.User{ID: adaID, Name: "Ada Lovelace", DateOfBirth: domain.NewDate(1815, time.December, 10)}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := fdb.execs[0]
	if !strings.HasPrefix(call.sql, "INSERT INTO users") {
		t.Errorf("unexpected sql %q", call.sql)
	}
	want := []interface{}{adaID.String(), "Ada Lovelace", "1815-12-10"}
	for i, v := range want {
		if call.args[i] != v {
			t.Errorf("arg %d: expected %v, got %v", i, v, call.args[i])
		}
	}
}

func TestPgRepository_Create_NameIsBoundNotInterpolated(t *testing.T) {
	fdb := &fakeDB{tag: pgconn.CommandTag("INSERT 0 1")}
	repo := NewPgRepository(fdb)

	name := "Robert'); DROP TABLE users;--"
	user := domain.User{ID: adaID, Name: name, DateOfBirth: domain.NewDate(2000, time.January, 1)}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(fdb.execs[0].sql, "DROP") {
		t.Error("name leaked into sql text")
	}
	if fdb.execs[0].args[1] != name {
		t.Errorf("expected name bound as parameter, got %v", fdb.execs[0].args[1])
	}
}

func TestPgRepository_Create_Error(t *testing.T) {
	cause := &pgconn.PgError{Code: "08006"}
	repo := NewPgRepository(&fakeDB{execErr: cause})

	err := repo.Create(context.Background(), domain.User{ID: adaID, Name: "Ada", DateOfBirth: domain.NewDate(1815, time.December, 10)})
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Errorf("expected wrapped PgError, got %v", err)
	}
}

func TestPgRepository_FindByID(t *testing.T) {
	fdb := &fakeDB{row: fakeRow{data: []string{adaID.String(), "Ada Lovelace", "1815-12-10"}}}
	repo := NewPgRepository(fdb)

	user, err := repo.FindByID(context.Background(), adaID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != adaID || user.Name != "Ada Lovelace" {
		t.Errorf("unexpected user %+v", user)
	}
	if fdb.queries[0].args[0] != adaID.String() {
		t.Errorf("expected id bound as parameter, got %v", fdb.queries[0].args)
	}
}

func TestPgRepository_FindByID_NotFound(t *testing.T) {
	repo := NewPgRepository(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := repo.FindByID(context.Background(), adaID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPgRepository_FindByID_CorruptDate(t *testing.T) {
	repo := NewPgRepository(&fakeDB{row: fakeRow{data: []string{adaID.String(), "Ada", "not-a-date"}}})

	_, err := repo.FindByID(context.Background(), adaID)
	if err == nil || errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestPgRepository_Update(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr error
	}{
		{name: "updated", tag: "UPDATE 1"},
		{name: "missing", tag: "UPDATE 0", wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fdb := &fakeDB{tag: pgconn.CommandTag(tt.tag)}
			repo := NewPgRepository(fdb)

			user := domain.User{ID: adaID, Name: "Ada King", DateOfBirth: domain.NewDate(1815, time.December, 10)}
			err := repo.Update(context.Background(), user)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			args := fdb.execs[0].args
			if args[0] != "Ada King" || args[1] != "1815-12-10" || args[2] != adaID.String() {
				t.Errorf("unexpected args %v", args)
			}
		})
	}
}

func TestPgRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		execErr error
		wantErr error
	}{
		{name: "deleted", tag: "DELETE 1"},
		{name: "missing", tag: "DELETE 0", wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewPgRepository(&fakeDB{tag: pgconn.CommandTag(tt.tag), execErr: tt.execErr})

			err := repo.Delete(context.Background(), adaID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPgRepository_Delete_ExecError(t *testing.T) {
	cause := errors.New("broken pipe")
	repo := NewPgRepository(&fakeDB{execErr: cause})

	err := repo.Delete(context.Background(), adaID)
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Error("exec failure must not look like a missing user")
	}
}
