package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	createQuery     = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	selectByLogin   = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	selectByEmail   = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	selectByID      = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	deleteByIDQuery = `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("42", created)
	mock.ExpectQuery(createQuery).
		WithArgs("alice", "a@x.com", "digest").
		WillReturnRows(rows)

	u := &models.User{UserName: "alice", Email: "a@x.com", PasswordHash: "digest"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "42" || got.UserName != "alice" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "username", constraint: "users_username_key", want: common.ErrDuplicateUsername},
		{name: "email", constraint: "users_email_key", want: common.ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectQuery(createQuery).
				WithArgs("alice", "a@x.com", "digest").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "a@x.com", PasswordHash: "digest"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreate_OtherPgErrorIsWrapped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(createQuery).
		WithArgs("alice", "a@x.com", "digest").
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "users_username_not_empty", Message: "check violation"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "a@x.com", PasswordHash: "digest"})
	if err == nil || errors.Is(err, common.ErrDuplicateUsername) || !regexp.MustCompile(`db error: .*check violation`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(createQuery).
		WithArgs("alice", "a@x.com", "digest").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "a@x.com", PasswordHash: "digest"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetters_Found(t *testing.T) {
	created := time.Now().UTC()

	tests := []struct {
		name  string
		query string
		arg   string
		call  func(r *PostgresRepository, arg string) (*models.User, error)
	}{
		{name: "by login", query: selectByLogin, arg: "alice", call: func(r *PostgresRepository, a string) (*models.User, error) {
			return r.GetUserByLogin(context.Background(), a)
		}},
		{name: "by email", query: selectByEmail, arg: "a@x.com", call: func(r *PostgresRepository, a string) (*models.User, error) {
			return r.GetUserByEmail(context.Background(), a)
		}},
		{name: "by id", query: selectByID, arg: "u-1", call: func(r *PostgresRepository, a string) (*models.User, error) {
			return r.GetUserByID(context.Background(), a)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			rows := sqlmock.NewRows(userColumns).AddRow("u-1", "alice", "a@x.com", "digest", created)
			mock.ExpectQuery(tt.query).WithArgs(tt.arg).WillReturnRows(rows)

			got, err := tt.call(repo, tt.arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != "u-1" || got.UserName != "alice" || got.Email != "a@x.com" || got.PasswordHash != "digest" {
				t.Fatalf("unexpected user: %+v", got)
			}
		})
	}
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByLogin).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetUserByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByEmail).
		WithArgs("a@x.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByEmail(context.Background(), "a@x.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(deleteByIDQuery).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
		if err := repo.Delete(context.Background(), "u-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(deleteByIDQuery).WithArgs("u-2").WillReturnResult(sqlmock.NewResult(0, 0))
		if err := repo.Delete(context.Background(), "u-2"); !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("want common.ErrorNotFound, got %v", err)
		}
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(deleteByIDQuery).WithArgs("u-3").WillReturnError(errors.New("db err"))
		err := repo.Delete(context.Background(), "u-3")
		if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})
}
