package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/GoArmGo/UserService/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "image", "username", "password_hash", "email", "age", "gender", "place", "created_at"}

func newGormStorageWithMock(t *testing.T) (*GormUserStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := OpenGorm(db, logger.Discard())
	require.NoError(t, err)

	return NewGormUserStorage(gdb, logger.Discard()), mock
}

func TestGormCreateUser(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	u := &domain.User{Image: "k.png", Username: "alice", PasswordHash: "hash", Email: "a@b.com", Age: 30, Gender: "female", Place: "Riga"}
	require.NoError(t, s.CreateUser(context.Background(), u))

	assert.Equal(t, int64(7), u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreateUser_Error(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(errors.New("unique violation"))

	err := s.CreateUser(context.Background(), &domain.User{Username: "alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique violation")
}

func TestGormGetUserByUsername(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "k.png", "alice", "hash", "a@b.com", 30, "female", "Riga", time.Now()))

	u, err := s.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestGormGetUserByUsername_NotFound(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows(columns))

	u, err := s.GetUserByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGormListUsersByGender(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE gender = \$1 ORDER BY id`).
		WithArgs("male").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), "b.png", "bob", "h", "b@b.com", 40, "male", "Oslo", time.Now()))

	users, err := s.ListUsersByGender(context.Background(), "male")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}

func TestGormFindUsersByUsernameAndEmail_Empty(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectQuery(`WHERE username = \$1 AND email = \$2`).
		WithArgs("alice", "a@b.com").
		WillReturnRows(sqlmock.NewRows(columns))

	users, err := s.FindUsersByUsernameAndEmail(context.Background(), "alice", "a@b.com")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGormUpdateUserProfile(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := s.UpdateUserProfile(context.Background(), 1, "alice2", "new@b.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestGormUpdateUserProfile_Error(t *testing.T) {
	s, mock := newGormStorageWithMock(t)

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnError(errors.New("boom"))

	_, err := s.UpdateUserProfile(context.Background(), 1, "alice2", "new@b.com")
	require.Error(t, err)
}
