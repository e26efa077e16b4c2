package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_RegisterDonorCreatesDonorRow(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`INSERT INTO "donors"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:       "Dana",
		Email:      "dana@example.com",
		Password:   "secret",
		Role:       "donor",
		BloodGroup: strPtr("o+"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(5), user.ID)
	assert.Equal(t, "O+", *user.BloodGroup)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_RegisterHospital(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectCommit()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "City Hospital", Email: "city@example.com", Password: "x", Role: "hospital",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Dana", Email: "dana@example.com", Password: "x", Role: "donor",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, "Email already exists", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_RegisterValidation(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db, nil)

	cases := []struct {
		req  dto.RegisterRequest
		want string
	}{
		{dto.RegisterRequest{Email: "a@b.c", Password: "x", Role: "donor"}, "name is required"},
		{dto.RegisterRequest{Name: "A", Email: "nope", Password: "x", Role: "donor"}, "email must be a valid email address"},
		{dto.RegisterRequest{Name: "A", Email: "a@b.c", Password: "x", Role: "nurse"}, "role must be one of: donor, hospital, admin"},
		{dto.RegisterRequest{Name: "A", Email: "a@b.c", Password: "x", Role: "donor", BloodGroup: strPtr("C+")}, invalidBloodGroup().Message},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), &tc.req)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), tc.want)
		assert.Equal(t, tc.want, verr.Message)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_Login(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db, NewTokenIssuer("test-secret", time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 AND password = \$2`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "City Hospital", "city@example.com", "pw", "hospital", nil, "Ankara", time.Now(), time.Now()))

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "city@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), resp.ID)
	assert.Equal(t, "Ankara", *resp.Location)
	require.NotEmpty(t, resp.AccessToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "3", claims["sub"])
	assert.Equal(t, "hospital", claims["role"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_LoginInvalidCredentials(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "x@example.com", Password: "bad"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_ListHospitals(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db, nil)

	mock.ExpectQuery(`SELECT "id","name","email","location" FROM "users" WHERE role = \$1 ORDER BY name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "location"}).
			AddRow(2, "City Hospital", "city@example.com", "Ankara"))

	hospitals, err := svc.ListHospitals(context.Background())
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "City Hospital", hospitals[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenIssuer_NilIssuesNothing(t *testing.T) {
	assert.Nil(t, NewTokenIssuer("", time.Hour))

	var issuer *TokenIssuer
	token, err := issuer.Issue(nil)
	require.NoError(t, err)
	assert.Empty(t, token)
}
