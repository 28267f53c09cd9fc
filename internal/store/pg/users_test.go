package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
)

var userCols = []string{"id_usuario", "nusuario", "contrasena", "email", "tipo", "nombre_completo", "fecha_nacimiento"}

func TestUserRepo_GetByCredentials(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantUser  *repository.User
		wantErr   error
	}{
		{
			name:   "match",
			secret: "YQBiAGMA",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userCols).
					AddRow(int64(7), "ana", "YQBiAGMA", "ana@x.com", "Admin", " Ana Pérez ", "1990-05-01")
				mock.ExpectQuery(`FROM usuario WHERE nusuario = \$1 AND contrasena = \$2`).
					WithArgs("ana", "YQBiAGMA").
					WillReturnRows(rows)
			},
			wantUser: &repository.User{
				ID: 7, Username: "ana", EncodedSecret: "YQBiAGMA",
				Email: "ana@x.com", Role: "Admin", DisplayName: "Ana Pérez",
			},
		},
		{
			name:   "no match",
			secret: "bad",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM usuario WHERE nusuario = \$1 AND contrasena = \$2`).
					WithArgs("ana", "bad").
					WillReturnRows(pgxmock.NewRows(userCols))
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name:   "connection refused",
			secret: "x",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM usuario`).
					WithArgs("ana", "x").
					WillReturnError(errors.New("dial tcp: connection refused"))
			},
			wantErr: repository.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			got, err := repo.GetByCredentials(context.Background(), "ana", tt.secret)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got.BirthDate)
				assert.Equal(t, "1990-05-01", got.BirthDate.Format("2006-01-02"))
				got.BirthDate = nil
				assert.Equal(t, tt.wantUser, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_GetByEmailAndUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM usuario WHERE email = \$1`).
		WithArgs("ana@x.com").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(int64(7), "ana", "s", "ana@x.com", "Admin", "", ""))
	mock.ExpectQuery(`FROM usuario WHERE nusuario = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userCols))

	repo := NewUserRepository(mock)

	u, err := repo.GetByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Empty(t, u.DisplayName)
	assert.Nil(t, u.BirthDate)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.True(t, repository.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UpdateSecretByEmail(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		err     error
		wantErr error
	}{
		{name: "updated", result: pgxmock.NewResult("UPDATE", 1)},
		{name: "no rows", result: pgxmock.NewResult("UPDATE", 0), wantErr: repository.ErrNotFound},
		{
			name:    "admin shutdown",
			err:     &pgconn.PgError{Code: pgerrcode.AdminShutdown},
			wantErr: repository.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			exp := mock.ExpectExec(`UPDATE usuario SET contrasena = \$1 WHERE email = \$2`).
				WithArgs("bgBlAHcA", "ana@x.com")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err = NewUserRepository(mock).UpdateSecretByEmail(context.Background(), "ana@x.com", "bgBlAHcA")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
