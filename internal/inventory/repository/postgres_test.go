package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auromart/commerce-service/internal/inventory/dto"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func TestFindAllPropagatesCountScanError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("not-a-number"))

	items, count, err := repo.FindAll(context.Background(), &dto.InventoryFilters{DistributorID: "dist-1"})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMovementsPropagatesCountScanError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("not-a-number"))

	items, count, err := repo.ListMovements(context.Background(), &dto.MovementFilters{DistributorID: "dist-1"})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
