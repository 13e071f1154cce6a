package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homio-app/homio-backend/pkg/config"
	"github.com/homio-app/homio-backend/pkg/db/dbtest"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	conn := dbtest.Open(t, &testModel{})
	client := NewFromConn(conn)

	ctx := context.Background()
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}))

	var count int64
	require.NoError(t, conn.Model(&testModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	require.NoError(t, conn.Model(&testModel{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "rollback should leave a single row")
}

func TestPing(t *testing.T) {
	client := NewFromConn(dbtest.Open(t))
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewOpensSQLiteDriver(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		Driver: DriverSQLite,
		DSN:    "file:client_new_test?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"}, nil)
	require.Error(t, err)

	_, err = New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	conn := dbtest.Open(t, &testModel{})
	require.NoError(t, conn.Create(&testModel{Name: "dup"}).Error)
	err := conn.Create(&testModel{Name: "dup"}).Error
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err, ""))

	require.True(t, IsUniqueViolation(fmt.Errorf("ERROR: duplicate key value violates unique constraint \"users_email_key\""), "users_email_key"))
	require.False(t, IsUniqueViolation(fmt.Errorf("ERROR: duplicate key value violates unique constraint \"other\""), "users_email_key"))
	require.False(t, IsUniqueViolation(nil, ""))
	require.False(t, IsUniqueViolation(errors.New("connection refused"), ""))
}

func TestIsNotFound(t *testing.T) {
	conn := dbtest.Open(t, &testModel{})
	var row testModel
	err := conn.First(&row, "name = ?", "missing").Error
	require.True(t, IsNotFound(err))
	require.False(t, IsNotFound(errors.New("other")))
}
