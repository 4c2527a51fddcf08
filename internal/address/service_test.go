package address

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	pkgerrors "github.com/eccentriccoder01/Bharatshaala/pkg/errors"
)

func setupAddressTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:address_%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  pincode TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'India',
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newAddressService(t *testing.T) Service {
	t.Helper()
	conn := setupAddressTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn))
	require.NoError(t, err)
	return svc
}

func validInput() CreateInput {
	return CreateInput{
		Name:    "Asha Sharma",
		Phone:   "9876543210",
		Line1:   "14 MG Road",
		City:    "Jaipur",
		State:   "Rajasthan",
		Pincode: "302001",
	}
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	svc := newAddressService(t)
	user := uuid.New()

	first, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "India", first.Country)

	second, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestCreateExplicitDefaultDemotesPrevious(t *testing.T) {
	svc := newAddressService(t)
	user := uuid.New()

	first, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)

	input := validInput()
	input.IsDefault = true
	second, err := svc.Create(context.Background(), user, input)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	rows, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		if row.ID == first.ID {
			assert.False(t, row.IsDefault, "previous default must be demoted")
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newAddressService(t)
	user := uuid.New()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing name", func(in *CreateInput) { in.Name = " " }},
		{"missing line1", func(in *CreateInput) { in.Line1 = "" }},
		{"bad phone", func(in *CreateInput) { in.Phone = "12345" }},
		{"bad pincode", func(in *CreateInput) { in.Pincode = "00001" }},
		{"missing city", func(in *CreateInput) { in.City = "" }},
		{"missing state", func(in *CreateInput) { in.State = "" }},
	}
	for _, tt := range tests {
		input := validInput()
		tt.mutate(&input)
		_, err := svc.Create(context.Background(), user, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestUpdateOwnershipAndDefaultSwitch(t *testing.T) {
	svc := newAddressService(t)
	user := uuid.New()

	first, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)

	city := "Udaipur"
	_, err = svc.Update(context.Background(), uuid.New(), second.ID, UpdateInput{City: &city})
	requireCode(t, err, pkgerrors.CodeNotFound)

	makeDefault := true
	updated, err := svc.Update(context.Background(), user, second.ID, UpdateInput{City: &city, IsDefault: &makeDefault})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, "Udaipur", updated.City)

	reloaded, err := svc.GetUserAddress(context.Background(), user, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestDelete(t *testing.T) {
	svc := newAddressService(t)
	user := uuid.New()

	created, err := svc.Create(context.Background(), user, validInput())
	require.NoError(t, err)

	requireCode(t, svc.Delete(context.Background(), uuid.New(), created.ID), pkgerrors.CodeNotFound)
	require.NoError(t, svc.Delete(context.Background(), user, created.ID))
	requireCode(t, svc.Delete(context.Background(), user, created.ID), pkgerrors.CodeNotFound)
}

func TestGetUserAddressScoping(t *testing.T) {
	svc := newAddressService(t)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)

	row, err := svc.GetUserAddress(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, row.ID)

	_, err = svc.GetUserAddress(context.Background(), uuid.New(), created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr, "expected coded error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}
