package users

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/tvshop-backend/internal/testsupport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUpsertAndFindProfile(t *testing.T) {
	conn := testsupport.OpenDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.FindProfileByUserID(ctx, userID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	dto := ProfileDTO{UserID: userID, FirstName: "Jana", LastName: "Novak", PhoneNumber: "777123456", Address: "Dlouha 1", City: "Praha", Zipcode: "11000"}
	_, err = repo.UpsertProfile(ctx, dto)
	require.NoError(t, err)

	dto.City = "Brno"
	saved, err := repo.UpsertProfile(ctx, dto)
	require.NoError(t, err)
	assert.Equal(t, "Brno", saved.City)

	var count int64
	require.NoError(t, conn.Table("profiles").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	details := FromModel(saved).ShippingDetails()
	assert.Equal(t, "Jana", details.FirstName)
	assert.Equal(t, "Brno", details.City)
}
