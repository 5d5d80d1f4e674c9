package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dlfx/internal/domain/entity"
	"dlfx/internal/infrastructure/storage"
)

func TestUserService_BeginAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginNormalize(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingImage, user.State)

	user, err = svc.BeginTags(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingDicom, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetRoundingAndFinish(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetRounding(ctx, 2, 20, entity.RoundNearest)
	require.NoError(t, err)
	require.Equal(t, entity.RoundNearest, user.Rounding)

	_, err = svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)

	user, err = svc.Finish(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, 1, user.Processed)
	require.Equal(t, entity.RoundNearest, user.Rounding)
}
