package app

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dlfx/internal/domain/entity"
	"dlfx/internal/infrastructure/storage"
)

func TestPreviewService_Normalize(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	userSvc := NewUserService(repo)
	svc := NewPreviewService(userSvc, &fakeLoader{}, nil, "")
	ctx := context.Background()

	out, err := svc.Normalize(ctx, 1, 10, []byte("ok"))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, out.SourceShape)
	require.Equal(t, entity.RoundTruncate, out.Rounding)

	img, err := png.Decode(bytes.NewReader(out.PNG))
	require.NoError(t, err)
	require.Equal(t, 2, img.Bounds().Dx())

	user, err := userSvc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, 1, user.Processed)
}

func TestPreviewService_NormalizeRejectsRGBA(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	userSvc := NewUserService(repo)
	svc := NewPreviewService(userSvc, &fakeLoader{}, nil, "")
	ctx := context.Background()

	_, err := svc.Normalize(ctx, 1, 10, []byte("rgba"))
	var shapeErr *entity.UnsupportedShapeError
	require.True(t, errors.As(err, &shapeErr))

	_, err = svc.Normalize(ctx, 1, 10, []byte("bad"))
	require.ErrorContains(t, err, "decode image")

	user, err := userSvc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Zero(t, user.Processed)
}

func TestPreviewService_DefaultRounding(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	userSvc := NewUserService(repo)
	svc := NewPreviewService(userSvc, &fakeLoader{}, nil, entity.RoundNearest)
	ctx := context.Background()

	out, err := svc.Normalize(ctx, 1, 10, []byte("ok"))
	require.NoError(t, err)
	require.Equal(t, entity.RoundNearest, out.Rounding)

	_, err = userSvc.SetRounding(ctx, 1, 10, entity.RoundTruncate)
	require.NoError(t, err)
	out, err = svc.Normalize(ctx, 1, 10, []byte("ok"))
	require.NoError(t, err)
	require.Equal(t, entity.RoundTruncate, out.Rounding)
}

func TestPreviewService_Tags(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	userSvc := NewUserService(repo)
	fields := []entity.MetadataField{{Key: "Modality", Value: "CT"}}
	svc := NewPreviewService(userSvc, nil, NewMetadataService(&fakeMetadataReader{fields: fields}), "")

	got, err := svc.Tags(context.Background(), 1, 10, []byte("dcm"))
	require.NoError(t, err)
	require.Equal(t, fields, got)

	_, err = svc.Normalize(context.Background(), 1, 10, nil)
	require.Error(t, err)
}

func TestFormatFields(t *testing.T) {
	fields := []entity.MetadataField{
		{Key: "Modality", Value: "CT"},
		{Key: "Rows", Value: 512},
	}
	require.Equal(t, "Modality = CT\nRows = 512\n", FormatFields(fields, 0))

	short := FormatFields(fields, 20)
	require.True(t, strings.HasPrefix(short, "Modality = CT\n"))
	require.True(t, strings.HasSuffix(short, "…"))
}
