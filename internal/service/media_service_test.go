package service_test

import (
	"context"
	"errors"
	"testing"

	"running-events-backend/internal/model"
	repoMocks "running-events-backend/internal/repository/mocks"
	"running-events-backend/internal/service"
	"running-events-backend/internal/storage"
	storageMocks "running-events-backend/internal/storage/mocks"
	apperrors "running-events-backend/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMediaService_ClearCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - files are removed before rows", func(t *testing.T) {
		mediaRepo := repoMocks.NewMediaRepositoryMock()
		disk := storageMocks.NewDiskMock("public")
		svc := service.NewMediaService(mediaRepo, storage.NewRegistry(disk))

		var order []string
		mediaRepo.On("ListForModel", ctx, model.EventMorphType, 1, model.DefaultMediaCollection).
			Return([]*model.Media{{ID: 11, Disk: "public"}}, nil).Once()
		disk.On("DeleteDirectory", ctx, "11/").Run(func(mock.Arguments) { order = append(order, "files") }).Return(nil).Once()
		mediaRepo.On("Delete", ctx, 11).Run(func(mock.Arguments) { order = append(order, "row") }).Return(nil).Once()

		err := svc.ClearCollection(ctx, model.EventMorphType, 1, model.DefaultMediaCollection)

		require.NoError(t, err)
		assert.Equal(t, []string{"files", "row"}, order)
	})

	t.Run("Success - row already gone", func(t *testing.T) {
		mediaRepo := repoMocks.NewMediaRepositoryMock()
		disk := storageMocks.NewDiskMock("public")
		svc := service.NewMediaService(mediaRepo, storage.NewRegistry(disk))

		mediaRepo.On("ListForModel", ctx, model.EventMorphType, 1, model.DefaultMediaCollection).
			Return([]*model.Media{{ID: 11, Disk: "public"}}, nil).Once()
		disk.On("DeleteDirectory", ctx, "11/").Return(nil).Once()
		mediaRepo.On("Delete", ctx, 11).Return(apperrors.ErrMediaNotFound).Once()

		assert.NoError(t, svc.ClearCollection(ctx, model.EventMorphType, 1, model.DefaultMediaCollection))
	})

	t.Run("Failed - disk error keeps the row", func(t *testing.T) {
		mediaRepo := repoMocks.NewMediaRepositoryMock()
		disk := storageMocks.NewDiskMock("public")
		svc := service.NewMediaService(mediaRepo, storage.NewRegistry(disk))

		mediaRepo.On("ListForModel", ctx, model.EventMorphType, 1, model.DefaultMediaCollection).
			Return([]*model.Media{{ID: 11, Disk: "public"}}, nil).Once()
		disk.On("DeleteDirectory", ctx, "11/").Return(errors.New("permission denied")).Once()

		err := svc.ClearCollection(ctx, model.EventMorphType, 1, model.DefaultMediaCollection)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
		mediaRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestMediaService_AttachImageURLs(t *testing.T) {
	ctx := context.Background()
	mediaRepo := repoMocks.NewMediaRepositoryMock()
	svc := service.NewMediaService(mediaRepo, storage.NewRegistry(storageMocks.NewDiskMock("public")))

	events := []*model.Event{{ID: 1}, {ID: 2}}
	mediaRepo.On("FirstForModels", ctx, model.EventMorphType, []int{1, 2}, model.DefaultMediaCollection).
		Return(map[int]*model.Media{
			1: {ID: 5, ModelID: 1, Disk: "public", FileName: "poster.png"},
			2: {ID: 6, ModelID: 2, Disk: "s3", FileName: "poster.png"},
		}, nil).Once()

	require.NoError(t, svc.AttachImageURLs(ctx, events))

	require.NotNil(t, events[0].ImageURL)
	assert.Equal(t, "https://cdn.test/5/conversions/poster-webp.webp", *events[0].ImageURL)
	assert.Nil(t, events[1].ImageURL)
}
