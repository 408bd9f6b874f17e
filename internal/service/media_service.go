package service

import (
	"context"
	"errors"
	"fmt"

	"running-events-backend/internal/model"
	"running-events-backend/internal/repository"
	"running-events-backend/internal/storage"
	apperrors "running-events-backend/pkg/app_errors"
	"running-events-backend/pkg/logger"

	"go.uber.org/zap"
)

// ImageConversion 公開 API 回傳的圖片衍生檔
const (
	ImageConversion    = "webp"
	ImageConversionExt = "webp"
)

type MediaService interface {
	// ClearCollection 先刪除 disk 上的檔案，再刪除 media 紀錄
	ClearCollection(ctx context.Context, modelType string, modelID int, collection string) error
	// AttachImageURLs 為每個活動填入 default collection 的圖片網址
	AttachImageURLs(ctx context.Context, events []*model.Event) error
}

type MediaServiceImpl struct {
	repo  repository.MediaRepository
	disks storage.Registry
}

func NewMediaService(repo repository.MediaRepository, disks storage.Registry) MediaService {
	return &MediaServiceImpl{repo: repo, disks: disks}
}

func (s *MediaServiceImpl) ClearCollection(ctx context.Context, modelType string, modelID int, collection string) error {
	items, err := s.repo.ListForModel(ctx, modelType, modelID, collection)
	if err != nil {
		return fmt.Errorf("list media: %w", err)
	}

	for _, media := range items {
		disk, err := s.disks.Get(media.Disk)
		if err != nil {
			return fmt.Errorf("media %d: %w", media.ID, err)
		}
		if err := disk.DeleteDirectory(ctx, media.Directory()); err != nil {
			return fmt.Errorf("delete files of media %d on %s: %w", media.ID, media.Disk, err)
		}
		if err := s.repo.Delete(ctx, media.ID); err != nil && !errors.Is(err, apperrors.ErrMediaNotFound) {
			return fmt.Errorf("delete media %d: %w", media.ID, err)
		}
	}
	return nil
}

func (s *MediaServiceImpl) AttachImageURLs(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	images, err := s.repo.FirstForModels(ctx, model.EventMorphType, ids, model.DefaultMediaCollection)
	if err != nil {
		return err
	}

	for _, e := range events {
		media, ok := images[e.ID]
		if !ok {
			continue
		}
		disk, err := s.disks.Get(media.Disk)
		if err != nil {
			// 未設定的 disk 只影響圖片，不讓整個列表失敗
			logger.WithComponent("media").Warn("skip image on unknown disk",
				zap.Int("media_id", media.ID), zap.String("disk", media.Disk))
			continue
		}
		url := disk.URL(media.ConversionPath(ImageConversion, ImageConversionExt))
		e.ImageURL = &url
	}
	return nil
}
