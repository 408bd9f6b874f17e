package repository

import (
	"context"

	"running-events-backend/internal/model"
	apperrors "running-events-backend/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MediaRepository interface {
	ListForModel(ctx context.Context, modelType string, modelID int, collection string) ([]*model.Media, error)
	FirstForModels(ctx context.Context, modelType string, modelIDs []int, collection string) (map[int]*model.Media, error)
	Delete(ctx context.Context, id int) error
}

type MediaRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &MediaRepositoryImpl{
		pool: pool,
	}
}

const mediaColumns = `id, model_type, model_id, uuid, collection_name, name, file_name, mime_type, disk, size, created_at`

func scanMedia(row pgx.Row) (*model.Media, error) {
	var media model.Media
	err := row.Scan(
		&media.ID,
		&media.ModelType,
		&media.ModelID,
		&media.UUID,
		&media.CollectionName,
		&media.Name,
		&media.FileName,
		&media.MimeType,
		&media.Disk,
		&media.Size,
		&media.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *MediaRepositoryImpl) ListForModel(ctx context.Context, modelType string, modelID int, collection string) ([]*model.Media, error) {
	query := `
		SELECT ` + mediaColumns + `
		FROM media
		WHERE model_type = $1 AND model_id = $2 AND collection_name = $3
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, modelType, modelID, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*model.Media, 0)
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, media)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FirstForModels 每個 model 只取 id 最小的一筆（single file collection）
func (r *MediaRepositoryImpl) FirstForModels(ctx context.Context, modelType string, modelIDs []int, collection string) (map[int]*model.Media, error) {
	result := make(map[int]*model.Media, len(modelIDs))
	if len(modelIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT DISTINCT ON (model_id) ` + mediaColumns + `
		FROM media
		WHERE model_type = $1 AND model_id = ANY($2) AND collection_name = $3
		ORDER BY model_id, id
	`

	rows, err := r.pool.Query(ctx, query, modelType, modelIDs, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		result[media.ModelID] = media
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MediaRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMediaNotFound
	}
	return nil
}
