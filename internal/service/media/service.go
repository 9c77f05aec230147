package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"medcollab/internal/config"
	"medcollab/internal/domain"
	"medcollab/internal/repository"
)

var (
	ErrNotFound     = errors.New("media not found")
	ErrNotOwner     = errors.New("media does not belong to this user")
	ErrUnsupported  = errors.New("unsupported media kind")
	ErrFileTooLarge = errors.New("file exceeds the size limit")
)

const (
	maxAvatarSize   = 5 << 20  // 5 MiB
	maxDocumentSize = 25 << 20 // 25 MiB
	presignExpiry   = 15 * time.Minute
)

type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, kind domain.MediaKind, recordID *string, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Media, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, kind domain.MediaKind, params domain.PaginationParams) (domain.PaginatedResponse[domain.Media], error)
}

type service struct {
	mediaRepo   repository.MediaRepository
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(mediaRepo repository.MediaRepository, minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		mediaRepo:   mediaRepo,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *service) Upload(ctx context.Context, userID uuid.UUID, kind domain.MediaKind, recordID *string, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Media, error) {
	switch kind {
	case domain.MediaAvatar:
		if fileSize > maxAvatarSize {
			return nil, ErrFileTooLarge
		}
	case domain.MediaDocument:
		if fileSize > maxDocumentSize {
			return nil, ErrFileTooLarge
		}
	default:
		return nil, ErrUnsupported
	}

	mediaID := uuid.New()
	storagePath := fmt.Sprintf("%s/%s/%s", kind, time.Now().Format("2006/01"), mediaID.String())

	_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	media := &domain.Media{
		ID:          mediaID,
		UploadedBy:  userID,
		Kind:        kind,
		RecordID:    recordID,
		FileName:    fileName,
		FileSize:    fileSize,
		MimeType:    mimeType,
		StoragePath: storagePath,
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return nil, err
	}

	media.URL, err = s.presignedURL(ctx, media)
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrNotFound
	}

	media.URL, err = s.presignedURL(ctx, media)
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return ErrNotFound
	}
	if media.UploadedBy != userID {
		return ErrNotOwner
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, media.StoragePath, minio.RemoveObjectOptions{})
	return nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, kind domain.MediaKind, params domain.PaginationParams) (domain.PaginatedResponse[domain.Media], error) {
	mediaList, total, err := s.mediaRepo.ListByUser(ctx, userID, kind, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Media]{}, err
	}

	for i := range mediaList {
		mediaList[i].URL, err = s.presignedURL(ctx, &mediaList[i])
		if err != nil {
			return domain.PaginatedResponse[domain.Media]{}, err
		}
	}

	return domain.NewPaginatedResponse(mediaList, params.Page, params.PageSize, total), nil
}

// Objects stay private: verification documents and clinical attachments are
// only ever exposed through short-lived presigned URLs.
func (s *service) presignedURL(ctx context.Context, media *domain.Media) (string, error) {
	u, err := s.minioClient.PresignedGetObject(ctx, s.cfg.MinIOBucket, media.StoragePath, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}
	return u.String(), nil
}
