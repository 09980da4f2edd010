package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
	repo "github.com/quantdeck/quantdeck/internal/domain/repository"
	"github.com/quantdeck/quantdeck/pkg/helpers"
)

// UserService covers profile reads and self-service updates. Role
// changes live in AdminService; this service can never touch roles.
type UserService struct {
	Repo      repo.UserRepository
	Redis     *redis.Client
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserService(r repo.UserRepository, rdb *redis.Client, gcs *storage.Client, bucket string, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Redis: rdb, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes the display name. The store is written first,
// then the session claim set is patched so the sidebar reflects the
// change without a re-login.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName string) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.DisplayName = displayName
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := patchSession(ctx, s.Redis, u.ID, map[string]any{"name": u.DisplayName}); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session patch failed")
		}
	}
	return u, nil
}

// UploadAvatar stores the image in GCS and persists the public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Redis != nil {
		if err := patchSession(ctx, s.Redis, u.ID, map[string]any{"avatar_url": url}); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session patch failed")
		}
	}
	return url, nil
}
