package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pageza/savorly/backend/config"
	"github.com/pageza/savorly/backend/internal/types"
)

// MaxImageBytes bounds the size of an uploaded recipe image
const MaxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore stores an object and returns the URL it is served from
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// S3Store is an ObjectStore backed by an S3 bucket
type S3Store struct {
	s3Config *config.S3Config
}

func NewS3Store(s3Config *config.S3Config) *S3Store {
	return &S3Store{s3Config: s3Config}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.s3Config.ObjectURL(key), nil
}

// ImageService uploads recipe images and records their URL on the recipe
type ImageService struct {
	store   ObjectStore
	catalog *CatalogService
}

func NewImageService(store ObjectStore, catalog *CatalogService) *ImageService {
	return &ImageService{store: store, catalog: catalog}
}

// UploadRecipeImage stores the image and sets it as the recipe's image.
// The caller must be allowed to modify the recipe.
func (s *ImageService) UploadRecipeImage(ctx context.Context, actor types.Actor, recipeID uint, data []byte) (string, error) {
	if err := s.catalog.Authorize(ctx, actor, recipeID); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image is empty", ErrValidation)
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", ErrValidation, MaxImageBytes)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %s", ErrValidation, contentType)
	}

	key := fmt.Sprintf("recipes/%d/%s%s", recipeID, uuid.NewString(), ext)
	url, err := s.store.Put(ctx, key, contentType, data)
	if err != nil {
		return "", err
	}
	if err := s.catalog.SetImage(ctx, actor, recipeID, url); err != nil {
		return "", err
	}

	log.Info().Uint("recipe_id", recipeID).Str("key", key).Msg("recipe image uploaded")
	return url, nil
}
