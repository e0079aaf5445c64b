package photo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/photoinspect"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

const maxSubmitterLen = 80

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadInput holds an uploaded photo.
type UploadInput struct {
	RecipeSlug string
	Submitter  string
	Data       []byte
}

// UploadResult is the stored photo and, when scoring succeeded, its
// moderation outcome.
type UploadResult struct {
	Photo   *domain.Photo
	Outcome *moderation.Outcome
}

func (i UploadInput) validate(maxBytes int64) error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.RecipeSlug) == "" {
		errs = append(errs, domain.FieldError{Field: "recipe_slug", Message: "required"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(i.Submitter)) > maxSubmitterLen {
		errs = append(errs, domain.FieldError{Field: "submitter", Message: "max 80 characters"})
	}
	switch {
	case len(i.Data) == 0:
		errs = append(errs, domain.FieldError{Field: "file", Message: "required"})
	case int64(len(i.Data)) > maxBytes:
		errs = append(errs, domain.FieldError{Field: "file", Message: fmt.Sprintf("max %d bytes", maxBytes)})
	case !allowedTypes[http.DetectContentType(i.Data)]:
		errs = append(errs, domain.FieldError{Field: "file", Message: "must be a JPEG, PNG, GIF or WebP image"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Upload validates, stores and scores a photo. A near-duplicate of a photo
// already on the recipe is rejected. When scoring fails the stored photo
// is returned together with an error wrapping domain.ErrUpstream and it
// stays pending.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if err := input.validate(s.maxBytes); err != nil {
		return nil, err
	}

	exists, err := s.recipes.SlugExists(ctx, input.RecipeSlug)
	if err != nil {
		return nil, fmt.Errorf("photo.Upload: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("recipe %s: %w", input.RecipeSlug, domain.ErrNotFound)
	}

	decoded, err := photoinspect.Decode(input.Data)
	if err != nil {
		if errors.Is(err, photoinspect.ErrUnsupportedFormat) {
			return nil, domain.NewValidationError("file", "unsupported image format")
		}
		return nil, domain.NewValidationError("file", "corrupt image")
	}

	hashes, err := s.photos.HashesByRecipe(ctx, input.RecipeSlug)
	if err != nil {
		return nil, fmt.Errorf("photo.Upload: %w", err)
	}
	if photoinspect.FindDuplicate(decoded.Hash, hashes) >= 0 {
		return nil, fmt.Errorf("photo.Upload: duplicate photo: %w", domain.ErrAlreadyExists)
	}

	mediaType := photoinspect.MediaType(decoded.Format)
	blobName := fmt.Sprintf("photos/%s/%s%s", input.RecipeSlug, uuid.NewString(), extension(decoded.Format))
	url, err := s.blobs.Put(ctx, blobName, mediaType, input.Data)
	if err != nil {
		return nil, fmt.Errorf("photo.Upload: store: %w", err)
	}

	p, err := s.photos.Create(ctx, &domain.Photo{
		RecipeSlug:     input.RecipeSlug,
		URL:            url,
		BlobName:       blobName,
		Submitter:      strings.TrimSpace(input.Submitter),
		PerceptualHash: decoded.Hash,
		Status:         domain.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("photo.Upload: create: %w", err)
	}

	s.log.InfoContext(ctx, "photo uploaded",
		slog.String("photo_id", p.ID.String()),
		slog.String("recipe", p.RecipeSlug),
	)

	res := &UploadResult{Photo: p}
	out, err := s.pipeline.Run(ctx, moderation.PhotoSubject{
		Photo:     p,
		Data:      input.Data,
		MediaType: mediaType,
		Format:    decoded.Format,
	})
	if err != nil {
		s.log.WarnContext(ctx, "photo scoring failed", slog.String("photo_id", p.ID.String()), slog.String("error", err.Error()))
		return res, fmt.Errorf("photo.Upload: %w", asUpstream(err))
	}
	res.Outcome = &out
	return res, nil
}

func extension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	}
	return ""
}

// asUpstream makes sure a scoring failure is reported as an upstream error.
func asUpstream(err error) error {
	if errors.Is(err, domain.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}
