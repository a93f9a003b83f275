package posts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyjsx/stories/internal/events"
	"github.com/jeremyjsx/stories/internal/storage"
)

// imageFolder is the object-store prefix under which all post images live.
const imageFolder = "blog-images"

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ImageUpload is an incoming image file before it reaches the object store.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

type Service struct {
	repo      Repository
	store     storage.Storage
	pub       events.Publisher
	bucket    string
	region    string
	publicURL string
	logger    *slog.Logger
}

func NewService(repo Repository, store storage.Storage, pub events.Publisher, bucket, region, publicURL string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		pub:       pub,
		bucket:    bucket,
		region:    region,
		publicURL: publicURL,
		logger:    logger,
	}
}

func (s *Service) CreatePost(ctx context.Context, in PostInput, image *ImageUpload) (*Post, error) {
	if verr := in.Validate(); verr != nil {
		return nil, verr
	}
	if image == nil {
		return nil, ErrImageRequired
	}

	key, url, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &Post{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Story:       in.Story,
		ImageURL:    url,
		ImageKey:    key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		// The image is already in the store; try not to strand it.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("cleanup of uploaded image failed", "key", key, "error", delErr)
		}
		return nil, err
	}

	s.publish(ctx, events.NewPostCreated(post.ID, post.Title))

	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPosts(ctx context.Context) ([]*Post, error) {
	return s.repo.List(ctx)
}

// UpdatePost overwrites title, description and story unconditionally. When a
// new image is supplied the old object is removed best-effort; only the new
// upload's failure aborts the edit.
func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput, image *ImageUpload) (*Post, error) {
	if verr := in.Validate(); verr != nil {
		return nil, verr
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if image != nil {
		if post.ImageKey != "" {
			if err := s.store.Delete(ctx, post.ImageKey); err != nil {
				s.logger.Error("delete of replaced image failed", "key", post.ImageKey, "error", err)
			}
		}

		key, url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.ImageKey = key
		post.ImageURL = url
	}

	post.Title = in.Title
	post.Description = in.Description
	post.Story = in.Story
	post.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if post.ImageKey != "" {
		if err := s.store.Delete(ctx, post.ImageKey); err != nil {
			s.logger.Error("delete of post image failed", "key", post.ImageKey, "error", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.NewPostDeleted(post.ID, post.Title))

	return nil
}

func (s *Service) uploadImage(ctx context.Context, image *ImageUpload) (key, url string, err error) {
	ext := strings.ToLower(filepath.Ext(image.Filename))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return "", "", ErrUnsupportedImage
	}

	key = imageFolder + "/" + uuid.NewString() + ext
	if err := s.store.Upload(ctx, key, image.Body, contentType); err != nil {
		return "", "", fmt.Errorf("upload image: %w", err)
	}

	return key, s.imagePublicURL(key), nil
}

func (s *Service) imagePublicURL(key string) string {
	if s.publicURL != "" {
		return strings.TrimSuffix(s.publicURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// publish is fire-and-forget; a broker outage must never fail a request.
func (s *Service) publish(ctx context.Context, e events.PostEvent) {
	if err := s.pub.Publish(ctx, e); err != nil {
		s.logger.Error("publish event failed", "type", e.Type, "post_id", e.Payload.PostID, "error", err)
	}
}
