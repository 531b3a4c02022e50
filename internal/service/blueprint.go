package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skovalev/blueprinthub/internal/events"
	"github.com/skovalev/blueprinthub/internal/logging"
	"github.com/skovalev/blueprinthub/internal/models"
	"github.com/skovalev/blueprinthub/internal/repo"
)

// DimensionExtractor derives blueprint dimensions from the stored file for
// the future 3D conversion pipeline.
type DimensionExtractor interface {
	Extract(path string) (string, error)
}

// PlaceholderExtractor is the default extractor. Real geometry parsing is
// not yet implemented; it reports fixed dimensions for every file.
type PlaceholderExtractor struct{}

func (PlaceholderExtractor) Extract(string) (string, error) {
	return `{"x": 10, "y": 20, "z": 30}`, nil
}

type BlueprintService struct {
	Repo      *repo.GormRepo
	Events    *events.Producer
	Extractor DimensionExtractor
	UploadDir string
}

var (
	allowedExtensions = map[string]bool{".pdf": true, ".jpg": true, ".jpeg": true}
	allowedMIMEs      = map[string]bool{"application/pdf": true, "image/jpeg": true}
)

func allowedBlueprintFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return false
	}
	mimeType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext))
	if err != nil {
		return false
	}
	return allowedMIMEs[mimeType]
}

// Upload writes the file first and persists the metadata second; if the
// metadata insert fails the file is removed so the two cannot diverge.
func (s *BlueprintService) Upload(ctx context.Context, ownerID uint, filename string, src io.Reader) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "blueprint.upload")

	if filename == "" {
		return 0, ErrValidation
	}
	if !allowedBlueprintFile(filename) {
		return 0, ErrInvalidFile
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}

	base := filepath.Base(filename)
	path := filepath.Join(s.UploadDir, fmt.Sprintf("%d_%d_%s", ownerID, time.Now().UnixNano(), base))

	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return 0, fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("close upload file: %w", err)
	}

	dimensions, err := s.extractor().Extract(path)
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("extract dimensions: %w", err)
	}

	bp := models.Blueprint{
		UserID:     ownerID,
		Filename:   base,
		Filepath:   path,
		Dimensions: dimensions,
		Color:      "none",
	}
	id, err := s.Repo.SaveBlueprint(ctx, &bp)
	if err != nil {
		os.Remove(path)
		return 0, err
	}

	l.Info("blueprint_uploaded", "blueprint_id", id, "user_id", ownerID, "filename", base)
	if s.Events != nil {
		if perr := s.Events.Publish(ctx, events.TopicBlueprintEvents, base, map[string]any{
			"event":        "blueprint_uploaded",
			"blueprint_id": id,
			"user_id":      ownerID,
		}); perr != nil {
			l.Warn("event_publish_failed", "error", perr)
		}
	}
	return id, nil
}

func (s *BlueprintService) List(ctx context.Context, ownerID uint) ([]models.Blueprint, error) {
	return s.Repo.ListBlueprints(ctx, ownerID)
}

// Get scopes the lookup to the owner: another user's blueprint is
// indistinguishable from a missing one.
func (s *BlueprintService) Get(ctx context.Context, ownerID, id uint) (*models.Blueprint, error) {
	bp, err := s.Repo.GetBlueprint(ctx, id)
	if err != nil {
		return nil, err
	}
	if bp.UserID != ownerID {
		return nil, repo.ErrBlueprintNotFound
	}
	return bp, nil
}

func (s *BlueprintService) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Repo.DeleteBlueprint(ctx, id)
}

func (s *BlueprintService) UpdateColor(ctx context.Context, ownerID, id uint, color string) error {
	if color == "" {
		return ErrValidation
	}
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Repo.UpdateBlueprintColor(ctx, id, color)
}

func (s *BlueprintService) extractor() DimensionExtractor {
	if s.Extractor == nil {
		return PlaceholderExtractor{}
	}
	return s.Extractor
}
