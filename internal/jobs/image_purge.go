package jobs

import (
	"context"
	"log/slog"
	"time"
)

// ImageLister lists and deletes stored image blobs.
type ImageLister interface {
	ListIDs(ctx context.Context) ([]string, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// ReferenceReader reports which image blobs observations still point at.
type ReferenceReader interface {
	ReferencedImageIDs(ctx context.Context) (map[string]struct{}, error)
}

// ImagePurgeJob removes image blobs that no observation references anymore,
// e.g. when an observation insert failed after its image was stored.
type ImagePurgeJob struct {
	images     ImageLister
	references ReferenceReader
	timeout    time.Duration
}

func NewImagePurgeJob(images ImageLister, references ReferenceReader) *ImagePurgeJob {
	return &ImagePurgeJob{
		images:     images,
		references: references,
		timeout:    2 * time.Minute,
	}
}

// Run deletes every stored image whose ID is not referenced by an observation.
func (j *ImagePurgeJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	referenced, err := j.references.ReferencedImageIDs(ctx)
	if err != nil {
		return err
	}

	stored, err := j.images.ListIDs(ctx)
	if err != nil {
		return err
	}

	var orphans []string
	for _, id := range stored {
		if _, ok := referenced[id]; !ok {
			orphans = append(orphans, id)
		}
	}

	if len(orphans) == 0 {
		slog.Debug("image purge: nothing to do", "stored", len(stored))
		return nil
	}

	deleted, err := j.images.DeleteMany(ctx, orphans)
	if err != nil {
		return err
	}

	slog.Info("image purge: removed orphaned images",
		"deleted", deleted,
		"stored", len(stored),
		"referenced", len(referenced))
	return nil
}
