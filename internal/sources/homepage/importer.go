package homepage

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Kind selects which Homepage file is imported.
type Kind string

const (
	KindBookmarks Kind = "bookmarks"
	KindServices  Kind = "services"
)

// Creator is satisfied by *api.BookmarksAPI.
type Creator interface {
	Create(ctx context.Context, in domain.CreateBookmark) (*domain.Bookmark, error)
}

// Failure is an entry the backend refused.
type Failure struct {
	URL string
	Err error
}

// Summary reports the outcome of one import.
type Summary struct {
	Created int
	Failed  []Failure
	Skipped []Skipped
}

// Importer creates bookmarks from a Homepage file.
type Importer struct {
	creator Creator
	log     logger.Logger

	// Public marks every imported bookmark as public.
	Public bool
	// DryRun maps and validates without calling the backend.
	DryRun bool
}

// NewImporter returns an Importer posting through creator.
func NewImporter(creator Creator, log logger.Logger) *Importer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Importer{creator: creator, log: log}
}

// ImportFile loads path as kind and creates its entries.
func (im *Importer) ImportFile(ctx context.Context, kind Kind, path string) (*Summary, error) {
	var (
		entries []domain.CreateBookmark
		skipped []Skipped
	)

	switch kind {
	case KindBookmarks, "":
		cfg, err := LoadBookmarks(path)
		if err != nil {
			return nil, err
		}
		entries, skipped = MapBookmarks(cfg)
	case KindServices:
		cfg, err := LoadServices(path)
		if err != nil {
			return nil, err
		}
		entries, skipped = MapServices(cfg)
	default:
		return nil, &domain.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown import kind %q", kind)}
	}

	sum := im.Import(ctx, entries)
	sum.Skipped = append(skipped, sum.Skipped...)
	return sum, nil
}

// Import creates entries one by one. A failure never stops the import;
// a cancelled context does.
func (im *Importer) Import(ctx context.Context, entries []domain.CreateBookmark) *Summary {
	sum := &Summary{}
	public := im.Public

	for _, in := range entries {
		if err := ctx.Err(); err != nil {
			sum.Failed = append(sum.Failed, Failure{URL: in.URL, Err: err})
			continue
		}
		if public {
			in.IsPublic = &public
		}
		if im.DryRun {
			sum.Created++
			continue
		}

		b, err := im.creator.Create(ctx, in)
		if err != nil {
			im.log.Warn("import entry failed", logger.String("url", in.URL), logger.Error(err))
			sum.Failed = append(sum.Failed, Failure{URL: in.URL, Err: err})
			continue
		}
		im.log.Debug("imported bookmark", logger.Int64("id", b.ID), logger.String("url", b.URL))
		sum.Created++
	}

	im.log.Info("homepage import finished",
		logger.Int("created", sum.Created),
		logger.Int("failed", len(sum.Failed)))
	return sum
}
