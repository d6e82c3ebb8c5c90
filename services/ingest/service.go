package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"autolot-backend/lib/timezone"
	"autolot-backend/pkg/models"
	"autolot-backend/services/ingest/db"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/ingest")

// ListingSource is the capability a marketplace adapter provides: turn
// one page url into candidates and fetch their image assets. Additional
// marketplaces plug in as alternate implementations without touching
// the normalizer or the coordinator.
type ListingSource interface {
	Name() string
	FetchListings(ctx context.Context, pageURL string) ([]models.ListingCandidate, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

type ServiceOptions struct {
	// directory image assets are written into, keyed by slug
	MediaDir string
	// historically an item whose image cannot be fetched (or that has
	// no image url at all) is not persisted, and the zero value keeps
	// it that way. set to persist image-less records anyway.
	AllowMissingImage bool
}

// Service coordinates the ingestion of listing pages: dedup, normalize,
// resolve shared entities, allocate a slug, fetch the image, commit.
// Items are processed strictly in source order, one at a time, so slug
// allocation and get-or-create lookups always observe every previously
// committed item.
type Service struct {
	store   Store
	source  ListingSource
	options ServiceOptions
}

func NewService(store Store, source ListingSource, options ServiceOptions) Service {
	return Service{
		store:   store,
		source:  source,
		options: options,
	}
}

// Vehicles returns the most recently ingested records, newest first.
func (s Service) Vehicles(ctx context.Context, limit int64) ([]db.Vehicle, error) {
	return s.store.ListVehicles(ctx, limit)
}

// ItemFailure describes one candidate that was not persisted.
type ItemFailure struct {
	SourceURL string
	Reason    string
}

// Report is what a run hands back to the caller: how many records were
// actually created plus a log of everything skipped or failed.
type Report struct {
	RunID      string
	Created    int
	Duplicates int
	Failures   []ItemFailure
}

// Ingest processes every candidate on the given listing page. Per-item
// faults are contained here, only a failure to obtain or parse the page
// itself propagates. Re-running the same page is safe, previously
// ingested listings are recognized by source url and skipped.
func (s Service) Ingest(ctx context.Context, pageURL string) (Report, error) {
	ctx, span := tracer.Start(ctx, "Ingest")
	defer span.End()

	runId, err := random.String(8)
	if err != nil {
		return Report{}, err
	}
	span.SetAttributes(
		attribute.String("run_id", runId),
		attribute.String("source", s.source.Name()),
		attribute.String("url", pageURL),
	)
	report := Report{RunID: runId}

	candidates, err := s.source.FetchListings(ctx, pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		return report, err
	}

	for _, candidate := range candidates {
		created, err := s.ingestItem(ctx, candidate)
		if err != nil {
			slog.WarnContext(
				ctx, "listing not persisted",
				"run_id", runId,
				"url", candidate.SourceURL,
				"err", err,
			)
			report.Failures = append(report.Failures, ItemFailure{
				SourceURL: candidate.SourceURL,
				Reason:    err.Error(),
			})
			continue
		}
		if created {
			report.Created++
		} else {
			report.Duplicates++
		}
	}

	span.SetAttributes(
		attribute.Int("created", report.Created),
		attribute.Int("duplicates", report.Duplicates),
		attribute.Int("failures", len(report.Failures)),
	)
	slog.InfoContext(
		ctx, "ingest run complete",
		"run_id", runId,
		"url", pageURL,
		"created", report.Created,
		"duplicates", report.Duplicates,
		"failures", len(report.Failures),
	)
	return report, nil
}

// ingestItem commits a single candidate. Returns (false, nil) for
// already-seen listings, (true, nil) for newly created records.
func (s Service) ingestItem(ctx context.Context, candidate models.ListingCandidate) (bool, error) {
	ctx, span := tracer.Start(ctx, "ingestItem")
	defer span.End()
	span.SetAttributes(attribute.String("url", candidate.SourceURL))

	seen, err := s.store.HasVehicleURL(ctx, candidate.SourceURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dedup lookup failed")
		return false, err
	}
	if seen {
		span.AddEvent("duplicate source url")
		return false, nil
	}

	listing := Normalize(candidate)

	engine, err := s.store.GetOrCreateEngine(ctx, listing.EngineName, listing.EnginePower)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve engine")
		return false, err
	}
	transmission, err := s.store.GetOrCreateTransmission(ctx, listing.TransmissionType, listing.TransmissionTitle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve transmission")
		return false, err
	}

	slug, err := AllocateSlug(ctx, s.store, listing.Title, listing.Year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to allocate slug")
		return false, err
	}
	span.SetAttributes(attribute.String("slug", slug))

	imagePath, err := s.fetchImage(ctx, candidate, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch image")
		return false, err
	}

	err = s.store.CreateVehicle(ctx, db.CreateVehicleParams{
		Title:          listing.Title,
		Slug:           slug,
		EngineID:       engine.ID,
		TransmissionID: transmission.ID,
		Drive:          string(listing.Drive),
		FuelType:       listing.FuelType,
		ProductionYear: int64(listing.Year),
		Price:          int64(listing.Price),
		Mileage:        int64(listing.Mileage),
		SourceUrl:      candidate.SourceURL,
		ImagePath:      imagePath,
		CreatedAt:      timezone.Now().Unix(),
	})
	if err != nil {
		// never leave an orphaned asset behind a failed commit
		if imagePath.Valid {
			os.Remove(filepath.Join(s.options.MediaDir, filepath.Base(imagePath.String)))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist vehicle")
		return false, err
	}

	return true, nil
}

// fetchImage retrieves and stores the candidate's thumbnail, returning
// the stored path. Unless missing images are allowed, an absent or
// unfetchable image fails the item.
func (s Service) fetchImage(ctx context.Context, candidate models.ListingCandidate, slug string) (sql.NullString, error) {
	if candidate.ImageURL == "" {
		if !s.options.AllowMissingImage {
			return sql.NullString{}, fmt.Errorf("listing has no image url")
		}
		return sql.NullString{}, nil
	}

	contents, err := s.source.FetchImage(ctx, candidate.ImageURL)
	if err != nil {
		if !s.options.AllowMissingImage {
			return sql.NullString{}, fmt.Errorf("image fetch: %w", err)
		}
		slog.WarnContext(
			ctx, "image fetch failed, persisting without image",
			"url", candidate.ImageURL,
			"err", err,
		)
		return sql.NullString{}, nil
	}

	filename := fmt.Sprintf("%s.jpg", slug)
	err = os.MkdirAll(s.options.MediaDir, 0755)
	if err != nil {
		return sql.NullString{}, err
	}
	err = os.WriteFile(filepath.Join(s.options.MediaDir, filename), contents, 0644)
	if err != nil {
		return sql.NullString{}, err
	}

	return sql.NullString{String: filename, Valid: true}, nil
}
