package models

// DefaultYear is assumed whenever a listing title carries no parsable
// production year.
const DefaultYear = 2000

// ListingCandidate is the raw, unvalidated field bundle for a single
// listing item as it appears on a marketplace page, before any
// normalization. Site adapters produce these, the ingest service
// consumes them.
type ListingCandidate struct {
	Title string
	Year  int
	// ordered description strings, conventionally
	// [engine+power, fuel, transmission, drive, mileage], though any
	// suffix may be missing
	Specs     []string
	PriceText string
	// empty when the listing has no thumbnail
	ImageURL string
	// canonical listing url, the dedup key
	SourceURL string
}
