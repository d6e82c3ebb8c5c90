package ingest

import (
	"context"
	"fmt"
	"strconv"

	"autolot-backend/lib/textutil"
)

// AllocateSlug derives a url-safe identifier from a vehicle's name and
// year and resolves collisions against already-committed records by
// appending -1, -2, … to the base. Correct only under the coordinator's
// one-item-at-a-time discipline, concurrent allocation would need
// external serialization.
func AllocateSlug(ctx context.Context, store Store, name string, year int) (string, error) {
	base := textutil.Slugify(name, strconv.Itoa(year))

	slug := base
	for counter := 1; ; counter++ {
		exists, err := store.HasSlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
