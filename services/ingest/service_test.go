package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autolot-backend/lib/scrapers/drom"
	"autolot-backend/lib/testutil"
	"autolot-backend/services/ingest/db"

	"github.com/stretchr/testify/require"
)

type pageItem struct {
	title string
	href  string
	image string
	specs []string
	price string
}

func (item pageItem) html() string {
	var b strings.Builder
	b.WriteString(`<div data-ftid="bulls-list_bull">`)
	fmt.Fprintf(&b, `<a data-ftid="bull_title" href="%s">%s</a>`, item.href, item.title)
	if item.image != "" {
		fmt.Fprintf(&b, `<img src="%s">`, item.image)
	}
	for _, spec := range item.specs {
		fmt.Fprintf(&b, `<span data-ftid="bull_description-item">%s</span>`, spec)
	}
	if item.price != "" {
		fmt.Fprintf(&b, `<span data-ftid="bull_price">%s</span>`, item.price)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// marketplace is a throwaway listing site: one page of items and an
// image endpoint. Paths under /broken/ respond 404 so image fetch
// failures can be provoked per item. Items are assigned after the
// server is up so they can reference its url.
type marketplace struct {
	*httptest.Server
	items []pageItem
}

func newMarketplace(t *testing.T) *marketplace {
	m := &marketplace{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/broken/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/images/") {
			w.Write([]byte("jpeg bytes"))
			return
		}

		var b strings.Builder
		b.WriteString("<html><body>")
		for _, item := range m.items {
			b.WriteString(item.html())
		}
		b.WriteString("</body></html>")
		w.Write([]byte(b.String()))
	}))
	t.Cleanup(m.Close)
	return m
}

func setupService(t *testing.T, options ServiceOptions) Service {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "ingest",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	source, err := drom.NewClient(drom.ClientOptions{})
	require.NoError(t, err)

	if options.MediaDir == "" {
		options.MediaDir = t.TempDir()
	}
	return NewService(NewStore(result.DB), source, options)
}

func TestIngest(t *testing.T) {
	m := newMarketplace(t)
	m.items = []pageItem{
		{
			title: "Ford Focus, 2015",
			href:  m.URL + "/bull/1",
			image: m.URL + "/images/1.jpg",
			specs: []string{"2.0 (150 л.с.)", "бензин", "АКПП", "передний", "45000"},
			price: "750 000 ₸",
		},
		{
			title: "Ford Mondeo, 2012",
			href:  m.URL + "/bull/2",
			image: m.URL + "/images/2.jpg",
			specs: []string{"2.3 (161 л.с.)", "бензин", "АКПП", "передний", "98000"},
			price: "4 200 000 ₸",
		},
	}
	mediaDir := t.TempDir()
	service := setupService(t, ServiceOptions{MediaDir: mediaDir})

	report, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 2, report.Created)
	require.Equal(t, 0, report.Duplicates)
	require.Empty(t, report.Failures)
	require.NotEmpty(t, report.RunID)

	vehicle, err := service.store.GetVehicleBySlug(context.Background(), "ford-focus-2015")
	require.NoError(t, err)
	require.Equal(t, "Ford Focus", vehicle.Title)
	require.Equal(t, int64(2015), vehicle.ProductionYear)
	require.Equal(t, int64(750000), vehicle.Price)
	require.Equal(t, int64(45000), vehicle.Mileage)
	require.Equal(t, "front", vehicle.Drive)
	require.Equal(t, "бензин", vehicle.FuelType)
	require.True(t, vehicle.ImagePath.Valid)

	contents, err := os.ReadFile(filepath.Join(mediaDir, vehicle.ImagePath.String))
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg bytes"), contents)
}

func TestIngestIsIdempotent(t *testing.T) {
	m := newMarketplace(t)
	m.items = []pageItem{{
		title: "Ford Focus, 2015",
		href:  m.URL + "/bull/1",
		image: m.URL + "/images/1.jpg",
		specs: []string{"2.0 (150 л.с.)", "бензин", "АКПП", "передний", "45000"},
		price: "750 000 ₸",
	}}
	service := setupService(t, ServiceOptions{})

	first, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 1, first.Created)

	second, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 0, second.Created)
	require.Equal(t, 1, second.Duplicates)

	count, err := service.store.CountVehicles(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestIngestSlugCollision(t *testing.T) {
	m := newMarketplace(t)
	m.items = []pageItem{
		{
			title: "Ford Focus, 2015",
			href:  m.URL + "/bull/1",
			image: m.URL + "/images/1.jpg",
			specs: []string{"2.0 (150 л.с.)", "бензин", "АКПП", "передний", "45000"},
		},
		{
			title: "Ford Focus, 2015",
			href:  m.URL + "/bull/2",
			image: m.URL + "/images/2.jpg",
			specs: []string{"1.6 (105 л.с.)", "бензин", "механика", "передний", "120000"},
		},
	}
	service := setupService(t, ServiceOptions{})

	report, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 2, report.Created)

	_, err = service.store.GetVehicleBySlug(context.Background(), "ford-focus-2015")
	require.NoError(t, err)
	_, err = service.store.GetVehicleBySlug(context.Background(), "ford-focus-2015-1")
	require.NoError(t, err)
}

// one item's image endpoint is broken, the rest of the run proceeds
func TestIngestImageFailureIsContained(t *testing.T) {
	m := newMarketplace(t)
	m.items = []pageItem{
		{
			title: "Ford Focus, 2015",
			href:  m.URL + "/bull/1",
			image: m.URL + "/broken/1.jpg",
			specs: []string{"2.0 (150 л.с.)", "бензин", "АКПП", "передний", "45000"},
		},
		{
			title: "Ford Mondeo, 2012",
			href:  m.URL + "/bull/2",
			image: m.URL + "/images/2.jpg",
			specs: []string{"2.3 (161 л.с.)", "бензин", "АКПП", "передний", "98000"},
		},
	}
	service := setupService(t, ServiceOptions{})

	report, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	require.Len(t, report.Failures, 1)
	require.Equal(t, m.URL+"/bull/1", report.Failures[0].SourceURL)

	count, err := service.store.CountVehicles(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

// with zero-value options an image-less listing is not persisted, the
// historical strict policy is the default
func TestIngestDefaultRequiresImage(t *testing.T) {
	m := newMarketplace(t)
	m.items = []pageItem{{
		title: "Ford Mondeo, 2012",
		href:  m.URL + "/bull/1",
		specs: []string{"2.3 (161 л.с.)", "бензин", "АКПП", "передний", "98000"},
	}}
	service := setupService(t, ServiceOptions{})

	report, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 0, report.Created)
	require.Len(t, report.Failures, 1)
	require.Equal(t, m.URL+"/bull/1", report.Failures[0].SourceURL)

	count, err := service.store.CountVehicles(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestIngestWithoutImageRequirement(t *testing.T) {
	m := newMarketplace(t)
	m.items = []pageItem{{
		title: "Ford Mondeo, 2012",
		href:  m.URL + "/bull/1",
		specs: []string{"2.3 (161 л.с.)", "бензин", "АКПП", "передний", "98000"},
	}}
	service := setupService(t, ServiceOptions{AllowMissingImage: true})

	report, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	require.Empty(t, report.Failures)

	vehicle, err := service.store.GetVehicleBySlug(context.Background(), "ford-mondeo-2012")
	require.NoError(t, err)
	require.False(t, vehicle.ImagePath.Valid)
}

// both listings report the same engine spec, only one engine row exists
func TestIngestSharesEngines(t *testing.T) {
	m := newMarketplace(t)
	m.items = []pageItem{
		{
			title: "Ford Focus, 2015",
			href:  m.URL + "/bull/1",
			image: m.URL + "/images/1.jpg",
			specs: []string{"2.0 (150 л.с.)", "бензин", "АКПП", "передний", "45000"},
		},
		{
			title: "Ford Kuga, 2016",
			href:  m.URL + "/bull/2",
			image: m.URL + "/images/2.jpg",
			specs: []string{"2.0 (150 л.с.)", "дизель", "механика", "полный", "61000"},
		},
	}
	service := setupService(t, ServiceOptions{})

	report, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.NoError(t, err)
	require.Equal(t, 2, report.Created)

	engines, err := service.store.CountEngines(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), engines)
}

func TestIngestFailsOnUnreachablePage(t *testing.T) {
	m := newMarketplace(t)
	service := setupService(t, ServiceOptions{})
	m.Close()

	_, err := service.Ingest(context.Background(), m.URL+"/bulls")
	require.Error(t, err)
}
