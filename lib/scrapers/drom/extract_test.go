package drom

import (
	"strings"
	"testing"

	"autolot-backend/pkg/models"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/bulls.html
var bullsPage string

func parsePage(t *testing.T, contents string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtract(t *testing.T) {
	doc := parsePage(t, bullsPage)

	expected := []models.ListingCandidate{
		{
			Title: "Ford Focus",
			Year:  2015,
			Specs: []string{
				"2.0 (150 л.с.)",
				"бензин",
				"АКПП",
				"передний",
				"45000 км",
			},
			PriceText: "750 000 ₸",
			ImageURL:  "https://s.auto.drom.ru/photo/500001/gen1200.jpg",
			SourceURL: "https://auto.drom.ru/ford/focus/500001.html",
		},
		{
			// no comma in the title, year falls back
			Title:     "Ford Mondeo",
			Year:      2000,
			SourceURL: "https://auto.drom.ru/ford/mondeo/500003.html",
		},
		{
			Title: "Ford Explorer",
			Year:  2018,
			Specs: []string{
				"3.5 (249 л.с.)",
				"бензин",
				"АКПП",
				"4WD",
			},
			PriceText: "5 100 000 ₸",
			SourceURL: "https://auto.drom.ru/ford/explorer/500004.html",
		},
	}

	got := Extract(doc)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("extracted candidates mismatch (-want +got):\n%s", diff)
	}
}

// the item without a title anchor must vanish from the sequence, not
// surface as an error
func TestExtractSkipsItemsWithoutTitle(t *testing.T) {
	doc := parsePage(t, bullsPage)

	got := Extract(doc)
	require.Len(t, got, 3)
	for _, c := range got {
		require.NotEmpty(t, c.SourceURL)
		require.NotEmpty(t, c.Title)
	}
}

func TestExtractIsRestartable(t *testing.T) {
	doc := parsePage(t, bullsPage)

	first := Extract(doc)
	second := Extract(doc)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("re-extraction diverged (-first +second):\n%s", diff)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	doc := parsePage(t, "<html><body><p>ничего не найдено</p></body></html>")
	require.Empty(t, Extract(doc))
}

func TestSplitTitleYear(t *testing.T) {
	testCases := []struct {
		title        string
		expectedName string
		expectedYear int
	}{
		{"Ford Focus, 2015", "Ford Focus", 2015},
		{"Ford Mondeo", "Ford Mondeo", 2000},
		{"Ford Explorer, 2018г.", "Ford Explorer", 2018},
		{"Toyota Mark II, Tourer V, 1998", "Toyota Mark II, Tourer V", 1998},
		{"Honda Fit, без года", "Honda Fit", 2000},
	}

	for _, test := range testCases {
		name, year := splitTitleYear(test.title)
		require.Equal(t, test.expectedName, name, "title: %q", test.title)
		require.Equal(t, test.expectedYear, year, "title: %q", test.title)
	}
}
