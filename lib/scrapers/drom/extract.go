package drom

import (
	"strings"

	"autolot-backend/lib/htmlutil"
	"autolot-backend/lib/textutil"
	"autolot-backend/pkg/models"

	"github.com/PuerkitoBio/goquery"
)

// structural markers of a drom listing page, a fixed contract with the
// external markup. when drom changes these, extraction silently yields
// nothing and the markers need revisiting
const (
	itemSelector  = `div[data-ftid="bulls-list_bull"]`
	titleSelector = `a[data-ftid="bull_title"]`
	specSelector  = `span[data-ftid="bull_description-item"]`
	priceSelector = `span[data-ftid="bull_price"]`
)

// Extract walks one parsed listing page and yields a candidate per item
// container, in source order. It is a pure function of the document,
// re-extracting the same page yields the same sequence. Items without a
// title link are unrecoverable and skipped silently.
func Extract(doc *goquery.Document) []models.ListingCandidate {
	var candidates []models.ListingCandidate

	doc.Find(itemSelector).Each(func(_ int, item *goquery.Selection) {
		link := item.Find(titleSelector).First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}

		name, year := splitTitleYear(htmlutil.Text(link))

		var specs []string
		item.Find(specSelector).Each(func(_ int, spec *goquery.Selection) {
			specs = append(specs, htmlutil.Text(spec))
		})

		imageURL, _ := item.Find("img").First().Attr("src")

		candidates = append(candidates, models.ListingCandidate{
			Title:     name,
			Year:      year,
			Specs:     specs,
			PriceText: htmlutil.Text(item.Find(priceSelector).First()),
			ImageURL:  imageURL,
			SourceURL: href,
		})
	})

	return candidates
}

// splitTitleYear splits "Ford Focus, 2015" on the last comma into the
// name and the production year. No comma, or a tail without digits,
// falls back to the default year.
func splitTitleYear(title string) (string, int) {
	idx := strings.LastIndex(title, ",")
	if idx < 0 {
		return strings.TrimSpace(title), models.DefaultYear
	}

	name := strings.TrimSpace(title[:idx])
	year := textutil.DigitFilter(title[idx+1:])
	if year == 0 {
		year = models.DefaultYear
	}
	return name, year
}
