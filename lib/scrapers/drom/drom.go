package drom

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"autolot-backend/lib/restyutil"
	"autolot-backend/lib/telemetry"
	"autolot-backend/pkg/models"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/drom")

type Client struct {
	http         *resty.Client
	imageTimeout time.Duration
}

type ClientOptions struct {
	// timeout for fetching a whole listing page, defaults to 30s
	PageTimeout time.Duration
	// timeout for a single image fetch attempt, defaults to 10s
	ImageTimeout time.Duration
	// when set, raw http traffic is dumped here under debug logging
	DebugOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.PageTimeout == 0 {
		opts.PageTimeout = time.Second * 30
	}
	if opts.ImageTimeout == 0 {
		opts.ImageTimeout = time.Second * 10
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(opts.PageTimeout)

	telemetry.InstrumentResty(client, "scrapers/drom/http")
	restyutil.InstrumentDebugOutput(client, opts.DebugOutput)

	return &Client{
		http:         client,
		imageTimeout: opts.ImageTimeout,
	}, nil
}

func (c *Client) Name() string {
	return "drom"
}

// FetchListings downloads one listing page and extracts every candidate
// on it. Transport errors, non-200 statuses and unparsable documents
// are fatal to the whole run, no candidates can be produced from a page
// that never arrived.
func (c *Client) FetchListings(ctx context.Context, pageURL string) ([]models.ListingCandidate, error) {
	ctx, span := tracer.Start(ctx, "FetchListings")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageURL))

	res, err := c.http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err := fmt.Errorf("listing page returned status %d", res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	candidates := Extract(doc)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, nil
}

// FetchImage downloads a listing thumbnail with a single bounded-time
// attempt. Failures are soft, the coordinator decides what to do with
// the affected item.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.imageTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		Get(imageURL)
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("image returned status %d", res.StatusCode())
	}
	return res.Body(), nil
}
