package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mwantia/bingwall/pkg/errs"
	"github.com/mwantia/bingwall/pkg/fetch"
	"github.com/mwantia/bingwall/pkg/log"
)

const (
	apiDateLayout  = "20060102"
	fileDateLayout = "2006-01-02"
)

type APIQuery struct {
	Resolution string
	Region     string
	// Index counts back from today: 0 is today, 1 yesterday.
	Index int
}

type apiResponse struct {
	URL       string `json:"url"`
	Copyright string `json:"copyright"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// APIResolver queries a third-party JSON endpoint that mirrors the daily image.
type APIResolver struct {
	fetcher  fetch.Fetcher
	endpoint string
	query    APIQuery
	log      log.LoggerService
}

func NewAPIResolver(fetcher fetch.Fetcher, endpoint string, query APIQuery, logger log.LoggerService) *APIResolver {
	return &APIResolver{
		fetcher:  fetcher,
		endpoint: endpoint,
		query:    query,
		log:      logger,
	}
}

func (r *APIResolver) Resolve(ctx context.Context) (*Wallpaper, error) {
	requestURL, err := r.requestURL()
	if err != nil {
		return nil, errs.NewParse("build api url", err)
	}

	body, err := r.fetcher.Fetch(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query api: %w", err)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errs.NewParse("decode api response", err)
	}
	if resp.URL == "" {
		return nil, errs.NewParse("decode api response", fmt.Errorf("missing field 'url'"))
	}

	date, err := time.Parse(apiDateLayout, resp.StartDate)
	if err != nil {
		return nil, errs.NewParse("decode api response", fmt.Errorf("invalid start_date %q: %w", resp.StartDate, err))
	}

	wallpaper := &Wallpaper{
		URL:       resp.URL,
		Copyright: resp.Copyright,
		Date:      date.Format(fileDateLayout),
	}

	r.log.Info("Found %s wallpaper via API: %s", wallpaper.Date, wallpaper.Copyright)
	return wallpaper, nil
}

func (r *APIResolver) requestURL() (string, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return "", err
	}

	params := u.Query()
	params.Set("resolution", r.query.Resolution)
	params.Set("format", "json")
	params.Set("index", strconv.Itoa(r.query.Index))
	params.Set("mkt", r.query.Region)
	u.RawQuery = params.Encode()

	return u.String(), nil
}
