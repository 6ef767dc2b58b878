// Package adapter implements the catalog source against external
// metadata providers.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	retry "github.com/avast/retry-go/v4"
	"golang.org/x/oauth2"

	"showgap/internal/domain"
)

const defaultTMDBBaseURL = "https://api.themoviedb.org/3"

// TMDBAdapter implements domain.CatalogSource against the TMDB v3 API.
// Authentication is either a v3 API key passed as a query parameter or a
// v4 read access token sent as a bearer header through an oauth2 client.
type TMDBAdapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTMDBAdapter creates an adapter authenticating with a v3 API key
func NewTMDBAdapter(apiKey string) *TMDBAdapter {
	return &TMDBAdapter{
		baseURL: defaultTMDBBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewTMDBAdapterWithToken creates an adapter authenticating with a v4
// read access token. The oauth2 transport attaches the bearer header to
// every request.
func NewTMDBAdapterWithToken(readToken string) *TMDBAdapter {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: readToken})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = 10 * time.Second
	return &TMDBAdapter{
		baseURL:    defaultTMDBBaseURL,
		httpClient: client,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (a *TMDBAdapter) SetBaseURL(baseURL string) {
	a.baseURL = baseURL
}

// FetchShow retrieves a show with its seasons, per-season episode air
// dates, and streaming provider availability. All failures are reported
// as CatalogUnavailable so callers can fall back to cached data.
func (a *TMDBAdapter) FetchShow(ctx context.Context, showID string) (*domain.Show, error) {
	detail, err := a.fetchShowDetail(ctx, showID)
	if err != nil {
		return nil, domain.NewCatalogUnavailable(showID, err)
	}

	show := &domain.Show{
		ID:     showID,
		Name:   detail.Name,
		Status: mapStatus(detail.Status),
	}

	for _, s := range detail.Seasons {
		// Season 0 holds specials on TMDB; they have no release cadence
		if s.SeasonNumber == 0 {
			continue
		}
		season, err := a.fetchSeason(ctx, showID, s.SeasonNumber)
		if err != nil {
			return nil, domain.NewCatalogUnavailable(showID, err)
		}
		show.Seasons = append(show.Seasons, season)
	}
	sort.Slice(show.Seasons, func(i, j int) bool {
		return show.Seasons[i].SeasonNumber < show.Seasons[j].SeasonNumber
	})

	// The highest-numbered season of an ongoing show is the current one
	if show.Status == domain.StatusOngoing && len(show.Seasons) > 0 {
		show.Seasons[len(show.Seasons)-1].IsCurrentSeason = true
	}

	providers, err := a.fetchProviders(ctx, showID)
	if err != nil {
		return nil, domain.NewCatalogUnavailable(showID, err)
	}
	show.Providers = providers

	return show, nil
}

type showDetail struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Seasons []struct {
		SeasonNumber int `json:"season_number"`
	} `json:"seasons"`
}

func (a *TMDBAdapter) fetchShowDetail(ctx context.Context, showID string) (*showDetail, error) {
	var detail showDetail
	if err := a.getJSON(ctx, fmt.Sprintf("/tv/%s", showID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (a *TMDBAdapter) fetchSeason(ctx context.Context, showID string, seasonNumber int) (domain.Season, error) {
	var result struct {
		Episodes []struct {
			EpisodeNumber int    `json:"episode_number"`
			AirDate       string `json:"air_date"`
			Runtime       int    `json:"runtime"`
		} `json:"episodes"`
	}

	path := fmt.Sprintf("/tv/%s/season/%d", showID, seasonNumber)
	if err := a.getJSON(ctx, path, &result); err != nil {
		return domain.Season{}, err
	}

	season := domain.Season{
		ShowID:       showID,
		SeasonNumber: seasonNumber,
	}
	seasonID := domain.SeasonID(showID, seasonNumber)

	for _, ep := range result.Episodes {
		episode := domain.Episode{
			SeasonID:       seasonID,
			EpisodeNumber:  ep.EpisodeNumber,
			RuntimeMinutes: ep.Runtime,
		}
		// TMDB returns an empty air_date for unannounced episodes
		if ep.AirDate != "" {
			d, err := time.Parse("2006-01-02", ep.AirDate)
			if err != nil {
				return domain.Season{}, fmt.Errorf("bad air date %q for s%de%d: %w",
					ep.AirDate, seasonNumber, ep.EpisodeNumber, err)
			}
			episode.AirDate = &d
		}
		season.Episodes = append(season.Episodes, episode)
	}

	return season, nil
}

func (a *TMDBAdapter) fetchProviders(ctx context.Context, showID string) ([]domain.ProviderAvailability, error) {
	var result struct {
		Results map[string]struct {
			Flatrate []struct {
				ProviderName string `json:"provider_name"`
			} `json:"flatrate"`
		} `json:"results"`
	}

	if err := a.getJSON(ctx, fmt.Sprintf("/tv/%s/watch/providers", showID), &result); err != nil {
		return nil, err
	}

	var providers []domain.ProviderAvailability
	for country, entry := range result.Results {
		for _, p := range entry.Flatrate {
			providers = append(providers, domain.ProviderAvailability{
				ServiceID: p.ProviderName,
				Country:   country,
			})
		}
	}
	sort.Slice(providers, func(i, j int) bool {
		if providers[i].Country != providers[j].Country {
			return providers[i].Country < providers[j].Country
		}
		return providers[i].ServiceID < providers[j].ServiceID
	})
	return providers, nil
}

// getJSON performs an authenticated GET with bounded retries for
// transient failures and decodes the JSON response into out
func (a *TMDBAdapter) getJSON(ctx context.Context, path string, out interface{}) error {
	u := a.baseURL + path
	if a.apiKey != "" {
		u += "?api_key=" + url.QueryEscape(a.apiKey)
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}

			resp, err := a.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to execute request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return retry.Unrecoverable(fmt.Errorf("tmdb returned status 404 for %s", path))
			}
			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("tmdb returned status %d: %s", resp.StatusCode, string(body))
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

// mapStatus converts TMDB's status strings to the domain show status
func mapStatus(status string) domain.ShowStatus {
	switch status {
	case "Ended", "Canceled":
		return domain.StatusEnded
	default:
		return domain.StatusOngoing
	}
}
