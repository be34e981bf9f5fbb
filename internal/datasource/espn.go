package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/1ogcotu/s-b-a/internal/models"
)

const espnSourceName = "espn"

// ESPNClient fetches teams, rosters and per-athlete statistic logs from the
// ESPN core API.
type ESPNClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// TeamData is a normalized team record from the feed.
type TeamData struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AthletesURL string `json:"athletes_url"`
}

// espnRef is a hypermedia reference as returned by the core API.
type espnRef struct {
	Ref string `json:"$ref"`
}

type espnList struct {
	Count int       `json:"count"`
	Items []espnRef `json:"items"`
}

type espnTeam struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Athletes    espnRef `json:"athletes"`
}

type espnAthlete struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
}

type espnStatLog struct {
	Entries []espnStatLogEntry `json:"entries"`
}

type espnStatLogEntry struct {
	Stats []espnStat `json:"stats"`
}

// espnStat carries a stat value either numerically or as a display string;
// some endpoints only populate the latter.
type espnStat struct {
	Name         string   `json:"name"`
	Value        *float64 `json:"value"`
	DisplayValue string   `json:"displayValue"`
}

// NewESPNClient creates a new ESPN core API client.
func NewESPNClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *ESPNClient {
	if baseURL == "" {
		baseURL = "https://sports.core.api.espn.com/v2"
	}
	return &ESPNClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the data source name.
func (c *ESPNClient) Name() string {
	return espnSourceName
}

// FetchTeams retrieves the teams of a league season.
func (c *ESPNClient) FetchTeams(ctx context.Context, sport, league, season string) ([]TeamData, error) {
	url := fmt.Sprintf("%s/sports/%s/leagues/%s/seasons/%s/teams", c.baseURL, sport, league, season)

	var list espnList
	if err := c.getJSON(ctx, url, &list); err != nil {
		return nil, err
	}

	teams := make([]TeamData, 0, len(list.Items))
	for _, item := range list.Items {
		var team espnTeam
		if err := c.getJSON(ctx, item.Ref, &team); err != nil {
			c.logger.WithError(err).WithField("ref", item.Ref).Warn("Skipping team: fetch failed")
			continue
		}
		teams = append(teams, TeamData{
			ID:          team.ID,
			DisplayName: team.DisplayName,
			AthletesURL: team.Athletes.Ref,
		})
	}
	return teams, nil
}

// FetchRoster retrieves the athletes of a team as player contexts.
func (c *ESPNClient) FetchRoster(ctx context.Context, team TeamData) ([]models.PlayerContext, error) {
	if team.AthletesURL == "" {
		return nil, NewDataSourceError(espnSourceName, ErrCodeInvalidData, "team has no athletes reference", nil)
	}

	var list espnList
	if err := c.getJSON(ctx, team.AthletesURL, &list); err != nil {
		return nil, err
	}

	players := make([]models.PlayerContext, 0, len(list.Items))
	for _, item := range list.Items {
		var athlete espnAthlete
		if err := c.getJSON(ctx, item.Ref, &athlete); err != nil {
			c.logger.WithError(err).WithField("ref", item.Ref).Warn("Skipping athlete: fetch failed")
			continue
		}
		players = append(players, models.PlayerContext{
			PlayerID: athlete.ID,
			Name:     athlete.FullName,
			TeamID:   team.ID,
			Position: athlete.Position.Abbreviation,
		})
	}
	return players, nil
}

// GameLog returns the time-ordered per-game values of one statistic for an
// athlete. A statistic absent from the log yields an empty series, not an
// error; the evaluator filters such props out.
func (c *ESPNClient) GameLog(ctx context.Context, sport, league, playerID, statName string) ([]float64, error) {
	url := fmt.Sprintf("%s/sports/%s/leagues/%s/athletes/%s/statisticslog", c.baseURL, sport, league, playerID)

	var log espnStatLog
	if err := c.getJSON(ctx, url, &log); err != nil {
		return nil, err
	}

	var samples []float64
	for _, entry := range log.Entries {
		for _, stat := range entry.Stats {
			if stat.Name != statName {
				continue
			}
			value, err := stat.floatValue()
			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"player": playerID,
					"stat":   statName,
				}).WithError(err).Warn("Dropping unparseable stat value")
				continue
			}
			samples = append(samples, value)
		}
	}
	return samples, nil
}

func (s espnStat) floatValue() (float64, error) {
	if s.Value != nil {
		return *s.Value, nil
	}
	d, err := decimal.NewFromString(s.DisplayValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidData, s.DisplayValue)
	}
	return d.InexactFloat64(), nil
}

func (c *ESPNClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(espnSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(espnSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(espnSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(espnSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(espnSourceName, ErrCodeNotFound, url, nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(espnSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(espnSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}
