package weathertalk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"weather-talk/internal/models"
	"weather-talk/shared/config"
)

// ErrUpstreamUnavailable is returned when Open-Meteo keeps failing or the
// circuit breaker is open.
var ErrUpstreamUnavailable = errors.New("open-meteo unavailable")

// dailyVariables are requested in this order from the forecast endpoint.
var dailyVariables = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"apparent_temperature_max",
	"apparent_temperature_min",
	"precipitation_sum",
	"precipitation_probability_max",
	"wind_speed_10m_max",
	"wind_gusts_10m_max",
	"weathercode",
	"sunshine_duration",
	"sunrise",
	"sunset",
	"daylight_duration",
	"relative_humidity_2m_mean",
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// DailySource yields a daily series ending with the forecast days.
type DailySource interface {
	Daily(ctx context.Context) (*DailyResponse, error)
}

// DailyResponse is the subset of the Open-Meteo forecast response we use.
type DailyResponse struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Timezone  string      `json:"timezone"`
	Daily     DailySeries `json:"daily"`
}

// DailySeries holds one array per variable. Any entry may be null and any
// array may be missing or shorter than Time.
type DailySeries struct {
	Time         []string   `json:"time"`
	TempMax      []*float64 `json:"temperature_2m_max"`
	TempMin      []*float64 `json:"temperature_2m_min"`
	AppMax       []*float64 `json:"apparent_temperature_max"`
	AppMin       []*float64 `json:"apparent_temperature_min"`
	Precip       []*float64 `json:"precipitation_sum"`
	PrecipProb   []*float64 `json:"precipitation_probability_max"`
	WindMax      []*float64 `json:"wind_speed_10m_max"`
	GustMax      []*float64 `json:"wind_gusts_10m_max"`
	WeatherCode  []*int     `json:"weathercode"`
	Sunshine     []*float64 `json:"sunshine_duration"`
	Sunrise      []*string  `json:"sunrise"`
	Sunset       []*string  `json:"sunset"`
	Daylight     []*float64 `json:"daylight_duration"`
	HumidityMean []*float64 `json:"relative_humidity_2m_mean"`
}

// RetryPolicy configures retries on 429 and 5xx responses.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// WeatherClient fetches the daily series for one location from Open-Meteo.
type WeatherClient struct {
	config   *config.OpenMeteoConfig
	location config.LocationConfig
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*http.Response]
	retry    RetryPolicy
	sleepFn  func(time.Duration)
}

// ClientOption configures a WeatherClient.
type ClientOption func(*WeatherClient)

// WithSleepFunc replaces the wait between retries.
func WithSleepFunc(fn func(time.Duration)) ClientOption {
	return func(c *WeatherClient) {
		c.sleepFn = fn
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *WeatherClient) {
		c.client = hc
	}
}

func NewWeatherClient(cfg *config.OpenMeteoConfig, location config.LocationConfig, opts ...ClientOption) *WeatherClient {
	c := &WeatherClient{
		config:   cfg,
		location: location,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        "open-meteo",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     5 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
		retry: RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			MinWait:    500 * time.Millisecond,
			MaxWait:    10 * time.Second,
		},
		sleepFn: time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the request URL for the configured location.
func (w *WeatherClient) URL() string {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(w.location.Latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(w.location.Longitude, 'f', 4, 64))
	params.Set("timezone", "auto")
	params.Set("past_days", strconv.Itoa(w.config.PastDays))
	params.Set("forecast_days", strconv.Itoa(w.config.ForecastDays))
	params.Set("wind_speed_unit", "ms")
	params.Set("daily", strings.Join(dailyVariables, ","))
	return w.config.BaseURL + "?" + params.Encode()
}

// Daily fetches and decodes the daily series.
func (w *WeatherClient) Daily(ctx context.Context) (*DailyResponse, error) {
	u := w.URL()
	log.Printf("Fetching weather data from: %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := w.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	return DecodeDaily(resp.Body)
}

// do sends req through the breaker, retrying 429 and 5xx with backoff.
func (w *WeatherClient) do(req *http.Request) (*http.Response, error) {
	var lastErr error

	attempts := 1 + max(w.retry.MaxRetries, 0)
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err := w.breaker.Execute(func() (*http.Response, error) {
			r, doErr := w.client.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
				return r, fmt.Errorf("upstream returned %d", r.StatusCode)
			}
			return r, nil
		})
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		if req.Context().Err() != nil {
			if resp != nil {
				resp.Body.Close()
			}
			return nil, req.Context().Err()
		}

		wait := w.backoff(attempt, resp)
		if resp != nil {
			resp.Body.Close()
		}
		if attempt < attempts-1 {
			log.Printf("Warning: weather request attempt %d failed: %v (retrying in %v)", attempt+1, err, wait)
			w.sleepFn(wait)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrUpstreamUnavailable, attempts, lastErr)
}

// backoff honours Retry-After in seconds, else exponential with jitter
// clamped to [MinWait, MaxWait].
func (w *WeatherClient) backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
			return min(time.Duration(s)*time.Second, w.retry.MaxWait)
		}
	}

	base := float64(w.retry.MinWait) * math.Pow(2, float64(attempt))
	base = math.Min(base, float64(w.retry.MaxWait))
	lo := float64(w.retry.MinWait)
	if base <= lo {
		return w.retry.MinWait
	}
	return time.Duration(lo + rand.Float64()*(base-lo))
}

// FileSource reads a saved Open-Meteo response from disk.
type FileSource struct {
	Path string
}

func (f FileSource) Daily(ctx context.Context) (*DailyResponse, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weather file: %w", err)
	}
	defer file.Close()

	return DecodeDaily(file)
}

// DecodeDaily parses an Open-Meteo forecast body.
func DecodeDaily(r io.Reader) (*DailyResponse, error) {
	var resp DailyResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(resp.Daily.Time) == 0 {
		return nil, fmt.Errorf("weather response has no daily data")
	}
	return &resp, nil
}

// Location resolves the response timezone, falling back to fallback when
// the name is missing or unknown.
func (d *DailyResponse) Location(fallback *time.Location) *time.Location {
	if d.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		log.Printf("Warning: Failed to load timezone %s, using %s: %v", d.Timezone, fallback, err)
		return fallback
	}
	return loc
}

// Days converts the column arrays into one record per date. Dates and
// clock times are interpreted in loc.
func (d *DailyResponse) Days(loc *time.Location) ([]models.DayRecord, error) {
	s := d.Daily
	days := make([]models.DayRecord, len(s.Time))

	for i, raw := range s.Time {
		date, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", raw, err)
		}

		days[i] = models.DayRecord{
			Date:         date,
			Max:          at(s.TempMax, i),
			Min:          at(s.TempMin, i),
			AppMax:       at(s.AppMax, i),
			AppMin:       at(s.AppMin, i),
			Rain:         at(s.Precip, i),
			RainProb:     at(s.PrecipProb, i),
			WindMax:      at(s.WindMax, i),
			GustMax:      at(s.GustMax, i),
			Code:         at(s.WeatherCode, i),
			SunshineSec:  at(s.Sunshine, i),
			Sunrise:      clockAt(s.Sunrise, i, loc),
			Sunset:       clockAt(s.Sunset, i, loc),
			DaylightSec:  at(s.Daylight, i),
			HumidityMean: at(s.HumidityMean, i),
		}
	}
	return days, nil
}

// BuildContext picks today as the first forecast day.
func BuildContext(days []models.DayRecord, forecastDays int) (*models.WeatherContext, error) {
	return models.NewWeatherContext(days, len(days)-forecastDays)
}

func at[T any](col []*T, i int) *T {
	if i >= len(col) {
		return nil
	}
	return col[i]
}

func clockAt(col []*string, i int, loc *time.Location) *time.Time {
	raw := at(col, i)
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateTimeLayout, *raw, loc)
	if err != nil {
		log.Printf("Warning: Failed to parse time %s: %v", *raw, err)
		return nil
	}
	return &t
}
