package daylight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const openMeteoAPIBase = "https://api.open-meteo.com/v1/forecast"

// OpenMeteo fetches sunrise/sunset times from the Open-Meteo forecast API.
// No API key is required.
type OpenMeteo struct {
	baseURL    string
	httpClient *http.Client
	latitude   float64
	longitude  float64
	location   *time.Location
}

// NewOpenMeteo creates an Open-Meteo daylight provider for a location.
// Returned sun times are expressed in loc, which is also sent to the API as
// the timezone parameter.
func NewOpenMeteo(lat, lon float64, loc *time.Location) *OpenMeteo {
	return &OpenMeteo{
		baseURL:    openMeteoAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		latitude:   lat,
		longitude:  lon,
		location:   loc,
	}
}

// openMeteoResponse is the subset of the API response we care about.
type openMeteoResponse struct {
	Daily struct {
		Time    []string `json:"time"`
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

// SunTimes fetches sunrise and sunset for the day containing date.
func (c *OpenMeteo) SunTimes(ctx context.Context, date time.Time) (SunTimes, error) {
	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%.4f", c.latitude))
	params.Add("longitude", fmt.Sprintf("%.4f", c.longitude))
	params.Add("daily", "sunrise,sunset")
	params.Add("timezone", c.location.String())
	params.Add("start_date", date.In(c.location).Format("2006-01-02"))
	params.Add("end_date", date.In(c.location).Format("2006-01-02"))

	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return SunTimes{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SunTimes{}, fmt.Errorf("fetching sun times: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return SunTimes{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var meteoResp openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&meteoResp); err != nil {
		return SunTimes{}, fmt.Errorf("decoding response: %w", err)
	}

	if len(meteoResp.Daily.Sunrise) == 0 || len(meteoResp.Daily.Sunset) == 0 {
		return SunTimes{}, fmt.Errorf("response contains no sunrise/sunset data")
	}

	// Open-Meteo returns local wall-clock times like "2025-11-13T07:15".
	sunrise, err := time.ParseInLocation("2006-01-02T15:04", meteoResp.Daily.Sunrise[0], c.location)
	if err != nil {
		return SunTimes{}, fmt.Errorf("parsing sunrise %q: %w", meteoResp.Daily.Sunrise[0], err)
	}
	sunset, err := time.ParseInLocation("2006-01-02T15:04", meteoResp.Daily.Sunset[0], c.location)
	if err != nil {
		return SunTimes{}, fmt.Errorf("parsing sunset %q: %w", meteoResp.Daily.Sunset[0], err)
	}

	return SunTimes{Sunrise: sunrise, Sunset: sunset}, nil
}
