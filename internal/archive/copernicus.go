package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// CopernicusSource fetches multi-band composites from the Copernicus Data
// Space process API, one scene per aggregation window. A failed window is
// skipped with a warning so a quota hiccup degrades to a data gap instead of
// killing the run.
type CopernicusSource struct {
	DatasetType string
	Resolution  float64
	WindowDays  int
	Retries     int
	cache       *SceneCache
}

func NewCopernicusSource(datasetType string) *CopernicusSource {
	return &CopernicusSource{
		DatasetType: datasetType,
		Resolution:  30,
		WindowDays:  16,
		Retries:     5,
		cache:       NewSceneCache("scenes"),
	}
}

func (s *CopernicusSource) FetchCollection(ctx context.Context, bands []string, region orb.MultiPolygon, from, to time.Time, maxCloud float64) (*raster.Collection, error) {
	coll := &raster.Collection{}
	for start := from; start.Before(to); start = start.AddDate(0, 0, s.WindowDays) {
		end := start.AddDate(0, 0, s.WindowDays)
		if end.After(to) {
			end = to
		}

		path, err := s.fetchScene(ctx, bands, region, start, end, maxCloud)
		if err != nil {
			fmt.Printf("Warning: skipping window %s: %v\n", start.Format("2006-01-02"), err)
			continue
		}
		r, err := ReadGeoTIFF(path, bands)
		if err != nil {
			fmt.Printf("Warning: skipping window %s: %v\n", start.Format("2006-01-02"), err)
			continue
		}
		coll.Add(raster.Scene{
			Raster:     r,
			Timestamp:  windowMidpoint(start, end),
			CloudCover: cloudFraction(r),
		})
	}
	return coll, nil
}

// windowMidpoint is the timestamp attributed to a mosaic window. The mosaic
// blends observations from the whole window; the midpoint is the truest
// single time and keeps a window ending on the 1st from bucketing into the
// next month.
func windowMidpoint(start, end time.Time) time.Time {
	return start.Add(end.Sub(start) / 2)
}

func (s *CopernicusSource) fetchScene(ctx context.Context, bands []string, region orb.MultiPolygon, start, end time.Time, maxCloud float64) (string, error) {
	key := s.cache.GenerateKey(s.DatasetType, strings.Join(bands, "-"), start.Format("2006-01-02"), end.Format("2006-01-02"), region.Bound(), s.Resolution)
	if path, ok := s.cache.Get(key); ok {
		return path, nil
	}

	content, err := s.requestScene(ctx, bands, region, start, end, maxCloud)
	if err != nil {
		return "", err
	}
	return s.cache.Set(key, content)
}

func calculatePixels(distance float64, resolution float64) int {
	pixels := distance * (111_000.0 / resolution)
	if pixels < 1 {
		return 1
	}
	return int(pixels)
}

func (s *CopernicusSource) requestScene(ctx context.Context, bands []string, region orb.MultiPolygon, start, end time.Time, maxCloud float64) ([]byte, error) {
	bound := region.Bound()
	widthPixels := calculatePixels(bound.Max[0]-bound.Min[0], s.Resolution)
	heightPixels := calculatePixels(bound.Max[1]-bound.Min[1], s.Resolution)
	// Clamp to allowed range (1-2500)
	if widthPixels > 2500 {
		widthPixels = 2500
	}
	if heightPixels > 2500 {
		heightPixels = 2500
	}

	quoted := make([]string, len(bands))
	returns := make([]string, len(bands))
	for i, b := range bands {
		quoted[i] = fmt.Sprintf("%q", b)
		returns[i] = fmt.Sprintf("sample.%s", b)
	}
	evalscript := fmt.Sprintf(`
    //VERSION=3
    function setup() {
      return {
        input: [%s],
        output: {
          id: "default",
          bands: %d,
          sampleType: SampleType.FLOAT32,
        },
      }
    }

    function evaluatePixel(sample) {
      return [%s];
    }
  `, strings.Join(quoted, ", "), len(bands), strings.Join(returns, ", "))

	geometryGeojson, err := geojson.NewGeometry(region).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to export geometry to GeoJSON: %w", err)
	}
	var geojsonMap map[string]interface{}
	if err := json.Unmarshal(geometryGeojson, &geojsonMap); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"geometry": geojsonMap,
			},
			"data": []map[string]interface{}{
				{
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": start.Format(time.RFC3339),
							"to":   end.Format(time.RFC3339),
						},
						"maxCloudCoverage": maxCloud * 100,
					},
					"type": s.DatasetType,
				},
			},
		},
		"output": map[string]interface{}{
			"width":  widthPixels,
			"height": heightPixels,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": evalscript,
		"mosaicking": "mostRecent",
	}

	requestBody, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %v", err)
	}

	clientIDs := properties.CopernicusClientID()
	clientSecrets := properties.CopernicusClientSecret()
	tokenURL := properties.CopernicusTokenURL()
	if clientIDs == "" || clientSecrets == "" || tokenURL == "" {
		return nil, fmt.Errorf("missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET, or COPERNICUS_TOKEN_URL")
	}

	clientIDList := strings.Split(clientIDs, ",")
	clientSecretList := strings.Split(clientSecrets, ",")

	var responseContent []byte
	for i, clientID := range clientIDList {
		if i >= len(clientSecretList) {
			return nil, fmt.Errorf("mismatched number of client IDs and secrets")
		}
		config := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecretList[i],
			TokenURL:     tokenURL,
		}
		httpClient := config.Client(ctx)

		url := "https://sh.dataspace.copernicus.eu/api/v1/process"

		var response *http.Response
		for attempt := 1; attempt <= s.Retries; attempt++ {
			var req *http.Request
			req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			response, err = httpClient.Do(req)
			if err == nil && response.StatusCode == http.StatusOK {
				break
			}

			if response != nil {
				body, _ := io.ReadAll(response.Body)
				bodyStr := string(body)
				response.Body.Close()
				response = nil
				if strings.Contains(bodyStr, "403") {
					err = fmt.Errorf("unauthorized access, check your client ID and secret")
					break
				}
				fmt.Printf("Attempt %d failed: %s\n", attempt, bodyStr)
			} else {
				fmt.Printf("Attempt %d failed: %v\n", attempt, err)
			}

			time.Sleep(5 * time.Second)
		}

		if response == nil {
			if err == nil {
				err = fmt.Errorf("failed to request scene after %d attempts", s.Retries)
			}
			continue
		}

		responseContent, err = io.ReadAll(response.Body)
		response.Body.Close()
		if err != nil {
			err = fmt.Errorf("failed to read response body: %v", err)
			continue
		}
		return responseContent, nil
	}

	return nil, err
}

// cloudFraction estimates scene cloudiness as the fraction of pixels flagged
// by the CLD band, when the schema carries one. Scenes without a cloud band
// report 0 and rely on the archive-side maxCloudCoverage filter.
func cloudFraction(r *raster.Raster) float64 {
	buf, err := r.Band("CLD")
	if err != nil {
		return 0
	}
	cloudy, total := 0, 0
	for _, v := range buf {
		if raster.IsNoData(v) {
			continue
		}
		total++
		if v > 0 {
			cloudy++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(cloudy) / float64(total)
}
