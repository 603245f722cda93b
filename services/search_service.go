package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServiceCenter is one authorized service center found for a brand/location
type ServiceCenter struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Link    string `json:"link"`
}

// SearchService finds authorized service centers near a location
type SearchService interface {
	FindServiceCenters(ctx context.Context, brand, location string) ([]ServiceCenter, error)
}

// maxServiceCenters limits how many results the portal shows
const maxServiceCenters = 3

// SerperSearchService implements SearchService on the Serper web-search API
type SerperSearchService struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

var searchServiceInstance SearchService

// InitSearchService initializes the search service with the Serper backend
func InitSearchService(apiKey string) SearchService {
	searchServiceInstance = &SerperSearchService{
		apiKey:   apiKey,
		endpoint: "https://google.serper.dev/search",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	return searchServiceInstance
}

// GetSearchService returns the initialized search service instance
func GetSearchService() SearchService {
	return searchServiceInstance
}

// SetSearchService sets the search service instance (primarily for testing)
func SetSearchService(service SearchService) {
	searchServiceInstance = service
}

// serperRequest is the search query payload
type serperRequest struct {
	Query       string `json:"q"`
	Geolocation string `json:"gl"`
	Language    string `json:"hl"`
}

// serperResponse holds the organic results we care about
type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
}

// FindServiceCenters searches for authorized service centers and keeps
// results whose address mentions the requested location, up to three.
func (s *SerperSearchService) FindServiceCenters(ctx context.Context, brand, location string) ([]ServiceCenter, error) {
	payload := serperRequest{
		Query:       fmt.Sprintf("%s authorized service centers in %s, India", brand, location),
		Geolocation: "in",
		Language:    "en",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call search API: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	centers := []ServiceCenter{}
	for _, organic := range result.Organic {
		// The address is the part of the snippet before the first separator
		address := strings.TrimSpace(strings.SplitN(organic.Snippet, "·", 2)[0])
		if !strings.Contains(strings.ToLower(address), strings.ToLower(location)) {
			continue
		}
		centers = append(centers, ServiceCenter{
			Name:    organic.Title,
			Address: address,
			Phone:   extractPhone(organic.Snippet),
			Link:    organic.Link,
		})
		if len(centers) == maxServiceCenters {
			break
		}
	}

	return centers, nil
}

// extractPhone pulls a phone number out of a result snippet.
// TODO: parse real numbers out of the snippet; search snippets rarely
// carry them, so for now this returns a placeholder.
func extractPhone(snippet string) string {
	return "Phone number"
}
