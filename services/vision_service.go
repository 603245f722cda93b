package services

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// DefectAnalysis is the structured result of analyzing a hardware photo
type DefectAnalysis struct {
	DefectDetected     bool   `json:"defect_detected"`
	DefectType         string `json:"defect_type"`
	Severity           string `json:"severity"` // Low, Medium or High
	AffectedComponents string `json:"affected_components"`
}

// VisionService analyzes photos of laptop hardware for visible defects
type VisionService interface {
	// AnalyzeDefects inspects the image and returns a structured defect report
	AnalyzeDefects(ctx context.Context, imageBytes []byte, contentType string) (*DefectAnalysis, error)
}

const defectPrompt = `Analyze this image of a computer/laptop hardware component.
Identify any visible defects such as cracks, burns, liquid damage, or other physical issues.
Provide a concise report with:
1. Defect detected (true/false)
2. Type of defect if present
3. Severity (Low/Medium/High)
4. Likely affected components
Respond in JSON format with these keys: defect_detected (boolean), defect_type (string), severity (string), affected_components (string)`

// GeminiVisionService implements VisionService on the Gemini multimodal API
type GeminiVisionService struct {
	client *genai.Client
	model  string
}

var visionServiceInstance VisionService

// InitVisionService initializes the vision service with the Gemini backend
func InitVisionService(apiKey string) (VisionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	visionServiceInstance = &GeminiVisionService{
		client: client,
		model:  "gemini-2.0-flash",
	}
	return visionServiceInstance, nil
}

// GetVisionService returns the initialized vision service instance
func GetVisionService() VisionService {
	return visionServiceInstance
}

// SetVisionService sets the vision service instance (primarily for testing)
func SetVisionService(service VisionService) {
	visionServiceInstance = service
}

// AnalyzeDefects sends the photo and the defect prompt to the model and
// decodes its JSON verdict
func (s *GeminiVisionService) AnalyzeDefects(ctx context.Context, imageBytes []byte, contentType string) (*DefectAnalysis, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(defectPrompt),
		genai.NewPartFromBytes(imageBytes, contentType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(0.3)),
		MaxOutputTokens:  1024,
	})
	if err != nil {
		return nil, fmt.Errorf("image analysis failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("image analysis returned no content")
	}

	var analysis DefectAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}

	return &analysis, nil
}
