package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"forecastapp/forecast"
	"forecastapp/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// HandleGenerateForecastInsights asks Gemini for a qualitative reading of a
// finished evaluation: a summary plus the factors pulling the financial
// outcome up or down.
// POST /api/v1/forecast/insights
func HandleGenerateForecastInsights(c *fiber.Ctx) error {
	var req models.InsightsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if len(req.Results) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "At least one result row is required"})
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Gemini API key is not configured"})
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to initialize Gemini client"})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-1.5-pro-latest")
	prompt := constructInsightsPrompt(req.Granularity, req.Results)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Error from Gemini API: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate insights from AI"})
	}

	analysis, err := parseInsightsResponse(resp)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "success", "data": analysis})
}

// constructInsightsPrompt creates a detailed prompt for the Gemini API.
func constructInsightsPrompt(granularity string, results []forecast.Result) string {
	rowsStr := ""
	for _, r := range results {
		key := "overall"
		if r.Store != nil && r.Item != nil {
			key = fmt.Sprintf("store %d, item %d", *r.Store, *r.Item)
		} else if r.Store != nil {
			key = fmt.Sprintf("store %d", *r.Store)
		}
		rowsStr += fmt.Sprintf("%s: total predicted sales %.0f, average daily %.0f, daily MAE %.0f, total scenario range [%.0f, %.0f]\n",
			key, r.TotalPredictedSales, r.AvgDailyPredictedSales, r.DailyMAE, r.WorstTotalScenario, r.BestTotalScenario)
	}

	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert retail data analyst. Your task is to interpret the financial evaluation of a sales forecast and provide a brief analysis.

        **Evaluation Context:**
        - Reporting granularity: %s
        - Each row shows predicted sales and a worst/best scenario band derived from the daily mean absolute error.

        **Evaluation Results:**
        %s

        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, granularity, rowsStr, jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// parseInsightsResponse parses the JSON from Gemini into a structured analysis.
func parseInsightsResponse(resp *genai.GenerateContentResponse) (*models.AiAnalysis, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content received from AI")
	}

	var geminiText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			geminiText += string(txt)
		}
	}

	if geminiText == "" {
		return nil, fmt.Errorf("no text content received from AI")
	}

	// Clean the response to get only the JSON object
	jsonStr := extractJSON(geminiText)
	if jsonStr == "" {
		log.Printf("Could not extract JSON from Gemini response: %s", geminiText)
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var analysis models.AiAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		log.Printf("Error parsing Gemini JSON: %v\nRaw JSON: %s", err, jsonStr)
		return nil, fmt.Errorf("failed to parse AI analysis data")
	}

	return &analysis, nil
}
