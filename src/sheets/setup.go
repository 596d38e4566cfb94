package sheets

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jiaming2012/financial-scores/src/utils"
)

func setupWithServiceAccount(ctx context.Context, googleSecurityKeyJsonBase64 string) (*sheets.Service, error) {
	// get bytes from base64 encoded google service accounts key
	credBytes, err := base64.StdEncoding.DecodeString(googleSecurityKeyJsonBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to base64 decode googleSecurityKeyJsonBase64: %w", err)
	}

	// authenticate and get configuration
	config, err := google.JWTConfigFromJSON(credBytes, "https://www.googleapis.com/auth/spreadsheets.readonly")
	if err != nil {
		return nil, fmt.Errorf("failed to get config from json: %w", err)
	}

	// create client with config and context
	client := config.Client(ctx)

	// create new service using client
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	return srv, nil
}

func setupWithAPIKey(ctx context.Context, apiKey string) (*sheets.Service, error) {
	srv, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return srv, nil
}

// NewService creates a Sheets API client, preferring the base64 encoded
// service account key when both credentials are set.
func NewService(ctx context.Context, apiKey string, googleSecurityKeyJsonBase64 string) (*sheets.Service, error) {
	if googleSecurityKeyJsonBase64 != "" {
		return setupWithServiceAccount(ctx, googleSecurityKeyJsonBase64)
	}

	if apiKey != "" {
		return setupWithAPIKey(ctx, apiKey)
	}

	return nil, fmt.Errorf("neither GOOGLE_SHEETS_API_KEY nor GOOGLE_SECURITY_KEY_JSON_BASE64 is set")
}

func NewServiceFromEnv(ctx context.Context) (*sheets.Service, error) {
	return NewService(ctx, os.Getenv("GOOGLE_SHEETS_API_KEY"), os.Getenv("GOOGLE_SECURITY_KEY_JSON_BASE64"))
}

// NewClientFromEnv builds the spreadsheet client for the configured
// spreadsheet and sheet tabs.
func NewClientFromEnv(ctx context.Context) (*Client, error) {
	srv, err := NewServiceFromEnv(ctx)
	if err != nil {
		return nil, err
	}

	spreadsheetId, err := utils.GetEnv("SPREADSHEET_ID")
	if err != nil {
		return nil, err
	}

	return NewClient(
		srv,
		spreadsheetId,
		utils.GetEnvWithDefault("ZSCORE_SHEET_NAME", "Zscore"),
		utils.GetEnvWithDefault("FSCORE_SHEET_NAME", "FScore"),
	), nil
}
