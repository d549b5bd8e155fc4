package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SupabaseStorage uploads diff artifacts to a Supabase Storage bucket
type SupabaseStorage struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

func NewStorageService(
	baseURL string,
	apiKey string,
	bucket string,
) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
		httpClient: http.DefaultClient,
	}
}

func (s *SupabaseStorage) Upload(
	ctx context.Context,
	path string,
	file io.Reader,
	contentType string,
) error {

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/storage/v1/object/"+s.bucket+"/"+strings.TrimLeft(path, "/"),
		file,
	)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("storage upload failed with status %d", resp.StatusCode)
	}

	return nil
}
