package services

import (
	"strings"
	"testing"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/services/storage"
)

func solverWithSpaces(t *testing.T) *SolverService {
	t.Helper()
	spaces, err := storage.NewSpacesClient(storage.SpacesConfig{
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
		Bucket:    "aceit-test",
		Region:    "fra1",
		Endpoint:  "https://fra1.digitaloceanspaces.com",
	})
	if err != nil {
		t.Fatalf("NewSpacesClient failed: %v", err)
	}
	return &SolverService{spaces: spaces}
}

func TestAttachImageURLFillsTransientField(t *testing.T) {
	s := solverWithSpaces(t)
	query := model.SolverQuery{ImageKey: "solver/1/2026-08-29/q.jpg"}

	s.attachImageURL(&query)

	if query.ImageURL == "" {
		t.Fatal("query with a stored photo got no download URL")
	}
	if !strings.Contains(query.ImageURL, query.ImageKey) {
		t.Errorf("url = %q, want key %q in path", query.ImageURL, query.ImageKey)
	}
}

func TestAttachImageURLSkipsQueriesWithoutPhoto(t *testing.T) {
	s := solverWithSpaces(t)
	query := model.SolverQuery{}

	s.attachImageURL(&query)

	if query.ImageURL != "" {
		t.Errorf("query without a photo got url %q", query.ImageURL)
	}
}

func TestAttachImageURLWithoutStorageConfigured(t *testing.T) {
	s := &SolverService{}
	query := model.SolverQuery{ImageKey: "solver/1/2026-08-29/q.jpg"}

	s.attachImageURL(&query)

	if query.ImageURL != "" {
		t.Errorf("storage-less service produced url %q", query.ImageURL)
	}
}
