package storage

import (
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T) *SpacesClient {
	t.Helper()
	client, err := NewSpacesClient(SpacesConfig{
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
		Bucket:    "aceit-test",
		Region:    "fra1",
		Endpoint:  "https://fra1.digitaloceanspaces.com",
	})
	if err != nil {
		t.Fatalf("NewSpacesClient failed: %v", err)
	}
	return client
}

func TestQuestionImageKey(t *testing.T) {
	key := QuestionImageKey(42, "photo.JPG")
	if !strings.HasPrefix(key, "solver/42/") {
		t.Errorf("key = %q, want solver/42/ prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key = %q, want lowercased .jpg suffix", key)
	}

	if key := QuestionImageKey(7, "noext"); !strings.HasSuffix(key, ".png") {
		t.Errorf("key = %q, want .png default extension", key)
	}
}

func TestQuestionImageKeyUnique(t *testing.T) {
	if QuestionImageKey(1, "a.png") == QuestionImageKey(1, "a.png") {
		t.Error("two keys for the same upload collided")
	}
}

func TestPresignedURLSignsKey(t *testing.T) {
	client := testClient(t)

	url, err := client.PresignedURL("solver/42/2026-08-29/abc.jpg", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignedURL failed: %v", err)
	}
	if !strings.Contains(url, "solver/42/2026-08-29/abc.jpg") {
		t.Errorf("url = %q, want object key in path", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") {
		t.Errorf("url = %q, want a signature parameter", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=900") {
		t.Errorf("url = %q, want 900s expiry", url)
	}
}
