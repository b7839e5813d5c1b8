package submission

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"hashlife_backend/internal/chat/domain"

	"github.com/google/uuid"
)

type fakeObjectStore struct {
	bucket  string
	fileKey string
	body    []byte
}

func (s *fakeObjectStore) UploadFile(_ context.Context, bucket, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.bucket = bucket
	s.fileKey = folder + "/" + fileName
	s.body = data
	return s.fileKey, nil
}

func (s *fakeObjectStore) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s.body))), nil
}

func (s *fakeObjectStore) EnsureBucketExists(context.Context, string) error { return nil }

func TestArchiveWritesTranscriptDocument(t *testing.T) {
	store := &fakeObjectStore{}
	a := NewTranscriptArchiver(store, "chat-transcripts")
	sessionID := uuid.New()

	messages := []domain.Message{
		domain.NewAgentMessage("Hi there", nil),
		domain.NewUserMessage("Get Started"),
	}

	if err := a.Archive(context.Background(), sessionID, 85, "High", messages); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if store.bucket != "chat-transcripts" {
		t.Fatalf("unexpected bucket %q", store.bucket)
	}
	if !strings.HasSuffix(store.fileKey, sessionID.String()+".json") {
		t.Fatalf("expected file key to carry the session id, got %q", store.fileKey)
	}

	var doc transcriptDocument
	if err := json.Unmarshal(store.body, &doc); err != nil {
		t.Fatalf("decode stored document: %v", err)
	}
	if doc.SessionID != sessionID.String() || doc.Score != 85 || doc.Quality != "High" {
		t.Fatalf("unexpected document header: %+v", doc)
	}
	if len(doc.Messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(doc.Messages))
	}
}

func TestArchiveIsNilSafe(t *testing.T) {
	var a *TranscriptArchiver
	if err := a.Archive(context.Background(), uuid.New(), 0, "Low", nil); err != nil {
		t.Fatalf("expected nil archiver to be a no-op, got %v", err)
	}
}
