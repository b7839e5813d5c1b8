package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hashlife_backend/internal/adapters/storage"
	"hashlife_backend/internal/chat/domain"

	"github.com/google/uuid"
)

// TranscriptArchiver writes the full conversation transcript to object
// storage after a lead is captured. Archival is best effort: a failure is
// logged by the caller and never blocks or fails the submission itself.
type TranscriptArchiver struct {
	store  storage.StorageService
	bucket string
}

func NewTranscriptArchiver(store storage.StorageService, bucket string) *TranscriptArchiver {
	return &TranscriptArchiver{
		store:  store,
		bucket: bucket,
	}
}

type transcriptDocument struct {
	SessionID string           `json:"sessionId"`
	Score     int              `json:"score"`
	Quality   string           `json:"quality"`
	Messages  []domain.Message `json:"messages"`
	SavedAt   time.Time        `json:"savedAt"`
}

// Archive stores the transcript as JSON, keyed by capture month and session id.
func (a *TranscriptArchiver) Archive(ctx context.Context, sessionID uuid.UUID, score int, quality string, messages []domain.Message) error {
	if a == nil || a.store == nil {
		return nil
	}

	doc := transcriptDocument{
		SessionID: sessionID.String(),
		Score:     score,
		Quality:   quality,
		Messages:  messages,
		SavedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	folder := doc.SavedAt.Format("2006/01")
	fileName := sessionID.String() + ".json"

	_, err = a.store.UploadFile(ctx, a.bucket, folder, fileName, "application/json", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("upload transcript: %w", err)
	}
	return nil
}
