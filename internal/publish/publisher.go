// Package publish delivers the generated audio of a run into a NATS
// JetStream object store and announces each artifact with an event, so
// downstream consumers can pick the files up without touching the local
// filesystem.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/book-expert/voiceover/internal/core"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// ErrNothingToPublish indicates that a run produced no successful segments.
var ErrNothingToPublish = errors.New("no generated files to publish")

// Publisher uploads generated files and emits one audio-created event per
// artifact on the configured subject.
type Publisher struct {
	natsConnection *nats.Conn
	store          core.AudioStore
	subject        string
	log            *logger.Logger
}

// NewPublisher creates a publisher over an established NATS connection.
func NewPublisher(
	natsConnection *nats.Conn,
	store core.AudioStore,
	subject string,
	log *logger.Logger,
) *Publisher {
	return &Publisher{
		natsConnection: natsConnection,
		store:          store,
		subject:        subject,
		log:            log,
	}
}

// Connect dials NATS and returns the connection with its JetStream context.
func Connect(url string) (*nats.Conn, nats.JetStreamContext, error) {
	natsConnection, err := nats.Connect(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		natsConnection.Close()

		return nil, nil, fmt.Errorf("failed to open JetStream context: %w", err)
	}

	return natsConnection, jetstreamContext, nil
}

// PublishRun uploads every successful file of a run, keyed
// "{runID}/{filename}", and emits one event per upload. Failed segments are
// skipped. The first error is remembered and returned after all files were
// attempted, mirroring the pipeline's continue-on-error policy.
func (p *Publisher) PublishRun(
	ctx context.Context,
	runID string,
	files []core.GeneratedFile,
	totalSegments int,
) error {
	var (
		published int
		lastError error
	)

	for _, file := range files {
		if !file.OK {
			continue
		}

		err := p.publishFile(ctx, runID, file, totalSegments)
		if err != nil {
			p.log.Error("Failed to publish %s: %v", file.Path, err)

			lastError = err

			continue
		}

		published++
	}

	if published == 0 && lastError == nil {
		return ErrNothingToPublish
	}

	p.log.Info("Published %d files for run %s", published, runID)

	return lastError
}

func (p *Publisher) publishFile(
	ctx context.Context,
	runID string,
	file core.GeneratedFile,
	totalSegments int,
) error {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("failed to read generated file: %w", err)
	}

	audioKey := runID + "/" + filepath.Base(file.Path)

	err = p.store.Put(ctx, audioKey, data)
	if err != nil {
		return fmt.Errorf("failed to upload audio '%s': %w", audioKey, err)
	}

	event := &events.AudioChunkCreatedEvent{
		Header: events.EventHeader{
			Timestamp:  time.Now(),
			WorkflowID: runID,
			EventID:    uuid.NewString(),
			UserID:     "",
			TenantID:   "",
		},
		AudioKey:   audioKey,
		PageNumber: file.Index + 1,
		TotalPages: totalSegments,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audio event: %w", err)
	}

	err = p.natsConnection.Publish(p.subject, eventData)
	if err != nil {
		return fmt.Errorf("failed to publish audio event: %w", err)
	}

	return nil
}
