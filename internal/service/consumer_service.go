package service

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"

	"grip-chatbot-be/internal/dto"
	"grip-chatbot-be/internal/entity"
	"grip-chatbot-be/internal/repository/contract"
	"grip-chatbot-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	Processed() int64
}

// consumerService embeds published chunks and stores them in the
// context chunk table. It is the second half of the ingest pipeline.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	chunkRepo         contract.ContextChunkRepository
	embeddingProvider embedding.EmbeddingProvider

	processed atomic.Int64
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	chunkRepo contract.ContextChunkRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// Processed reports how many messages have been handled (stored or
// dropped as invalid). The chunker CLI polls this to drain the topic
// before exiting.
func (cs *consumerService) Processed() int64 {
	return cs.processed.Load()
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	if cs.chunkRepo == nil {
		log.Printf("[WARN] Chunk store unavailable, dropping ingest message")
		msg.Ack()
		cs.processed.Add(1)
		return
	}

	var payload dto.PublishChunkMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal chunk message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		cs.processed.Add(1)
		return
	}

	embeddingRes, err := cs.embeddingProvider.Generate(payload.Content, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to embed chunk %q: %v", payload.Title, err)
		msg.Nack() // Retriable: embedding backend may recover
		return
	}

	chunk := &entity.ContextChunk{
		Title:       payload.Title,
		Content:     payload.Content,
		SourceFile:  payload.SourceFile,
		ChunkNumber: payload.ChunkNumber,
		Metadata:    payload.Metadata,
		Embedding:   embeddingRes.Embedding.Values,
	}

	if err := cs.chunkRepo.CreateBulk(ctx, []*entity.ContextChunk{chunk}); err != nil {
		log.Printf("[ERROR] Failed to store chunk %q: %v", payload.Title, err)
		msg.Nack()
		return
	}

	msg.Ack()
	cs.processed.Add(1)
}
