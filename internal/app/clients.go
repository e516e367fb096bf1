package app

import (
	"github.com/voyageprep/voyage-backend/internal/clients/groq"
	"github.com/voyageprep/voyage-backend/internal/clients/huggingface"
	redisclient "github.com/voyageprep/voyage-backend/internal/clients/redis"
	"github.com/voyageprep/voyage-backend/internal/clients/upstash"
	"github.com/voyageprep/voyage-backend/internal/logger"
)

type Clients struct {
	HuggingFace huggingface.Client
	Vectors     upstash.VectorStore
	Groq        groq.Client
	Cache       redisclient.Cache
	Bus         redisclient.EventBus
}

// wireClients builds the outbound clients. The embedding, vector and redis
// clients are optional: without credentials the services fall back to their
// degraded paths instead of failing startup. The chat client is required.
func wireClients(log *logger.Logger) (Clients, error) {
	var c Clients

	hf, err := huggingface.New(log)
	if err != nil {
		log.Warn("HuggingFace client disabled, using fallback embeddings", "error", err)
	} else {
		c.HuggingFace = hf
	}

	vectors, err := upstash.NewVectorStore(log)
	if err != nil {
		log.Warn("Upstash vector store disabled, semantic search unavailable", "error", err)
	} else {
		c.Vectors = vectors
	}

	llm, err := groq.NewClient(log)
	if err != nil {
		return Clients{}, err
	}
	c.Groq = llm

	cache, err := redisclient.NewCache(log)
	if err != nil {
		log.Warn("Redis cache disabled", "error", err)
	} else {
		c.Cache = cache
	}

	bus, err := redisclient.NewEventBus(log)
	if err != nil {
		log.Warn("Redis event bus disabled, SSE events stay process-local", "error", err)
	} else {
		c.Bus = bus
	}

	return c, nil
}
