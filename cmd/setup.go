package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"deskrag/internal/config"
	"deskrag/internal/embed"
	"deskrag/internal/entitlement"
	"deskrag/internal/history"
	"deskrag/internal/index"
	"deskrag/internal/kb"
	"deskrag/internal/llm"
	"deskrag/internal/responder"
)

// buildResponder wires every collaborator from the configuration and
// returns the responder plus a cleanup function for the opened stores.
func buildResponder(ctx context.Context) (*responder.Responder, *config.Config, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	embedder, err := embed.NewOpenAIEmbedder(embed.Config{
		Model:      cfg.Embedder.Model,
		Dimension:  cfg.Embedder.Dimension,
		Timeout:    time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Embedder.MaxRetries,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create embedder: %w", err)
	}

	generator, err := llm.NewOpenAILLM(llm.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		MaxRetries:  cfg.LLM.MaxRetries,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create LLM: %w", err)
	}

	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	var store history.Store
	switch cfg.History.Backend {
	case "sqlite":
		s, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, s.Close)
		store = s
	default:
		store = history.NewMemoryStore()
	}

	var checker entitlement.Checker
	switch cfg.Entitlement.Backend {
	case "sqlite":
		c, err := entitlement.NewSQLiteChecker(cfg.Entitlement.Path)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		closers = append(closers, c.Close)
		checker = c
	default:
		checker = entitlement.Static(cfg.Entitlement.Default)
	}

	var tokens kb.TokenCounter
	if counter, err := kb.NewTiktokenCounter(); err != nil {
		log.Printf("[setup] tiktoken unavailable, falling back to word counts: %v", err)
		tokens = kb.WordCounter{}
	} else {
		tokens = counter
	}

	corpus := kb.LoadCorpus(map[kb.Tier]string{
		kb.TierGeneralSignal:   cfg.Documents.GeneralSignal,
		kb.TierGeneralNoSignal: cfg.Documents.GeneralNoSignal,
		kb.TierExpert:          cfg.Documents.Expert,
	})

	deps := responder.Deps{
		Embedder:     embedder,
		LLM:          generator,
		History:      store,
		Entitlements: checker,
		Corpus:       corpus,
		Tokens:       tokens,
	}

	if cfg.Index.Backend == "milvus" {
		indexes, milvusClosers, err := buildMilvusIndexes(ctx, cfg, corpus, embedder, tokens)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		closers = append(closers, milvusClosers...)
		deps.Indexes = indexes
	}

	r, err := responder.New(responder.Options{
		TopK:           cfg.Index.TopK,
		MaxTokens:      cfg.Chunker.MaxTokens,
		OverlapTokens:  cfg.Chunker.OverlapTokens,
		Workers:        cfg.Embedder.Workers,
		AnswerLanguage: cfg.AnswerLanguage,
		MaxInflight:    int64(cfg.MaxInflight),
	}, deps)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return r, cfg, cleanup, nil
}

// buildMilvusIndexes chunks and embeds every tier's document and loads the
// records into one Milvus collection per tier.
func buildMilvusIndexes(
	ctx context.Context,
	cfg *config.Config,
	corpus kb.Corpus,
	embedder embed.Embedder,
	tokens kb.TokenCounter,
) (map[kb.Tier]index.Searcher, []func() error, error) {
	indexes := make(map[kb.Tier]index.Searcher, len(kb.Tiers))
	var closers []func() error

	for _, tier := range kb.Tiers {
		ix, err := index.NewMilvusIndex(ctx, index.MilvusConfig{
			Address:    cfg.Index.Milvus.Address,
			Collection: fmt.Sprintf("%s_%s", cfg.Index.Milvus.CollectionPrefix, tier),
			Dimension:  cfg.Embedder.Dimension,
		})
		if err != nil {
			for _, c := range closers {
				_ = c()
			}
			return nil, nil, fmt.Errorf("connect milvus for %s: %w", tier, err)
		}
		closers = append(closers, ix.Close)

		chunks := kb.Chunk(corpus[tier].Text, cfg.Chunker.MaxTokens, cfg.Chunker.OverlapTokens, tokens)
		if len(chunks) > 0 {
			records, err := embed.BatchEmbed(ctx, embedder, chunks, cfg.Embedder.Workers)
			if err != nil {
				for _, c := range closers {
					_ = c()
				}
				return nil, nil, fmt.Errorf("embed %s chunks: %w", tier, err)
			}
			if err := ix.Insert(ctx, records); err != nil {
				for _, c := range closers {
					_ = c()
				}
				return nil, nil, fmt.Errorf("load %s collection: %w", tier, err)
			}
		}
		indexes[tier] = ix
	}
	return indexes, closers, nil
}
