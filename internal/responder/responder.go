// Package responder orchestrates the retrieval-augmented answering pipeline:
// query translation, history summarization, entitlement-routed retrieval
// over the tiered knowledge bases, and answer synthesis. One Responder is
// constructed at process start and shared by every caller.
package responder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"deskrag/internal/embed"
	"deskrag/internal/entitlement"
	"deskrag/internal/history"
	"deskrag/internal/index"
	"deskrag/internal/kb"
	"deskrag/internal/llm"
	"deskrag/internal/translate"
)

// Options tunes the pipeline.
type Options struct {
	// TopK is the number of chunks retrieved per knowledge-base tier.
	TopK int

	// MaxTokens and OverlapTokens are the chunking budgets.
	MaxTokens     int
	OverlapTokens int

	// Workers bounds parallel embedding during index construction.
	Workers int

	// AnswerLanguage is the required output language of every answer.
	AnswerLanguage string

	// MaxInflight caps concurrent Answer calls across all identities
	// (0 = unlimited).
	MaxInflight int64
}

// DefaultOptions returns the pipeline defaults.
func DefaultOptions() Options {
	return Options{
		TopK:           3,
		MaxTokens:      kb.DefaultMaxTokens,
		OverlapTokens:  kb.DefaultOverlap,
		Workers:        embed.DefaultWorkers,
		AnswerLanguage: "Persian",
		MaxInflight:    8,
	}
}

// Deps are the responder's collaborators. Embedder, LLM, History and
// Entitlements are required. Indexes may carry pre-built searchers (e.g. a
// Milvus backend) per tier; tiers without one are built in memory from the
// corpus on first use.
type Deps struct {
	Embedder     embed.Embedder
	LLM          llm.LLM
	History      history.Store
	Entitlements entitlement.Checker
	Corpus       kb.Corpus
	Tokens       kb.TokenCounter
	Indexes      map[kb.Tier]index.Searcher
}

// Responder is the pipeline facade. All three tier indices are constructed
// exactly once — lazily on the first Answer or eagerly via Warm — and are
// read-only afterwards, so concurrent answers share them without locking.
type Responder struct {
	opts       Options
	deps       Deps
	translator *translate.Translator
	summarizer *history.Summarizer

	buildOnce sync.Once
	buildErr  error
	indexes   map[kb.Tier]index.Searcher

	locks *keyedMutex
	sem   *semaphore.Weighted
}

// New validates the collaborators and returns a ready responder. No index
// is built yet; that happens once, on Warm or the first Answer.
func New(opts Options, deps Deps) (*Responder, error) {
	if deps.Embedder == nil {
		return nil, fmt.Errorf("responder: embedder is required")
	}
	if deps.LLM == nil {
		return nil, fmt.Errorf("responder: LLM is required")
	}
	if deps.History == nil {
		return nil, fmt.Errorf("responder: history store is required")
	}
	if deps.Entitlements == nil {
		return nil, fmt.Errorf("responder: entitlement checker is required")
	}
	if deps.Tokens == nil {
		deps.Tokens = kb.WordCounter{}
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.AnswerLanguage == "" {
		opts.AnswerLanguage = DefaultOptions().AnswerLanguage
	}

	r := &Responder{
		opts:       opts,
		deps:       deps,
		translator: translate.NewTranslator(deps.LLM),
		summarizer: history.NewSummarizer(deps.LLM),
		locks:      newKeyedMutex(),
	}
	if opts.MaxInflight > 0 {
		r.sem = semaphore.NewWeighted(opts.MaxInflight)
	}
	return r, nil
}

// Warm eagerly builds every tier index. Optional; the first Answer builds
// them otherwise.
func (r *Responder) Warm(ctx context.Context) error {
	return r.ensureIndexes(ctx)
}

func (r *Responder) ensureIndexes(ctx context.Context) error {
	r.buildOnce.Do(func() {
		indexes := make(map[kb.Tier]index.Searcher, len(kb.Tiers))
		for _, tier := range kb.Tiers {
			if pre, ok := r.deps.Indexes[tier]; ok && pre != nil {
				indexes[tier] = pre
				continue
			}

			chunks := kb.Chunk(r.deps.Corpus[tier].Text, r.opts.MaxTokens, r.opts.OverlapTokens, r.deps.Tokens)
			log.Printf("[responder] building %s index from %d chunks", tier, len(chunks))
			ix, err := index.BuildMemoryIndex(ctx, chunks, r.deps.Embedder, r.opts.Workers)
			if err != nil {
				r.buildErr = fmt.Errorf("build %s index: %w", tier, err)
				return
			}
			indexes[tier] = ix
		}
		r.indexes = indexes
	})
	return r.buildErr
}

// Answer generates a grounded reply to a ticket for the given identity.
//
// Pipeline: translate the question, load and summarize the identity's
// history, resolve entitlement, retrieve top-K chunks from the routed
// general tier and the expert tier, synthesize one answer, then append the
// new turn to the history. Embedding, summarization, generation, and
// persistence failures propagate unmodified; there is no partial answer.
// The expert tier is always consulted regardless of entitlement.
func (r *Responder) Answer(ctx context.Context, subject, body, identity string) (string, error) {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer r.sem.Release(1)
	}

	if err := r.ensureIndexes(ctx); err != nil {
		return "", err
	}

	nativeQuestion := fmt.Sprintf("موضوع: %s\nمتن: %s", subject, body)
	translated := r.translator.Translate(ctx, nativeQuestion)

	// Everything that reads or writes this identity's history runs under
	// its lock: at most one in-flight answer per identity.
	unlock := r.locks.Lock(identity)
	defer unlock()

	turns, err := r.deps.History.Load(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	summary, err := r.summarizer.Summarize(ctx, turns)
	if err != nil {
		return "", err
	}

	entitled, err := r.deps.Entitlements.HasActiveEntitlement(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("resolve entitlement: %w", err)
	}

	generalTier := kb.TierGeneralNoSignal
	if entitled {
		generalTier = kb.TierGeneralSignal
	}
	log.Printf("[responder] identity=%s entitled=%v tier=%s", identity, entitled, generalTier)

	queryVector, err := embed.EmbedOne(ctx, r.deps.Embedder, translated)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	generalResults, err := r.indexes[generalTier].Search(ctx, queryVector, r.opts.TopK)
	if err != nil {
		return "", fmt.Errorf("search %s: %w", generalTier, err)
	}
	expertResults, err := r.indexes[kb.TierExpert].Search(ctx, queryVector, r.opts.TopK)
	if err != nil {
		return "", fmt.Errorf("search %s: %w", kb.TierExpert, err)
	}

	prompt := composePrompt(
		nativeQuestion,
		translated,
		summary,
		strings.Join(index.Texts(generalResults), "\n\n"),
		strings.Join(index.Texts(expertResults), "\n\n"),
		r.opts.AnswerLanguage,
	)

	answer, err := r.deps.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)

	turns = append(turns, history.Turn{
		Question: nativeQuestion,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	})
	if err := r.deps.History.Save(ctx, identity, turns); err != nil {
		return "", fmt.Errorf("save history: %w", err)
	}

	return answer, nil
}

// Condense rewrites an answer into a short, friendly form in the configured
// output language, without adding content.
func (r *Responder) Condense(ctx context.Context, answer string) (string, error) {
	condensed, err := r.deps.LLM.Generate(ctx, condensePrompt(answer, r.opts.AnswerLanguage))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(condensed), nil
}
