// Package kb loads the knowledge-base corpus and splits it into
// retrieval-sized chunks. The corpus is three tier-tagged documents; a
// missing document degrades its tier to empty retrieval instead of failing
// startup.
package kb

import (
	"log"
	"os"
	"strings"
)

// Tier identifies one knowledge-base segment.
type Tier string

const (
	TierGeneralSignal   Tier = "general_signal"
	TierGeneralNoSignal Tier = "general_no_signal"
	TierExpert          Tier = "expert"
)

// Tiers lists every knowledge-base tier in a stable order.
var Tiers = []Tier{TierGeneralSignal, TierGeneralNoSignal, TierExpert}

// Document is an immutable source text tagged with its tier.
type Document struct {
	Tier Tier
	Path string
	Text string
}

// Corpus holds the loaded document for each tier.
type Corpus map[Tier]Document

// LoadDocument reads the named source into plain text. Absent or unreadable
// sources log a warning and yield empty text; downstream code treats empty
// text as "no content for this tier".
func LoadDocument(tier Tier, path string) Document {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[kb] document %s (%s) unavailable, using empty content: %v", tier, path, err)
		return Document{Tier: tier, Path: path}
	}
	return Document{Tier: tier, Path: path, Text: strings.TrimSpace(string(data))}
}

// LoadCorpus loads every tier's document from the given path map. Tiers
// missing from the map load as empty.
func LoadCorpus(paths map[Tier]string) Corpus {
	corpus := make(Corpus, len(Tiers))
	for _, tier := range Tiers {
		path, ok := paths[tier]
		if !ok || path == "" {
			log.Printf("[kb] no document configured for tier %s", tier)
			corpus[tier] = Document{Tier: tier}
			continue
		}
		corpus[tier] = LoadDocument(tier, path)
	}
	return corpus
}
