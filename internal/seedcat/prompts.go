package seedcat

import "hash/fnv"

// Cosmetic prompt templates. The choice per pair is a pure function of its
// canonical key so the same matchup always renders the same question.
var promptTemplates = []string{
	"Which would you rather have?",
	"Which side is worth more?",
	"Pick the better deal.",
	"Which one wins the trade?",
	"Which side would you take?",
	"Who comes out ahead here?",
}

// PromptFor picks the stable prompt for a canonical pair key.
func PromptFor(pairKey string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(pairKey))
	return promptTemplates[h.Sum32()%uint32(len(promptTemplates))]
}
