package dialogue

import "strings"

// Keywords holds the substring sets that classify inbound text into intents.
// Matching is deliberately a plain case-insensitive substring check, not
// stemming or fuzzy matching. The sets are data so deployments can localize
// them without touching the state machine.
type Keywords struct {
	Price       []string
	Stock       []string
	Faq         []string
	Buy         []string
	Agent       []string
	Affirmative []string
}

// DefaultKeywords returns the Portuguese/English sets the store ships with.
func DefaultKeywords() Keywords {
	return Keywords{
		Price:       []string{"preço", "preco", "precos", "price"},
		Stock:       []string{"estoque", "stock"},
		Faq:         []string{"faq", "duvida", "dúvida", "ajuda"},
		Buy:         []string{"comprar", "buy"},
		Agent:       []string{"falar com atendente", "atendente", "suporte"},
		Affirmative: []string{"sim", "yes"},
	}
}

// containsAny reports whether text contains any of the keywords as a
// substring. Text is expected to be already lowercased.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
