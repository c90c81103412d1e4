package suggestions

// KeyPrefix namespaces suggestion keys inside the shared store
const KeyPrefix = "suggestion:"

// DefaultMinChars is the shortest input that produces suggestions
const DefaultMinChars = 3

// State holds the remembered queries
type State struct {
	Seen     map[string]struct{}
	Degraded bool
}
