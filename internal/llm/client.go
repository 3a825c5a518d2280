package llm

import "context"

// Client produces an answer for a user question. Implementations never
// return an error: any backend failure maps to a fixed fallback string so
// the caller always has text to show.
type Client interface {
	Generate(ctx context.Context, question string) string
}
