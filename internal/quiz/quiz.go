package quiz

import (
	"errors"
	"fmt"
	"sync"

	"github.com/palaverbot/palaver/internal/model"
	"github.com/palaverbot/palaver/internal/store"
)

// ErrNoDocument means quiz generation was requested before any document text
// was extracted for the user in this session.
var ErrNoDocument = errors.New("no document loaded")

const generatePrompt = "Generate 5 quiz questions from the following text."

// Generator turns previously extracted document text into quiz questions.
// Document text and generated question sets are session state: per-user,
// in-memory, gone on restart.
type Generator struct {
	provider model.Provider

	mu        sync.Mutex
	documents map[int64]string
	questions map[int64]string
}

// NewGenerator creates a Generator backed by the given model provider.
func NewGenerator(provider model.Provider) *Generator {
	return &Generator{
		provider:  provider,
		documents: make(map[int64]string),
		questions: make(map[int64]string),
	}
}

// SetDocument stores extracted text for the user, replacing any prior
// document.
func (g *Generator) SetDocument(userID int64, text string) {
	g.mu.Lock()
	g.documents[userID] = text
	g.mu.Unlock()
}

// Generate produces a question set from the user's loaded document, caches
// it, and returns the raw text.
func (g *Generator) Generate(userID int64) (string, error) {
	g.mu.Lock()
	text, ok := g.documents[userID]
	g.mu.Unlock()
	if !ok {
		return "", ErrNoDocument
	}

	questions, err := g.provider.Complete([]store.Turn{
		{Role: store.RoleSystem, Content: generatePrompt},
		{Role: store.RoleUser, Content: text},
	})
	if err != nil {
		return "", fmt.Errorf("quiz generation failed: %w", err)
	}

	g.mu.Lock()
	g.questions[userID] = questions
	g.mu.Unlock()
	return questions, nil
}

// Questions returns the most recently generated question set for the user.
func (g *Generator) Questions(userID int64) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	q, ok := g.questions[userID]
	return q, ok
}
