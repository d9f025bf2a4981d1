package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kotoba-lab/questcore/internal/schemas"
)

//go:embed questions.json
var embeddedQuestions []byte

// Provider gives read access to the static question catalog.
type Provider interface {
	// AllQuestions returns every question in stable catalog order.
	AllQuestions() []Question

	// QuestionsForCategory returns the questions of one category in catalog order.
	QuestionsForCategory(c Category) []Question

	// Question looks up a question by id.
	Question(id int) (Question, bool)
}

// Catalog is an immutable, validated set of questions.
type Catalog struct {
	questions []Question
	byID      map[int]int
}

var _ Provider = (*Catalog)(nil)

// document is the on-disk shape of a catalog file.
type document struct {
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(bytes.NewReader(embeddedQuestions))
	})
	return defaultCat, defaultErr
}

// Open returns the catalog at path, or the bundled catalog when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a catalog document, validates it against the catalog schema and
// the per-question rules, and builds the id index.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Questions)
}

// New builds a catalog from questions, rejecting invalid entries, unknown
// categories and duplicate ids.
func New(questions []Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[int]int, len(questions)),
	}
	for i, q := range questions {
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("question[%d] (id %d): %w", i, q.ID, err)
		}
		if !q.Category.IsKnown() {
			return nil, fmt.Errorf("question[%d] (id %d): unknown category %q", i, q.ID, q.Category)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("question[%d]: duplicate id %d", i, q.ID)
		}
		c.byID[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}
	return c, nil
}

func (c *Catalog) AllQuestions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

func (c *Catalog) QuestionsForCategory(cat Category) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Category == cat {
			out = append(out, q)
		}
	}
	return out
}

func (c *Catalog) Question(id int) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Len returns the number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

var validate = validator.New(validator.WithRequiredStructEnabled())

// documentSchema describes a catalog file.
var documentSchema = &schemas.Schema{
	Name: "questcore-catalog",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"version", "questions"},
		"properties": map[string]any{
			"version": map[string]any{"type": "integer", "minimum": 1},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "category", "type", "question", "answer"},
					"properties": map[string]any{
						"id":       map[string]any{"type": "integer", "minimum": 1},
						"category": map[string]any{"type": "string", "minLength": 1},
						"type":     map[string]any{"enum": []any{"select", "input", "sort"}},
						"question": map[string]any{"type": "string", "minLength": 1},
						"answer":   map[string]any{"type": "string", "minLength": 1},
						"alternatives": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"choices": map[string]any{
							"type":     "array",
							"minItems": 2,
							"items":    map[string]any{"type": "string"},
						},
						"words": map[string]any{
							"type":     "array",
							"minItems": 2,
							"items":    map[string]any{"type": "string"},
						},
					},
					"additionalProperties": false,
				},
			},
		},
	},
}

func validateDocument(raw []byte) error {
	if err := schemas.Validate(documentSchema, raw); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}
