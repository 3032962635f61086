package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/reaction-games-bot/assets"
	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

var ErrCatalogEmpty = errors.New("catalog file is empty")

// CatalogRepository loads quiz, alignment test and game definitions from YAML.
// An empty path reads the catalog embedded in the binary.
type CatalogRepository struct {
	path string
}

// NewCatalogRepository creates a CatalogRepository reading from path.
func NewCatalogRepository(path string) *CatalogRepository {
	return &CatalogRepository{path: path}
}

// Path returns the catalog file path, empty for the embedded catalog.
func (r *CatalogRepository) Path() string {
	return r.path
}

// Load reads and validates the whole catalog.
func (r *CatalogRepository) Load(ctx context.Context) (*entities.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := assets.Catalog
	if r.path != "" {
		var err error
		if data, err = os.ReadFile(r.path); err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}

	return ParseCatalog(data)
}

type catalogFile struct {
	Quizzes []quizDef `yaml:"quizzes"`
	Tests   []testDef `yaml:"tests"`
	Games   []gameDef `yaml:"games"`
}

type quizDef struct {
	Title     string        `yaml:"title"`
	Colour    *int          `yaml:"colour"`
	Questions []questionDef `yaml:"questions"`
}

type questionDef struct {
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"`
	Correct int      `yaml:"correct"`
}

type testDef struct {
	Title     string                 `yaml:"title"`
	Colour    *int                   `yaml:"colour"`
	MaxX      int                    `yaml:"max_x"`
	MaxY      int                    `yaml:"max_y"`
	Images    bool                   `yaml:"images"`
	Table     [][]string             `yaml:"table"`
	Questions []alignmentQuestionDef `yaml:"questions"`
}

type alignmentQuestionDef struct {
	Text    string               `yaml:"text"`
	Options []alignmentOptionDef `yaml:"options"`
}

type alignmentOptionDef struct {
	Label string `yaml:"label"`
	Field string `yaml:"field"`
	Delta int    `yaml:"delta"`
}

type gameDef struct {
	Title string  `yaml:"title"`
	Root  nodeDef `yaml:"root"`
}

type nodeDef struct {
	Label    string    `yaml:"label"`
	Text     string    `yaml:"text"`
	Colour   *int      `yaml:"colour"`
	End      bool      `yaml:"end"`
	Image    bool      `yaml:"image"`
	Children []nodeDef `yaml:"children"`
}

// ParseCatalog decodes a YAML catalog and builds a validated snapshot.
func ParseCatalog(data []byte) (*entities.Catalog, error) {
	if len(data) == 0 {
		return nil, ErrCatalogEmpty
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", entities.ErrInvalidConfiguration, err)
	}

	quizzes := make([]*entities.Quiz, 0, len(file.Quizzes))
	for _, d := range file.Quizzes {
		q, err := d.build()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}

	tests := make([]*entities.AlignmentTest, 0, len(file.Tests))
	for _, d := range file.Tests {
		t, err := d.build()
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}

	games := make([]*entities.Game, 0, len(file.Games))
	for _, d := range file.Games {
		root := d.Root.build(entities.DefaultColour)
		games = append(games, entities.NewGame(d.Title, root))
	}

	return entities.NewCatalog(quizzes, tests, games)
}

func (d quizDef) build() (*entities.Quiz, error) {
	quiz := entities.NewQuiz(d.Title, colourOr(d.Colour, entities.DefaultColour))
	for i, qd := range d.Questions {
		if len(qd.Options) != entities.OptionsPerQuestion {
			return nil, fmt.Errorf("%w: quiz %q question %d has %d options, want %d",
				entities.ErrInvalidConfiguration, d.Title, i+1, len(qd.Options), entities.OptionsPerQuestion)
		}
		var options [entities.OptionsPerQuestion]string
		copy(options[:], qd.Options)
		quiz.AddQuestions(entities.NewQuestion(qd.Text, options, qd.Correct))
	}
	return quiz, nil
}

func (d testDef) build() (*entities.AlignmentTest, error) {
	var table entities.AlignmentTable
	if len(d.Table) != len(table) {
		return nil, fmt.Errorf("%w: alignment test %q table has %d rows, want %d",
			entities.ErrInvalidConfiguration, d.Title, len(d.Table), len(table))
	}
	for row, cells := range d.Table {
		if len(cells) != len(table[row]) {
			return nil, fmt.Errorf("%w: alignment test %q table row %d has %d cells, want %d",
				entities.ErrInvalidConfiguration, d.Title, row+1, len(cells), len(table[row]))
		}
		copy(table[row][:], cells)
	}

	test := entities.NewAlignmentTest(d.Title, table, d.MaxX, d.MaxY, colourOr(d.Colour, entities.DefaultColour), d.Images)
	for i, qd := range d.Questions {
		if len(qd.Options) != entities.OptionsPerQuestion {
			return nil, fmt.Errorf("%w: alignment test %q question %d has %d options, want %d",
				entities.ErrInvalidConfiguration, d.Title, i+1, len(qd.Options), entities.OptionsPerQuestion)
		}

		q := entities.AlignmentQuestion{Text: qd.Text}
		for j, od := range qd.Options {
			field, err := entities.ParseAlignmentField(od.Field)
			if err != nil {
				return nil, fmt.Errorf("alignment test %q question %d: %w", d.Title, i+1, err)
			}
			q.Options[j] = entities.AlignmentOption{Label: od.Label, Field: field, Delta: od.Delta}
		}
		test.AddQuestions(q)
	}
	return test, nil
}

// build converts the node tree. Nodes without a colour inherit their parent's.
func (d nodeDef) build(parentColour int) *entities.GameNode {
	colour := colourOr(d.Colour, parentColour)
	if d.End {
		return entities.NewEndNode(d.Label, d.Text, colour, d.Image)
	}

	children := make([]*entities.GameNode, 0, len(d.Children))
	for _, c := range d.Children {
		children = append(children, c.build(colour))
	}
	return entities.NewChoiceNode(d.Label, d.Text, colour, children...)
}

func colourOr(c *int, fallback int) int {
	if c == nil {
		return fallback
	}
	return *c
}
