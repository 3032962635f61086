package entities

import "fmt"

// Catalog is an immutable snapshot of every playable quiz, alignment test and game.
// Titles are case-sensitive and unique within each kind.
type Catalog struct {
	quizzes []*Quiz
	tests   []*AlignmentTest
	games   []*Game

	quizByTitle map[string]*Quiz
	testByTitle map[string]*AlignmentTest
	gameByTitle map[string]*Game
}

// NewCatalog validates the definitions and indexes them by title.
// Duplicate titles are rejected instead of shadowing earlier entries.
func NewCatalog(quizzes []*Quiz, tests []*AlignmentTest, games []*Game) (*Catalog, error) {
	c := &Catalog{
		quizzes:     quizzes,
		tests:       tests,
		games:       games,
		quizByTitle: make(map[string]*Quiz, len(quizzes)),
		testByTitle: make(map[string]*AlignmentTest, len(tests)),
		gameByTitle: make(map[string]*Game, len(games)),
	}

	for _, q := range quizzes {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.quizByTitle[q.Title]; ok {
			return nil, fmt.Errorf("%w: duplicate quiz title %q", ErrInvalidConfiguration, q.Title)
		}
		c.quizByTitle[q.Title] = q
	}

	for _, t := range tests {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.testByTitle[t.Title]; ok {
			return nil, fmt.Errorf("%w: duplicate alignment test title %q", ErrInvalidConfiguration, t.Title)
		}
		c.testByTitle[t.Title] = t
	}

	for _, g := range games {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.gameByTitle[g.Title]; ok {
			return nil, fmt.Errorf("%w: duplicate game title %q", ErrInvalidConfiguration, g.Title)
		}
		c.gameByTitle[g.Title] = g
	}

	return c, nil
}

// Quizzes returns the quizzes in definition order.
func (c *Catalog) Quizzes() []*Quiz { return c.quizzes }

// Tests returns the alignment tests in definition order.
func (c *Catalog) Tests() []*AlignmentTest { return c.tests }

// Games returns the games in definition order.
func (c *Catalog) Games() []*Game { return c.games }

// Quiz looks a quiz up by exact title.
func (c *Catalog) Quiz(title string) (*Quiz, bool) {
	q, ok := c.quizByTitle[title]
	return q, ok
}

// Test looks an alignment test up by exact title.
func (c *Catalog) Test(title string) (*AlignmentTest, bool) {
	t, ok := c.testByTitle[title]
	return t, ok
}

// Game looks a game up by exact title.
func (c *Catalog) Game(title string) (*Game, bool) {
	g, ok := c.gameByTitle[title]
	return g, ok
}

// QuizTitles returns quiz titles in definition order.
func (c *Catalog) QuizTitles() []string {
	titles := make([]string, 0, len(c.quizzes))
	for _, q := range c.quizzes {
		titles = append(titles, q.Title)
	}
	return titles
}

// TestTitles returns alignment test titles in definition order.
func (c *Catalog) TestTitles() []string {
	titles := make([]string, 0, len(c.tests))
	for _, t := range c.tests {
		titles = append(titles, t.Title)
	}
	return titles
}

// GameTitles returns game titles in definition order.
func (c *Catalog) GameTitles() []string {
	titles := make([]string, 0, len(c.games))
	for _, g := range c.games {
		titles = append(titles, g.Title)
	}
	return titles
}
