package entities

import (
	"fmt"
	"strings"
)

// AlignmentField is the axis an alignment option moves.
type AlignmentField int

const (
	FieldNone AlignmentField = iota // option does not shift alignment
	FieldX                          // lawful/chaotic axis in the classic table
	FieldY                          // good/evil axis in the classic table
)

// String returns the lowercase axis name used in catalog files.
func (f AlignmentField) String() string {
	switch f {
	case FieldX:
		return "x"
	case FieldY:
		return "y"
	default:
		return "none"
	}
}

// ParseAlignmentField converts a catalog axis name into an AlignmentField.
func ParseAlignmentField(s string) (AlignmentField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return FieldX, nil
	case "y":
		return FieldY, nil
	case "", "none":
		return FieldNone, nil
	default:
		return FieldNone, fmt.Errorf("%w: unknown alignment field %q", ErrInvalidConfiguration, s)
	}
}

// AlignmentOption is one answer of an alignment question and the shift it applies.
type AlignmentOption struct {
	Label string
	Field AlignmentField
	Delta int
}

// AlignmentQuestion is a question where every option is a valid answer.
type AlignmentQuestion struct {
	Text    string
	Options [OptionsPerQuestion]AlignmentOption
}

// AlignmentTable holds the 3x3 results indexed by [row(y)][column(x)].
type AlignmentTable [3][3]string

// AlignmentTest accumulates two displacements and maps them onto AlignmentTable.
type AlignmentTest struct {
	Title            string
	Questions        []AlignmentQuestion
	Table            AlignmentTable
	MaxX             int  // all reachable X totals lie in [-MaxX, MaxX]
	MaxY             int  // all reachable Y totals lie in [-MaxY, MaxY]
	Colour           int
	ResultsAreImages bool // table cells are image URLs instead of labels
}

// NewAlignmentTest creates an alignment test.
func NewAlignmentTest(title string, table AlignmentTable, maxX, maxY, colour int, asImages bool) *AlignmentTest {
	return &AlignmentTest{
		Title:            title,
		Table:            table,
		MaxX:             maxX,
		MaxY:             maxY,
		Colour:           colour,
		ResultsAreImages: asImages,
	}
}

// AddQuestions appends questions after the test has been created.
func (t *AlignmentTest) AddQuestions(questions ...AlignmentQuestion) {
	t.Questions = append(t.Questions, questions...)
}

// Reach returns the lowest and highest totals a player can reach on each axis.
func (t *AlignmentTest) Reach() (minX, maxX, minY, maxY int) {
	for _, q := range t.Questions {
		loX, hiX, loY, hiY := 0, 0, 0, 0
		for i, opt := range q.Options {
			x, y := 0, 0
			switch opt.Field {
			case FieldX:
				x = opt.Delta
			case FieldY:
				y = opt.Delta
			}
			if i == 0 {
				loX, hiX, loY, hiY = x, x, y, y
				continue
			}
			loX, hiX = min(loX, x), max(hiX, x)
			loY, hiY = min(loY, y), max(hiY, y)
		}
		minX += loX
		maxX += hiX
		minY += loY
		maxY += hiY
	}
	return minX, maxX, minY, maxY
}

// Validate checks bounds, table shape and that every reachable total fits the bounds.
func (t *AlignmentTest) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("%w: alignment test without title", ErrInvalidConfiguration)
	}
	if len(t.Questions) == 0 {
		return fmt.Errorf("%w: alignment test %q has no questions", ErrInvalidConfiguration, t.Title)
	}
	if t.MaxX < 0 || t.MaxY < 0 {
		return fmt.Errorf("%w: alignment test %q: negative displacement bounds (%d, %d)",
			ErrInvalidConfiguration, t.Title, t.MaxX, t.MaxY)
	}
	for r, row := range t.Table {
		for c, cell := range row {
			if cell == "" {
				return fmt.Errorf("%w: alignment test %q: empty table cell [%d][%d]",
					ErrInvalidConfiguration, t.Title, r, c)
			}
		}
	}

	minX, maxX, minY, maxY := t.Reach()
	if minX < -t.MaxX || maxX > t.MaxX {
		return fmt.Errorf("%w: alignment test %q: reachable x range [%d,%d] exceeds ±%d",
			ErrInvalidConfiguration, t.Title, minX, maxX, t.MaxX)
	}
	if minY < -t.MaxY || maxY > t.MaxY {
		return fmt.Errorf("%w: alignment test %q: reachable y range [%d,%d] exceeds ±%d",
			ErrInvalidConfiguration, t.Title, minY, maxY, t.MaxY)
	}
	return nil
}
