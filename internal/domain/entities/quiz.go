package entities

import "fmt"

// OptionsPerQuestion is the number of choices every quiz and alignment question offers.
const OptionsPerQuestion = 5

// DefaultColour is the sidebar colour that blends into the chat background.
const DefaultColour = 0x36393E

// Question is a multiple-choice quiz question with exactly one correct option.
type Question struct {
	Text         string                     // question prompt
	Options      [OptionsPerQuestion]string // answer texts in definition order
	CorrectIndex int                        // index of the correct answer in Options
}

// NewQuestion creates a quiz question.
func NewQuestion(text string, options [OptionsPerQuestion]string, correctIndex int) Question {
	return Question{
		Text:         text,
		Options:      options,
		CorrectIndex: correctIndex,
	}
}

// Validate checks that the correct index points at one of the options.
func (q Question) Validate() error {
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionsPerQuestion {
		return fmt.Errorf("%w: question %q: correct index %d out of range [0,%d)",
			ErrInvalidConfiguration, q.Text, q.CorrectIndex, OptionsPerQuestion)
	}
	return nil
}

// Quiz is a titled, ordered set of questions.
type Quiz struct {
	Title     string
	Questions []Question
	Colour    int
}

// NewQuiz creates a quiz with the given questions.
func NewQuiz(title string, colour int, questions ...Question) *Quiz {
	return &Quiz{
		Title:     title,
		Questions: questions,
		Colour:    colour,
	}
}

// AddQuestions appends questions after the quiz has been created.
// It must not be called on a quiz that belongs to a published catalog.
func (q *Quiz) AddQuestions(questions ...Question) {
	q.Questions = append(q.Questions, questions...)
}

// Validate checks the quiz and each of its questions.
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return fmt.Errorf("%w: quiz without title", ErrInvalidConfiguration)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz %q has no questions", ErrInvalidConfiguration, q.Title)
	}
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return fmt.Errorf("quiz %q: %w", q.Title, err)
		}
	}
	return nil
}
