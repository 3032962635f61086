package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// TakeTest runs one alignment test for player.
//
// Every option moves the X or Y displacement (or neither); once all questions
// are answered the totals select a cell of the 3x3 table. Cancel or timeout
// abandons scoring and no alignment is shown.
func (s *Sessions) TakeTest(ctx context.Context, player Player, test *entities.AlignmentTest) (*entities.Result, error) {
	questions := Shuffled(s.scrambler, test.Questions)
	result, log := s.begin(entities.KindAlignment, test.Title, player, len(questions))

	controls := OptionControls(entities.OptionsPerQuestion)
	ref, err := s.messenger.Send(ctx, player.ChannelID, View{
		Header:   "Loading alignment test...",
		Colour:   test.Colour,
		Controls: controls,
	})
	if err != nil {
		return nil, fmt.Errorf("send alignment test: %w", err)
	}
	accept := acceptFrom(player, ref, controls)

	x, y := 0, 0
	for i, q := range questions {
		options := s.scrambler.ScrambleAlignment(q)

		labels := make([]string, len(options))
		for j, opt := range options {
			labels[j] = opt.Label
		}

		err = s.messenger.Edit(ctx, ref, View{
			Header:   fmt.Sprintf("[%s] Question %d of %d", test.Title, i+1, len(questions)),
			Text:     q.Text,
			Options:  labels,
			Footer:   quizFooter,
			Colour:   test.Colour,
			Controls: controls,
		})
		if err != nil {
			return nil, fmt.Errorf("show question %d: %w", i+1, err)
		}

		sig, outcome, err := s.await(ctx, ref, accept, s.timeouts.Answer)
		if err != nil {
			return nil, fmt.Errorf("await answer %d: %w", i+1, err)
		}
		if outcome != "" {
			if err := s.messenger.Edit(ctx, ref, testStoppedView(test, outcome)); err != nil {
				return nil, fmt.Errorf("show test end: %w", err)
			}
			return s.end(ctx, log, result, outcome), nil
		}

		chosen, _ := OptionIndex(sig.Symbol)
		switch opt := options[chosen]; opt.Field {
		case entities.FieldX:
			x += opt.Delta
		case entities.FieldY:
			y += opt.Delta
		}
		result.Answered++
		log.Debug("question answered", zap.Int("question", i+1), zap.Int("x", x), zap.Int("y", y))
	}

	cell := test.Table[AlignmentCell(y, test.MaxY)][AlignmentCell(x, test.MaxX)]
	result.Detail = cell

	err = s.messenger.Edit(ctx, ref, alignmentView(test, player, cell))
	if err != nil {
		return nil, fmt.Errorf("show alignment: %w", err)
	}

	return s.end(ctx, log, result, entities.OutcomeFinished), nil
}

func alignmentView(test *entities.AlignmentTest, player Player, cell string) View {
	if test.ResultsAreImages {
		return View{
			Header:   fmt.Sprintf("Alignment for %s:", player.Name),
			ImageURL: cell,
			Colour:   test.Colour,
		}
	}
	return View{
		Header: fmt.Sprintf("Alignment for %s: %s", player.Name, cell),
		Title:  "Finished Alignment Test",
		Text:   "The test is over.",
		Colour: test.Colour,
	}
}

func testStoppedView(test *entities.AlignmentTest, outcome entities.Outcome) View {
	if outcome == entities.OutcomeTimedOut {
		return View{
			Title:  "Alignment Test Timed Out",
			Text:   "No answer arrived in time.\nYou'll never know...",
			Colour: test.Colour,
		}
	}
	return View{
		Title:  "Cancelled Alignment Test",
		Text:   "Ended the test prematurely.\nYou'll never know...",
		Colour: test.Colour,
	}
}
