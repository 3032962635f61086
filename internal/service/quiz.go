package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

const quizFooter = "React with your choice to answer, or with cancel to end."

// PlayQuiz runs one quiz for player and returns its result.
//
// The question order is scrambled once, each question's options are scrambled
// when it is presented, and the score grows by one per correct answer.
// Cancel or timeout ends the session without a final score.
func (s *Sessions) PlayQuiz(ctx context.Context, player Player, quiz *entities.Quiz) (*entities.Result, error) {
	questions := Shuffled(s.scrambler, quiz.Questions)
	result, log := s.begin(entities.KindQuiz, quiz.Title, player, len(questions))

	controls := OptionControls(entities.OptionsPerQuestion)
	ref, err := s.messenger.Send(ctx, player.ChannelID, View{
		Header:   "Loading quiz...",
		Colour:   quiz.Colour,
		Controls: controls,
	})
	if err != nil {
		return nil, fmt.Errorf("send quiz: %w", err)
	}
	accept := acceptFrom(player, ref, controls)

	for i, q := range questions {
		options, correct := s.scrambler.ScrambleQuestion(q)

		err = s.messenger.Edit(ctx, ref, View{
			Header:   fmt.Sprintf("%s's score: %d", player.Name, result.Score),
			Title:    fmt.Sprintf("%s - question %d of %d", quiz.Title, i+1, len(questions)),
			Text:     q.Text,
			Options:  options[:],
			Footer:   quizFooter,
			Colour:   quiz.Colour,
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
			if err := s.messenger.Edit(ctx, ref, quizStoppedView(quiz, outcome)); err != nil {
				return nil, fmt.Errorf("show quiz end: %w", err)
			}
			return s.end(ctx, log, result, outcome), nil
		}

		chosen, _ := OptionIndex(sig.Symbol)
		if chosen == correct {
			result.Score++
		}
		result.Answered++
		log.Debug("question answered",
			zap.Int("question", i+1),
			zap.Bool("correct", chosen == correct),
		)
	}

	err = s.messenger.Edit(ctx, ref, View{
		Header: fmt.Sprintf("Final score for %s: %d", player.Name, result.Score),
		Title:  "Finished Quiz",
		Text:   "The quiz is over.",
		Colour: quiz.Colour,
	})
	if err != nil {
		return nil, fmt.Errorf("show final score: %w", err)
	}

	return s.end(ctx, log, result, entities.OutcomeFinished), nil
}

func quizStoppedView(quiz *entities.Quiz, outcome entities.Outcome) View {
	if outcome == entities.OutcomeTimedOut {
		return View{
			Title:  "Quiz Timed Out",
			Text:   "No answer arrived in time, so the quiz has ended.",
			Colour: quiz.Colour,
		}
	}
	return View{
		Title:  "Cancelled Quiz",
		Text:   "Ended the quiz prematurely.",
		Colour: quiz.Colour,
	}
}
