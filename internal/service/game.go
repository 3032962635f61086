package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

const gameFooter = "Select your choice below, or quit with cancel."

// PlayGame walks the game tree from its root, one node per accepted choice,
// until an ending is reached or the player quits.
func (s *Sessions) PlayGame(ctx context.Context, player Player, game *entities.Game) (*entities.Result, error) {
	result, log := s.begin(entities.KindGame, game.Title, player, 0)

	ref, err := s.messenger.Send(ctx, player.ChannelID, View{
		Header:   "Loading game...",
		Colour:   game.Root.Colour,
		Controls: OptionControls(entities.OptionsPerQuestion),
	})
	if err != nil {
		return nil, fmt.Errorf("send game: %w", err)
	}

	node := game.Root
	for !node.IsTerminal() {
		children := Shuffled(s.scrambler, node.Children)
		controls := OptionControls(len(children))

		labels := make([]string, len(children))
		for i, child := range children {
			labels[i] = child.Label
		}

		err = s.messenger.Edit(ctx, ref, View{
			Text:     node.Text,
			Options:  labels,
			Footer:   gameFooter,
			Colour:   node.Colour,
			Controls: controls,
		})
		if err != nil {
			return nil, fmt.Errorf("show node %q: %w", node.Label, err)
		}

		sig, outcome, err := s.await(ctx, ref, acceptFrom(player, ref, controls), s.timeouts.Answer)
		if err != nil {
			return nil, fmt.Errorf("await choice: %w", err)
		}
		if outcome != "" {
			if err := s.messenger.Edit(ctx, ref, gameStoppedView(node, outcome)); err != nil {
				return nil, fmt.Errorf("show game end: %w", err)
			}
			return s.end(ctx, log, result, outcome), nil
		}

		chosen, _ := OptionIndex(sig.Symbol)
		node = children[chosen]
		result.Answered++
		log.Debug("choice made", zap.Int("step", result.Answered), zap.String("node", node.Label))
	}

	result.Detail = node.Label
	if err := s.messenger.Edit(ctx, ref, endingView(node)); err != nil {
		return nil, fmt.Errorf("show ending: %w", err)
	}

	return s.end(ctx, log, result, entities.OutcomeFinished), nil
}

func endingView(node *entities.GameNode) View {
	v := View{
		Title:  "The game is now over",
		Colour: node.Colour,
	}
	if node.TextIsImage {
		v.ImageURL = node.Text
	} else {
		v.Text = node.Text
	}
	return v
}

func gameStoppedView(node *entities.GameNode, outcome entities.Outcome) View {
	v := View{
		Title:  "Ended Game",
		Text:   "You quit before the end; the Earth is still in perilous waters.",
		Colour: node.Colour,
	}
	if outcome == entities.OutcomeTimedOut {
		v.Text = "You wandered off before the end; the Earth is still in perilous waters."
	}
	return v
}
