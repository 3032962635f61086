package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// Pagination is the navigation state of a multi-page listing.
// Every move is clamped; once stopped, further moves are ignored.
type Pagination struct {
	index   int
	count   int
	stopped bool
}

// NewPagination creates a pagination over count pages starting at the first one.
func NewPagination(count int) *Pagination {
	return &Pagination{count: count}
}

// Index returns the current page index.
func (p *Pagination) Index() int { return p.index }

// Count returns the number of pages.
func (p *Pagination) Count() int { return p.count }

// Stopped reports whether the pagination has ended.
func (p *Pagination) Stopped() bool { return p.stopped }

// First moves to the first page.
func (p *Pagination) First() bool { return p.moveTo(0) }

// Last moves to the last page.
func (p *Pagination) Last() bool { return p.moveTo(p.count - 1) }

// Next moves one page forward unless already on the last page.
func (p *Pagination) Next() bool {
	if p.index+1 >= p.count {
		return false
	}
	return p.moveTo(p.index + 1)
}

// Previous moves one page back unless already on the first page.
func (p *Pagination) Previous() bool {
	if p.index-1 < 0 {
		return false
	}
	return p.moveTo(p.index - 1)
}

// Stop ends pagination.
func (p *Pagination) Stop() {
	p.stopped = true
}

// Apply performs the move named by a navigation symbol and reports whether
// the visible page changed.
func (p *Pagination) Apply(sym Symbol) bool {
	switch sym {
	case SymbolFirst:
		return p.First()
	case SymbolLast:
		return p.Last()
	case SymbolNext:
		return p.Next()
	case SymbolPrev:
		return p.Previous()
	case SymbolStop:
		p.Stop()
	}
	return false
}

func (p *Pagination) moveTo(i int) bool {
	if p.stopped || i < 0 || i >= p.count || i == p.index {
		return false
	}
	p.index = i
	return true
}

// PaginationControls returns the navigation symbols offered for count pages.
// A single page gets none; two pages skip first/last.
func PaginationControls(count int) []Symbol {
	switch {
	case count <= 1:
		return nil
	case count == 2:
		return []Symbol{SymbolPrev, SymbolNext, SymbolStop}
	default:
		return NavigationSymbols
	}
}

// Paginate shows pages to player and lets them navigate until they stop or
// stay idle for the configured help timeout. A single page is rendered once
// without controls and returns immediately.
func (s *Sessions) Paginate(ctx context.Context, player Player, title string, pages []entities.Page) (*entities.Result, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("paginate %q: %w", title, ErrNotFound)
	}

	result, log := s.begin(entities.KindHelp, title, player, len(pages))
	controls := PaginationControls(len(pages))
	state := NewPagination(len(pages))

	ref, err := s.messenger.Send(ctx, player.ChannelID, pageView(title, pages, state.Index(), controls))
	if err != nil {
		return nil, fmt.Errorf("send page: %w", err)
	}
	if len(controls) == 0 {
		return s.end(ctx, log, result, entities.OutcomeFinished), nil
	}

	accept := acceptFrom(player, ref, controls)
	for {
		sig, outcome, err := s.await(ctx, ref, accept, s.timeouts.HelpIdle)
		if err != nil {
			return nil, fmt.Errorf("await navigation: %w", err)
		}
		if outcome != "" {
			state.Stop()
			if outcome == entities.OutcomeCancelled {
				// stop is how a listing normally ends
				outcome = entities.OutcomeFinished
			}
			if err := s.messenger.Edit(ctx, ref, View{Header: "Closed the help menu."}); err != nil {
				return nil, fmt.Errorf("close pages: %w", err)
			}
			return s.end(ctx, log, result, outcome), nil
		}

		result.Answered++
		if !state.Apply(sig.Symbol) {
			continue
		}
		if err := s.messenger.Edit(ctx, ref, pageView(title, pages, state.Index(), controls)); err != nil {
			return nil, fmt.Errorf("show page %d: %w", state.Index()+1, err)
		}
	}
}

func pageView(title string, pages []entities.Page, index int, controls []Symbol) View {
	total := 0
	for _, p := range pages {
		total += p.ItemCount()
	}

	v := View{
		Title:    title,
		Sections: pages[index],
		Colour:   entities.DefaultColour,
		Controls: controls,
	}
	if len(pages) > 1 {
		v.Footer = fmt.Sprintf("Page %d/%d (%d entries)", index+1, len(pages), total)
	}
	return v
}
