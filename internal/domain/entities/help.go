package entities

// Command describes one chat command for help listings.
type Command struct {
	Name        string // invocation name without prefix
	Usage       string // argument synopsis, e.g. "[name]"
	Description string
	Category    string
	AdminOnly   bool
}

// Section is a labelled group of lines on a help page.
type Section struct {
	Label string
	Items []string
}

// Page is one screen of a paginated listing.
type Page []Section

// ItemCount returns the number of lines across all sections of the page.
func (p Page) ItemCount() int {
	n := 0
	for _, s := range p {
		n += len(s.Items)
	}
	return n
}
