package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// DefaultCommandsPerPage is used when no page size is configured.
const DefaultCommandsPerPage = 10

// BuildHelpPages groups commands by category and packs them onto pages of at
// most perPage lines. Larger categories come first; a category that does not
// fit on the current page starts a new one, and oversize categories are split.
func BuildHelpPages(commands []entities.Command, perPage int) []entities.Page {
	if perPage <= 0 {
		perPage = DefaultCommandsPerPage
	}

	var order []string
	groups := make(map[string][]string)
	for _, c := range commands {
		if _, ok := groups[c.Category]; !ok {
			order = append(order, c.Category)
		}
		groups[c.Category] = append(groups[c.Category], FormatCommand(c))
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]]) > len(groups[order[j]])
	})

	var (
		pages   []entities.Page
		current entities.Page
		onPage  int
	)
	flush := func() {
		if len(current) > 0 {
			pages = append(pages, current)
		}
		current, onPage = nil, 0
	}

	for _, category := range order {
		items := groups[category]
		switch {
		case len(items) > perPage:
			flush()
			for start := 0; start < len(items); start += perPage {
				end := min(start+perPage, len(items))
				current = append(current, entities.Section{Label: category, Items: items[start:end]})
				onPage = end - start
				if onPage == perPage {
					flush()
				}
			}
		case len(items) > perPage-onPage:
			flush()
			current = entities.Page{{Label: category, Items: items}}
			onPage = len(items)
		default:
			current = append(current, entities.Section{Label: category, Items: items})
			onPage += len(items)
		}
	}
	flush()

	return pages
}

// ChunkPages splits lines of a single group into pages of at most perPage lines.
func ChunkPages(label string, lines []string, perPage int) []entities.Page {
	if perPage <= 0 {
		perPage = DefaultCommandsPerPage
	}

	var pages []entities.Page
	for start := 0; start < len(lines); start += perPage {
		end := min(start+perPage, len(lines))
		pages = append(pages, entities.Page{{Label: label, Items: lines[start:end]}})
	}
	return pages
}

// CommandPage returns the single help page describing one command.
func CommandPage(c entities.Command) entities.Page {
	usage := c.Name
	if c.Usage != "" {
		usage += " " + c.Usage
	}
	return entities.Page{{Label: usage, Items: []string{c.Description}}}
}

// FormatCommand renders a command as one help line.
func FormatCommand(c entities.Command) string {
	name := c.Name
	if c.Usage != "" {
		name += " " + c.Usage
	}
	return fmt.Sprintf("%s - %s", name, c.Description)
}

// FindCommand returns the command called name, ignoring case.
func FindCommand(commands []entities.Command, name string) (entities.Command, bool) {
	for _, c := range commands {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return entities.Command{}, false
}

// CategoryCommands returns the commands of a category, ignoring case, and the
// category's canonical name.
func CategoryCommands(commands []entities.Command, category string) (string, []entities.Command) {
	var (
		name  string
		found []entities.Command
	)
	for _, c := range commands {
		if strings.EqualFold(c.Category, category) {
			name = c.Category
			found = append(found, c)
		}
	}
	return name, found
}

// VisibleCommands drops admin-only commands unless the viewer is an admin.
func VisibleCommands(commands []entities.Command, admin bool) []entities.Command {
	out := make([]entities.Command, 0, len(commands))
	for _, c := range commands {
		if c.AdminOnly && !admin {
			continue
		}
		out = append(out, c)
	}
	return out
}
