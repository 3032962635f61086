package commands

import "github.com/aliskhannn/reaction-games-bot/internal/domain/entities"

const (
	cmdQuiz    = "quiz"
	cmdQuizzes = "quizzes"
	cmdTest    = "test"
	cmdTests   = "tests"
	cmdGame    = "game"
	cmdGames   = "games"
	cmdHelp    = "help"
	cmdHistory = "history"
	cmdReload  = "reload"
)

const (
	categoryQuizzes = "Quizzes"
	categoryTests   = "Alignment Tests"
	categoryGames   = "Games"
	categoryGeneral = "General"
	categoryAdmin   = "Admin"
)

// List returns every command with names carrying the platform prefix.
func List(prefix string) []entities.Command {
	list := []entities.Command{
		{Name: cmdQuiz, Usage: "[name]", Description: "Take a quiz; a random one if no name is given", Category: categoryQuizzes},
		{Name: cmdQuizzes, Description: "List the available quizzes", Category: categoryQuizzes},
		{Name: cmdTest, Usage: "[name]", Description: "Take an alignment test; a random one if no name is given", Category: categoryTests},
		{Name: cmdTests, Description: "List the available alignment tests", Category: categoryTests},
		{Name: cmdGame, Usage: "[name]", Description: "Play a game; a random one if no name is given", Category: categoryGames},
		{Name: cmdGames, Description: "List the available games", Category: categoryGames},
		{Name: cmdHelp, Usage: "[command|category]", Description: "Show this help", Category: categoryGeneral},
		{Name: cmdHistory, Description: "Show your recent results", Category: categoryGeneral},
		{Name: cmdReload, Description: "Reload quizzes, tests and games from the catalog", Category: categoryAdmin, AdminOnly: true},
	}
	for i := range list {
		list[i].Name = prefix + list[i].Name
	}
	return list
}
