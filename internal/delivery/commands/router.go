package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

const (
	msgUnknownCommand = "Unknown command. Try %shelp."
	msgUnauthorized   = "You are not allowed to reload the catalog."
	msgReloadFailed   = "Reload failed, the previous catalog is still active: %v"
	msgNoHelpTopic    = "No command or category called %q."
	msgNoHistory      = "You have not finished any quizzes, tests or games yet."
	msgEmpty          = "There are no %s yet."
	msgNoMatch        = "No %s matches %q."
)

// Catalog is the registry the router reads from and reloads.
type Catalog interface {
	Snapshot() *entities.Catalog
	IsAdmin(userID string) bool
	ReloadAs(ctx context.Context, userID string) (*entities.Catalog, error)
}

// Options configures a Router.
type Options struct {
	Prefix          string // command prefix shown in help, e.g. "/" or "!"
	CommandsPerPage int
	HistoryLimit    int
}

// Router executes chat commands on one platform.
type Router struct {
	sessions *service.Sessions
	catalog  Catalog
	matcher  *service.TitleMatcher
	results  service.ResultStore
	commands []entities.Command
	opts     Options
	logger   *zap.Logger
}

// NewRouter creates a Router. results may be nil to disable history.
func NewRouter(
	sessions *service.Sessions,
	catalog Catalog,
	matcher *service.TitleMatcher,
	results service.ResultStore,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		sessions: sessions,
		catalog:  catalog,
		matcher:  matcher,
		results:  results,
		commands: List(opts.Prefix),
		opts:     opts,
		logger:   logger,
	}
}

// Handle runs the command name with its raw argument string. It blocks for
// as long as the started session lasts.
func (r *Router) Handle(ctx context.Context, player service.Player, name, args string) error {
	args = strings.TrimSpace(args)
	snapshot := r.catalog.Snapshot()

	r.logger.Debug("command received",
		zap.String("user_id", player.ID),
		zap.String("command", name),
		zap.String("args", args),
	)

	switch strings.ToLower(name) {
	case cmdQuiz:
		title, ok, err := r.pick(ctx, player, "quiz", args, snapshot.QuizTitles())
		if !ok || err != nil {
			return err
		}
		quiz, _ := snapshot.Quiz(title)
		_, err = r.sessions.PlayQuiz(ctx, player, quiz)
		return err

	case cmdTest:
		title, ok, err := r.pick(ctx, player, "alignment test", args, snapshot.TestTitles())
		if !ok || err != nil {
			return err
		}
		test, _ := snapshot.Test(title)
		_, err = r.sessions.TakeTest(ctx, player, test)
		return err

	case cmdGame:
		title, ok, err := r.pick(ctx, player, "game", args, snapshot.GameTitles())
		if !ok || err != nil {
			return err
		}
		game, _ := snapshot.Game(title)
		_, err = r.sessions.PlayGame(ctx, player, game)
		return err

	case cmdQuizzes:
		return r.list(ctx, player, categoryQuizzes, "quizzes", snapshot.QuizTitles())
	case cmdTests:
		return r.list(ctx, player, categoryTests, "alignment tests", snapshot.TestTitles())
	case cmdGames:
		return r.list(ctx, player, categoryGames, "games", snapshot.GameTitles())

	case cmdHelp:
		return r.help(ctx, player, args)
	case cmdHistory:
		return r.history(ctx, player)
	case cmdReload:
		return r.reload(ctx, player)

	default:
		return r.reply(ctx, player, fmt.Sprintf(msgUnknownCommand, r.opts.Prefix))
	}
}

// pick resolves the requested title. ok is false when the player was already
// told that nothing matched.
func (r *Router) pick(ctx context.Context, player service.Player, kind, query string, titles []string) (string, bool, error) {
	if len(titles) == 0 {
		return "", false, r.reply(ctx, player, fmt.Sprintf(msgEmpty, kind+"s"))
	}

	title, err := r.matcher.Resolve(query, titles)
	if errors.Is(err, service.ErrNotFound) {
		return "", false, r.reply(ctx, player, fmt.Sprintf(msgNoMatch, kind, query))
	}
	if err != nil {
		return "", false, err
	}
	return title, true, nil
}

func (r *Router) list(ctx context.Context, player service.Player, label, plural string, titles []string) error {
	if len(titles) == 0 {
		return r.reply(ctx, player, fmt.Sprintf(msgEmpty, plural))
	}
	pages := service.ChunkPages(label, titles, r.opts.CommandsPerPage)
	_, err := r.sessions.Paginate(ctx, player, "Available "+plural, pages)
	return err
}

func (r *Router) help(ctx context.Context, player service.Player, topic string) error {
	visible := service.VisibleCommands(r.commands, r.catalog.IsAdmin(player.ID))

	if topic == "" {
		pages := service.BuildHelpPages(visible, r.opts.CommandsPerPage)
		_, err := r.sessions.Paginate(ctx, player, "Help", pages)
		return err
	}

	if cmd, ok := service.FindCommand(visible, r.opts.Prefix+strings.TrimPrefix(topic, r.opts.Prefix)); ok {
		_, err := r.sessions.Paginate(ctx, player, "Help", []entities.Page{service.CommandPage(cmd)})
		return err
	}

	if category, cmds := service.CategoryCommands(visible, topic); len(cmds) > 0 {
		pages := service.BuildHelpPages(cmds, r.opts.CommandsPerPage)
		_, err := r.sessions.Paginate(ctx, player, "Help: "+category, pages)
		return err
	}

	return r.reply(ctx, player, fmt.Sprintf(msgNoHelpTopic, topic))
}

func (r *Router) history(ctx context.Context, player service.Player) error {
	if r.results == nil {
		return r.reply(ctx, player, msgNoHistory)
	}

	results, err := r.results.Recent(ctx, player.ID, r.opts.HistoryLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(results) == 0 {
		return r.reply(ctx, player, msgNoHistory)
	}

	lines := make([]string, 0, len(results))
	for _, res := range results {
		lines = append(lines, r.formatResult(res))
	}
	pages := service.ChunkPages("Recent results", lines, r.opts.CommandsPerPage)
	_, err = r.sessions.Paginate(ctx, player, fmt.Sprintf("%s's history", player.Name), pages)
	return err
}

func (r *Router) formatResult(res *entities.Result) string {
	var summary string
	switch {
	case res.Outcome != entities.OutcomeFinished:
		summary = strings.ReplaceAll(string(res.Outcome), "_", " ")
	case res.Kind == entities.KindQuiz:
		summary = fmt.Sprintf("%d/%d", res.Score, res.Total)
	default:
		summary = res.Detail
	}

	// Casers are stateful and not shared between goroutines.
	return fmt.Sprintf("%s %s: %s (%s)",
		cases.Title(language.English).String(string(res.Kind)),
		res.Title,
		summary,
		res.FinishedAt.Format("2006-01-02 15:04"),
	)
}

func (r *Router) reload(ctx context.Context, player service.Player) error {
	c, err := r.catalog.ReloadAs(ctx, player.ID)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return r.reply(ctx, player, msgUnauthorized)
	case err != nil:
		return r.reply(ctx, player, fmt.Sprintf(msgReloadFailed, err))
	default:
		return r.reply(ctx, player, service.ReloadSummary(c))
	}
}

func (r *Router) reply(ctx context.Context, player service.Player, text string) error {
	_, err := r.sessions.Messenger().Send(ctx, player.ChannelID, service.View{Text: text, Colour: entities.DefaultColour})
	if err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}
