package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"nutrition_tracker/internal/core"
	"nutrition_tracker/internal/export"
	"nutrition_tracker/internal/nodes"
	"nutrition_tracker/internal/server"
	"nutrition_tracker/internal/services"
	"nutrition_tracker/internal/storage"
	"nutrition_tracker/internal/ui"
	"nutrition_tracker/pkg"
	"nutrition_tracker/src"
	"nutrition_tracker/src/conversation"
	"nutrition_tracker/src/llm"
	"nutrition_tracker/src/llm/nutrition"
	"nutrition_tracker/src/logger"

	"github.com/charmbracelet/huh"
	einomodel "github.com/cloudwego/eino/components/model"
)

const usage = `Usage: nutrition_tracker <command> [flags]

Commands:
  status                     today's totals and carb budget
  log <description>          estimate a meal with the model and log it
  history [-today]           logged meals, newest first
  week                       carbs per day for the last 7 days
  profile [-edit]            show or edit the user profile
  glucose add <mg/dL> [-meal TYPE] [-notes TEXT]
  glucose list [-day YYYY-MM-DD]
  glucose avg [-day YYYY-MM-DD]
  chat                       talk to the nutrition assistant
  export -format csv|json|sqlite -out PATH
  serve                      run the tool-call HTTP endpoint
`

type app struct {
	cfg      *src.Config
	profiles *storage.ProfileStore
	meals    *storage.MealLog
	glucose  *storage.BloodSugarLog
	foods    *services.FoodService
	model    einomodel.BaseChatModel
	tracker  *core.Tracker
}

func newApp(ctx context.Context, cfg *src.Config, withModel bool) (*app, error) {
	a := &app{
		cfg:      cfg,
		profiles: storage.NewProfileStore(cfg.StorageConfig.ProfilePath()),
		meals:    storage.NewMealLog(cfg.StorageConfig.MealLogPath()),
		glucose:  storage.NewBloodSugarLog(cfg.StorageConfig.GlucoseLogPath()),
		foods:    services.NewFoodService(),
	}

	var estimator core.Estimator
	if withModel {
		cm, err := llm.NewChatModel(ctx, cfg.LLMConfig)
		if err != nil {
			return nil, err
		}
		a.model = cm
		estimator = nutrition.NewEstimator(cm)
	}
	a.tracker = core.NewTracker(estimator, a.meals, a.glucose, a.profiles)
	return a, nil
}

// profile loads the stored profile, running the interactive form when there is none
func (a *app) profile() (pkg.UserProfile, error) {
	return a.profiles.GetOrCreate(ui.ProfileCreator())
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := src.LoadConfig(src.DefaultConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorText(err.Error()))
		os.Exit(1)
	}
	closer, err := logger.InitLogger(cfg.LogConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorText(err.Error()))
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return
		}
		logger.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		fmt.Fprintln(os.Stderr, ui.ErrorText(err.Error()))
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *src.Config, command string, args []string) error {
	needsModel := command == "log" || command == "chat" || command == "serve"
	if command == "help" || command == "-h" || command == "--help" {
		fmt.Print(usage)
		return nil
	}

	a, err := newApp(ctx, cfg, needsModel)
	if err != nil {
		return err
	}

	switch command {
	case "status":
		return a.status(os.Stdout)
	case "log":
		return a.logMeal(ctx, os.Stdout, args)
	case "history":
		return a.history(os.Stdout, args)
	case "week":
		return a.week(os.Stdout)
	case "profile":
		return a.editProfile(os.Stdout, args)
	case "glucose":
		return a.glucoseCommand(os.Stdout, args)
	case "chat":
		return a.chat(ctx, os.Stdin, os.Stdout)
	case "export":
		return a.export(os.Stdout, args)
	case "serve":
		return a.serve(ctx)
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", command)
}

func (a *app) status(out io.Writer) error {
	p, err := a.profile()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, a.statusView(p))
	return nil
}

func (a *app) statusView(p pkg.UserProfile) string {
	return ui.Status(p, a.tracker.TodayTotals(p.UserID), a.tracker.Budget(p))
}

func (a *app) logMeal(ctx context.Context, out io.Writer, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return &pkg.ValidationError{Field: "description", Reason: "usage: log <description>"}
	}
	p, err := a.profile()
	if err != nil {
		return err
	}

	entry, err := a.tracker.LogMeal(ctx, p.UserID, description)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ui.Estimate(pkg.MacroEstimate{ItemName: entry.ItemName, Nutrients: entry.Nutrients}))
	fmt.Fprintln(out, ui.SuccessText("Logged "+entry.ItemName))
	fmt.Fprintln(out, a.tracker.Budget(p).String())
	return nil
}

func (a *app) history(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	today := fs.Bool("today", false, "only today's meals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := a.profile()
	if err != nil {
		return err
	}

	title := "All meals"
	if *today {
		title = "Today " + a.tracker.Today()
	}
	fmt.Fprintln(out, ui.History(title, a.tracker.History(p.UserID, *today)))
	return nil
}

func (a *app) week(out io.Writer) error {
	p, err := a.profile()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ui.Week(a.tracker.Week(p.UserID), p.CarbBudget))
	return nil
}

func (a *app) editProfile(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	edit := fs.Bool("edit", false, "edit the stored profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := a.profile()
	if err != nil {
		return err
	}
	if *edit {
		p, err = ui.RunProfileForm(ui.AnswersFromProfile(p))
		if err != nil {
			return err
		}
		if err := a.tracker.SaveProfile(p); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.SuccessText("Profile saved"))
	}
	fmt.Fprintln(out, services.FormatUserContext(p))
	return nil
}

func (a *app) glucoseCommand(out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: glucose add|list|avg")
	}

	fs := flag.NewFlagSet("glucose "+args[0], flag.ContinueOnError)
	day := fs.String("day", "", "calendar day YYYY-MM-DD, all days when empty")
	mealType := fs.String("meal", "", "meal context, e.g. fasting or after lunch")
	notes := fs.String("notes", "", "free-text notes")

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: glucose add <mg/dL> [-meal TYPE] [-notes TEXT]")
		}
		level, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return &pkg.ValidationError{Field: "glucose_level", Reason: fmt.Sprintf("not a number: %q", args[1])}
		}
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		entry, err := a.tracker.LogBloodSugar(level, *mealType, *notes)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.SuccessText(fmt.Sprintf("Logged %.0f mg/dL at %s", entry.GlucoseLevel, entry.Timestamp)))
		return nil
	case "list", "avg":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		avg, ok := a.tracker.AverageGlucose(*day)
		if args[0] == "avg" {
			if !ok {
				fmt.Fprintln(out, "No blood sugar readings")
				return nil
			}
			fmt.Fprintf(out, "Average glucose: %.1f mg/dL\n", avg)
			return nil
		}
		fmt.Fprintln(out, ui.Glucose(a.tracker.BloodSugar(*day), avg, ok))
		return nil
	}
	return fmt.Errorf("unknown glucose command %q", args[0])
}

func (a *app) chat(ctx context.Context, in io.Reader, out io.Writer) error {
	p, err := a.profile()
	if err != nil {
		return err
	}

	repo, err := a.conversationRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	system := services.SystemPrompt(p, a.tracker.CarbsRemaining(p), a.foods.Names())
	assistant := conversation.NewAssistant(a.model, repo,
		conversation.NewRecentTurnsStrategy(a.cfg.ConversationConfig.MaxTurns), system)

	commands := map[string]conversation.Command{
		"profile": func(context.Context) string { return services.FormatUserContext(p) },
		"tips": func(context.Context) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Tips for %s:\n", p.Category())
			for _, tip := range services.Tips(p.Category()) {
				fmt.Fprintf(&b, "  - %s\n", tip)
			}
			return strings.TrimRight(b.String(), "\n")
		},
		"status": func(context.Context) string { return a.statusView(p) },
	}

	fmt.Fprintln(out, "Nutrition assistant ready. Commands: profile, tips, status, exit")
	return assistant.Run(ctx, in, out, commands)
}

// conversationRepository uses Redis when REDIS_URL is set, in-memory otherwise
func (a *app) conversationRepository(ctx context.Context) (conversation.Repository, error) {
	conf := a.cfg.ConversationConfig
	if conf.RedisURL == "" {
		return conversation.NewMemoryRepository(), nil
	}
	return conversation.NewRedisRepository(ctx, conf.RedisURL, conf.TTL)
}

func (a *app) export(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", export.FormatCSV, "csv, json or sqlite")
	path := fs.String("out", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		*path = "meals." + *format
	}

	p, err := a.profile()
	if err != nil {
		return err
	}
	meals := a.tracker.History(p.UserID, false)
	if err := export.Write(*format, meals, *path); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.SuccessText(fmt.Sprintf("Exported %d meals to %s", len(meals), *path)))
	return nil
}

func (a *app) serve(ctx context.Context) error {
	tools, err := nodes.NewToolset(a.tracker, a.foods).Tools()
	if err != nil {
		return err
	}
	srv, err := server.NewToolServer(ctx, a.cfg.ServerConfig, tools)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
