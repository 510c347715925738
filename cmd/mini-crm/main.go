// ABOUTME: Entry point for the mini-crm command line tool
// ABOUTME: Dispatches subcommands over the client/lead/task stores

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/Codie-king/mini-crm/internal/config"
	"github.com/Codie-king/mini-crm/internal/crm"
	"github.com/Codie-king/mini-crm/internal/ident"
	"github.com/Codie-king/mini-crm/internal/persist"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the mini-crm config file.
// Priority: MINICRM_CONFIG env var > XDG_CONFIG_HOME/mini-crm/config.yaml >
// ~/.config/mini-crm/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("MINICRM_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "mini-crm", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "version" {
		fmt.Println("mini-crm", version)
		return
	}

	if err := run(cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println("Usage: mini-crm <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  clients [--search Q] [--status S] [--tag T]   List clients")
	fmt.Println("  leads                                         Show the pipeline board")
	fmt.Println("  tasks [--overdue] [--upcoming] [--date D]     List tasks")
	fmt.Println("  stats                                         Task and pipeline statistics")
	fmt.Println("  add-client --name N [--email E] ...           Add a client")
	fmt.Println("  add-lead --title T --client ID ...            Add a lead")
	fmt.Println("  add-task --title T ...                        Add a task")
	fmt.Println("  move LEAD_ID STAGE                            Move a lead to another stage")
	fmt.Println("  demo                                          Seed sample data")
	fmt.Println("  version                                       Show version")
}

func run(cmd string, args []string) error {
	ctx := context.Background()

	cfg := config.Default()
	if path := getConfigPath(); fileExists(path) {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	sink, err := openSink(cfg)
	if err != nil {
		return fmt.Errorf("opening data store: %w", err)
	}
	defer sink.Close()

	sys, err := crm.New(ctx, sink, ident.NewSystemService(), logger)
	if err != nil {
		return fmt.Errorf("loading stores: %w", err)
	}

	switch cmd {
	case "clients":
		return cmdClients(sys, args)
	case "leads":
		return cmdLeads(sys)
	case "tasks":
		return cmdTasks(sys, args)
	case "stats":
		return cmdStats(sys)
	case "add-client":
		return cmdAddClient(ctx, sys, args)
	case "add-lead":
		return cmdAddLead(ctx, sys, args)
	case "add-task":
		return cmdAddTask(ctx, sys, args)
	case "move":
		return cmdMove(ctx, sys, args)
	case "demo":
		sys.SeedDemo(ctx)
		fmt.Println("Sample data seeded.")
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func openSink(cfg *config.Config) (persist.Sink, error) {
	switch cfg.Data.Driver {
	case "sqlite":
		return persist.NewSQLiteSink(cfg.Data.SQLitePath)
	default:
		return persist.NewFileSink(cfg.Data.Dir)
	}
}

func cmdClients(sys *crm.System, args []string) error {
	fs := flag.NewFlagSet("clients", flag.ContinueOnError)
	search := fs.String("search", "", "substring of name, email, or company")
	status := fs.String("status", crm.FilterAll, "active, inactive, or all")
	tag := fs.String("tag", crm.FilterAll, "tag to filter by, or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	clients := sys.Clients.Filter(*search, *status, *tag)
	if len(clients) == 0 {
		fmt.Println("No clients.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tEMAIL\tSTATUS\tTAGS")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(c.ID), c.Name, c.Company, c.Email, c.Status, strings.Join(c.Tags, ","))
	}
	return w.Flush()
}

func cmdLeads(sys *crm.System) error {
	bold := color.New(color.Bold)
	for _, stage := range crm.Stages {
		count := sys.Leads.CountByStage(stage)
		value := sys.Leads.StageValue(stage)
		bold.Printf("%s", stageLabel(stage))
		fmt.Printf("  (%d, $%.0f)\n", count, value)
		for _, l := range sys.Leads.ByStage(stage) {
			name := l.ClientName
			if name == "" {
				name = "unknown client"
			}
			fmt.Printf("  %s  %s — %s, $%.0f, %s\n",
				shortID(l.ID), l.Title, name, l.Value, l.Priority)
		}
	}
	fmt.Printf("\nTotal pipeline value: $%.0f\n", sys.Leads.PipelineValue())
	return nil
}

func stageLabel(stage crm.Stage) string {
	switch stage {
	case crm.StageWon:
		return color.GreenString(string(stage))
	case crm.StageLost:
		return color.RedString(string(stage))
	default:
		return color.CyanString(string(stage))
	}
}

func cmdTasks(sys *crm.System, args []string) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	overdue := fs.Bool("overdue", false, "only overdue tasks")
	upcoming := fs.Bool("upcoming", false, "only tasks due in the next 7 days")
	date := fs.String("date", "", "only tasks due on this day (YYYY-MM-DD, UTC)")
	status := fs.String("status", crm.FilterAll, "task status filter")
	priority := fs.String("priority", crm.FilterAll, "priority filter")
	clientID := fs.String("client", crm.FilterAll, "client id filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var tasks []crm.Task
	switch {
	case *overdue:
		tasks = sys.Tasks.Overdue()
	case *upcoming:
		tasks = sys.Tasks.Upcoming()
	case *date != "":
		day, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
		tasks = sys.Tasks.ForDate(day)
	default:
		tasks = sys.Tasks.Filter(*status, *priority, *clientID)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tCLIENT\tASSIGNED")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID), t.Title, t.Status, t.Priority,
			t.DueDate.Format("2006-01-02"), t.ClientName, t.AssignedTo)
	}
	return w.Flush()
}

func cmdStats(sys *crm.System) error {
	stats := sys.Tasks.Stats()
	bold := color.New(color.Bold)

	bold.Println("Tasks")
	fmt.Printf("  total: %d  completed: %d  overdue: %d  upcoming: %d  completion: %d%%\n",
		stats.Total, stats.Completed, stats.Overdue, stats.Upcoming, stats.CompletionRate)

	bold.Println("Pipeline")
	for _, stage := range crm.Stages {
		fmt.Printf("  %-10s %3d  $%.0f\n", stage, sys.Leads.CountByStage(stage), sys.Leads.StageValue(stage))
	}
	fmt.Printf("  %-10s %3d  $%.0f\n", "total", len(sys.Leads.All()), sys.Leads.PipelineValue())
	return nil
}

func cmdAddClient(ctx context.Context, sys *crm.System, args []string) error {
	fs := flag.NewFlagSet("add-client", flag.ContinueOnError)
	name := fs.String("name", "", "client name (required)")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	company := fs.String("company", "", "company name")
	status := fs.String("status", "active", "active or inactive")
	tags := fs.String("tags", "", "comma-separated tags")
	notes := fs.String("notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	st := crm.ClientStatus(*status)
	if !st.Valid() {
		return fmt.Errorf("unknown status %q (want active or inactive)", *status)
	}

	c := crm.Client{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Status:  st,
		Notes:   *notes,
	}
	if *tags != "" {
		c.Tags = strings.Split(*tags, ",")
	}

	added := sys.Clients.Add(ctx, c)
	if err := sys.Clients.LastPersistError(); err != nil {
		return fmt.Errorf("saving client: %w", err)
	}
	fmt.Printf("Added client %s (%s)\n", added.Name, shortID(added.ID))
	return nil
}

func cmdAddLead(ctx context.Context, sys *crm.System, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ContinueOnError)
	title := fs.String("title", "", "lead title (required)")
	clientID := fs.String("client", "", "client id (required)")
	value := fs.Float64("value", 0, "monetary value")
	stage := fs.String("stage", "new", "pipeline stage")
	priority := fs.String("priority", "medium", "low, medium, high, or urgent")
	description := fs.String("description", "", "description")
	notes := fs.String("notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if *clientID == "" {
		return fmt.Errorf("--client is required")
	}
	if !crm.Stage(*stage).Valid() {
		return fmt.Errorf("unknown stage %q (want one of %v)", *stage, crm.Stages)
	}
	if !crm.Priority(*priority).Valid() {
		return fmt.Errorf("unknown priority %q (want low, medium, high, or urgent)", *priority)
	}

	added := sys.CreateLead(ctx, crm.Lead{
		Title:       *title,
		ClientID:    *clientID,
		Value:       *value,
		Stage:       crm.Stage(*stage),
		Priority:    crm.Priority(*priority),
		Description: *description,
		Notes:       *notes,
	})
	if err := sys.Leads.LastPersistError(); err != nil {
		return fmt.Errorf("saving lead: %w", err)
	}
	fmt.Printf("Added lead %s (%s) in stage %s\n", added.Title, shortID(added.ID), added.Stage)
	return nil
}

func cmdAddTask(ctx context.Context, sys *crm.System, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ContinueOnError)
	title := fs.String("title", "", "task title (required)")
	description := fs.String("description", "", "description")
	clientID := fs.String("client", "", "client id")
	leadID := fs.String("lead", "", "lead id")
	due := fs.String("due", "", "due date (YYYY-MM-DD, UTC; defaults to now)")
	priority := fs.String("priority", "medium", "low, medium, high, or urgent")
	assigned := fs.String("assigned", "", "assignee")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if !crm.Priority(*priority).Valid() {
		return fmt.Errorf("unknown priority %q (want low, medium, high, or urgent)", *priority)
	}

	task := crm.Task{
		Title:       *title,
		Description: *description,
		ClientID:    *clientID,
		LeadID:      *leadID,
		Priority:    crm.Priority(*priority),
		AssignedTo:  *assigned,
	}
	if *due != "" {
		day, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("parsing --due: %w", err)
		}
		task.DueDate = day
	}

	added := sys.CreateTask(ctx, task)
	if err := sys.Tasks.LastPersistError(); err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	fmt.Printf("Added task %s (%s) due %s\n", added.Title, shortID(added.ID), added.DueDate.Format("2006-01-02"))
	return nil
}

func cmdMove(ctx context.Context, sys *crm.System, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: mini-crm move LEAD_ID STAGE")
	}
	id, stage := args[0], crm.Stage(args[1])
	if !stage.Valid() {
		return fmt.Errorf("unknown stage %q (want one of %v)", args[1], crm.Stages)
	}
	if _, err := sys.Leads.Get(id); err != nil {
		return fmt.Errorf("lead %s: %w", id, err)
	}

	sys.Leads.MoveStage(ctx, id, stage)
	if err := sys.Leads.LastPersistError(); err != nil {
		return fmt.Errorf("saving lead: %w", err)
	}
	fmt.Printf("Moved %s to %s\n", shortID(id), stage)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
