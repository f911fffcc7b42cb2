package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dukerupert/jobdeck/internal/api"
	"github.com/dukerupert/jobdeck/internal/auth"
	"github.com/dukerupert/jobdeck/internal/config"
	"github.com/dukerupert/jobdeck/internal/database"
	"github.com/dukerupert/jobdeck/internal/jobs"
	"github.com/dukerupert/jobdeck/internal/logging"
	"github.com/dukerupert/jobdeck/internal/pins"
	"github.com/dukerupert/jobdeck/internal/prefs"
	"github.com/dukerupert/jobdeck/internal/vault"
)

type app struct {
	auth  *auth.Service
	jobs  *jobs.Service
	pins  *pins.Syncer
	prefs *prefs.Service
}

func main() {
	// .env is optional; environment variables may be set directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	var store *vault.Store
	db, err := database.Open(cfg.VaultPath)
	if err != nil {
		slog.Warn("vault database unavailable; session will not survive restarts", "error", err)
		store = vault.New(nil, cfg.VaultPassphrase)
	} else {
		defer db.Close()
		store = vault.New(db, cfg.VaultPassphrase)
	}

	client := api.New(api.Config{BaseURL: cfg.APIBaseURL}, store)
	a := &app{
		auth:  auth.NewService(client, store),
		jobs:  jobs.NewService(client),
		pins:  pins.NewSyncer(client),
		prefs: prefs.NewService(client),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: jobdeck <command> [flags]

Commands:
  login      -email <addr> -password <secret>
  register   -email <addr> -password <secret> -username <name>
  logout
  whoami
  jobs       [-q <phrase>] [-location <place>] [-remote true|false]
  pins       list | toggle <listing-id>
  prefs      show | add <keyword|location|type> <value>
             | remove <keyword|location|type> <value>
             | set [-remote true|false] [-salary-min <n>] [-alerts true|false]`)
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.runLogin(ctx, args)
	case "register":
		return a.runRegister(ctx, args)
	case "logout":
		a.auth.Logout()
		fmt.Println("Session cleared.")
		return nil
	case "whoami":
		return a.runWhoami(ctx)
	case "jobs":
		return a.runJobs(ctx, args)
	case "pins":
		return a.runPins(ctx, args)
	case "prefs":
		return a.runPrefs(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}
	if _, err := a.auth.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

func (a *app) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	username := fs.String("username", "", "display name")
	fs.Parse(args)

	if *email == "" || *password == "" || *username == "" {
		return errors.New("register requires -email, -password and -username")
	}
	if _, err := a.auth.Register(ctx, *email, *password, *username); err != nil {
		return err
	}
	fmt.Println("Account created and logged in.")
	return nil
}

func (a *app) runWhoami(ctx context.Context) error {
	user, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	return nil
}

func (a *app) runJobs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ExitOnError)
	phrase := fs.String("q", "", "search phrase")
	location := fs.String("location", "", "location filter")
	remote := fs.String("remote", "", "true or false; empty leaves the filter unset")
	fs.Parse(args)

	criteria := &jobs.Criteria{Phrase: *phrase, Location: *location}
	if *remote != "" {
		v, err := strconv.ParseBool(*remote)
		if err != nil {
			return fmt.Errorf("invalid -remote value %q", *remote)
		}
		criteria.Remote = &v
	}

	listings, err := a.jobs.Search(ctx, criteria)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Println("No matching listings.")
		return nil
	}
	for _, l := range listings {
		fmt.Printf("%6d  %s — %s (%s)\n", l.ID, l.Title, l.Company, l.Location)
	}
	return nil
}

func (a *app) runPins(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("pins requires a subcommand: list or toggle")
	}

	switch args[0] {
	case "list":
		records, err := a.pins.Saved(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("Nothing pinned.")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%6d  %s — %s (%s)\n", r.ListingID(), r.Title, r.Company, r.Location)
		}
		return nil
	case "toggle":
		if len(args) < 2 {
			return errors.New("pins toggle requires a listing id")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid listing id %q", args[1])
		}
		if err := a.pins.Reconcile(ctx); err != nil {
			return err
		}
		pinned, err := a.pins.Toggle(ctx, id)
		if err != nil {
			return err
		}
		if pinned {
			fmt.Printf("Pinned listing %d.\n", id)
		} else {
			fmt.Printf("Unpinned listing %d.\n", id)
		}
		return nil
	default:
		return fmt.Errorf("unknown pins subcommand %q", args[0])
	}
}

func (a *app) runPrefs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("prefs requires a subcommand: show, add, remove or set")
	}

	switch args[0] {
	case "show":
		p, err := a.prefs.Fetch(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Keywords:   %v\n", p.Keywords)
		fmt.Printf("Locations:  %v\n", p.Locations)
		fmt.Printf("Job types:  %v\n", p.JobTypes)
		fmt.Printf("Remote:     %t\n", p.RemotePreference)
		fmt.Printf("Salary min: %d\n", p.SalaryMin)
		fmt.Printf("Alerts:     %t\n", p.EmailAlerts)
		return nil
	case "add", "remove":
		if len(args) < 3 {
			return fmt.Errorf("prefs %s requires a field (keyword, location or type) and a value", args[0])
		}
		return a.editPrefList(ctx, args[0], args[1], args[2])
	case "set":
		return a.setPrefs(ctx, args[1:])
	default:
		return fmt.Errorf("unknown prefs subcommand %q", args[0])
	}
}

func (a *app) editPrefList(ctx context.Context, op, field, value string) error {
	p, err := a.prefs.Fetch(ctx)
	if err != nil {
		return err
	}

	var changed bool
	switch field {
	case "keyword":
		if op == "add" {
			changed = prefs.AddKeyword(&p, value)
		} else {
			changed = prefs.RemoveKeyword(&p, value)
		}
	case "location":
		if op == "add" {
			changed = prefs.AddLocation(&p, value)
		} else {
			changed = prefs.RemoveLocation(&p, value)
		}
	case "type":
		if op == "add" {
			changed = prefs.AddJobType(&p, value)
		} else {
			changed = prefs.RemoveJobType(&p, value)
		}
	default:
		return fmt.Errorf("unknown preference field %q", field)
	}

	if !changed {
		fmt.Println("No change.")
		return nil
	}
	if _, err := a.prefs.Persist(ctx, p); err != nil {
		return err
	}
	fmt.Println("Preferences saved.")
	return nil
}

func (a *app) setPrefs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prefs set", flag.ExitOnError)
	remote := fs.String("remote", "", "prefer remote listings: true or false")
	salaryMin := fs.Int("salary-min", -1, "minimum salary")
	alerts := fs.String("alerts", "", "email alerts: true or false")
	fs.Parse(args)

	p, err := a.prefs.Fetch(ctx)
	if err != nil {
		return err
	}
	if *remote != "" {
		v, err := strconv.ParseBool(*remote)
		if err != nil {
			return fmt.Errorf("invalid -remote value %q", *remote)
		}
		p.RemotePreference = v
	}
	if *salaryMin >= 0 {
		p.SalaryMin = *salaryMin
	}
	if *alerts != "" {
		v, err := strconv.ParseBool(*alerts)
		if err != nil {
			return fmt.Errorf("invalid -alerts value %q", *alerts)
		}
		p.EmailAlerts = v
	}

	if _, err := a.prefs.Persist(ctx, p); err != nil {
		return err
	}
	fmt.Println("Preferences saved.")
	return nil
}
