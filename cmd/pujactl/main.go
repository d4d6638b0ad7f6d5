// Command pujactl is the operator CLI for a PujaHub deployment.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dalemusser/pujahub/internal/app/bootstrap"
	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/authutil"
	"github.com/dalemusser/waffle/config"
	"github.com/docopt/docopt-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const Version = "0.1.0"

var (
	Out = log.New(os.Stdout, "", 0)
	Err = log.New(os.Stderr, "pujactl: ", 0)
)

const usage = `PujaHub operator tool.

Store settings default to the PUJAHUB_* environment (a .env file in the
working directory is read first).

Usage:
    pujactl tier <role>
    pujactl summary <pujaId> [--club=<clubId>] [options]
    pujactl watch <collection>... [options]
    pujactl hash-password [--password=<password>]
    pujactl -h | --help
    pujactl --version

Options:
    -h --help                  Show this screen.
    --version                  Show version.
    --club=<clubId>            Restrict club-owned records to this club.
    --backend=<backend>        mongo, firestore or memory.
    --mongo_uri=<uri>          MongoDB connection URI.
    --mongo_database=<name>    MongoDB database name.
    --project=<projectId>      Firestore project id.
    --verbose                  Log store activity to stderr.`

func main() {
	_ = godotenv.Load()

	opts, err := docopt.ParseArgs(usage, os.Args[1:], Version)
	if err != nil {
		Err.Fatal(err)
	}

	switch {
	case flag(opts, "tier"):
		role, _ := opts.String("<role>")
		tier(role)
	case flag(opts, "summary"):
		summary(opts)
	case flag(opts, "watch"):
		watch(opts)
	case flag(opts, "hash-password"):
		hashPassword(opts)
	}
}

func flag(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

// str returns the option value, else the environment variable, else def.
func str(opts docopt.Opts, name, env, def string) string {
	if v, err := opts.String(name); err == nil && v != "" {
		return v
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// tier prints the access tier of a domain role and what it may do.
func tier(role string) {
	for _, line := range tierLines(role) {
		Out.Print(line)
	}
}

func tierLines(role string) []string {
	t := tierpolicy.AccessTierOf(role)
	lines := []string{fmt.Sprintf("%s -> %s", role, t)}
	for _, name := range tierpolicy.Names() {
		mark := "-"
		if tierpolicy.HasPermission(t, name) {
			mark = "+"
		}
		lines = append(lines, fmt.Sprintf("  %s %s", mark, name))
	}
	return lines
}

func connect(ctx context.Context, opts docopt.Opts) (bootstrap.DBDeps, func()) {
	logger := zap.NewNop()
	if flag(opts, "--verbose") {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	cfg := bootstrap.AppConfig{
		StoreBackend:             str(opts, "--backend", "PUJAHUB_STORE_BACKEND", bootstrap.BackendMongo),
		MongoURI:                 str(opts, "--mongo_uri", "PUJAHUB_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:            str(opts, "--mongo_database", "PUJAHUB_MONGO_DATABASE", "pujahub"),
		MongoMaxPoolSize:         4,
		PollInterval:             2 * time.Second,
		FirestoreProjectID:       str(opts, "--project", "PUJAHUB_FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentialsFile: os.Getenv("PUJAHUB_FIRESTORE_CREDENTIALS_FILE"),
	}
	deps, err := bootstrap.ConnectDB(ctx, &config.CoreConfig{}, cfg, logger)
	if err != nil {
		Err.Fatal(err)
	}
	return deps, func() {
		_ = bootstrap.Shutdown(context.Background(), &config.CoreConfig{}, cfg, deps, logger)
	}
}

// summary prints the dashboard figures and budget rows of a puja.
func summary(opts docopt.Opts) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	deps, closeStore := connect(ctx, opts)
	defer closeStore()

	pujaID, _ := opts.String("<pujaId>")
	clubID, _ := opts.String("--club")
	if _, err := docstore.Get(ctx, deps.Store, "pujas", pujaID); err != nil {
		Err.Fatalf("puja %s: %v", pujaID, err)
	}
	s, err := clientstore.ForPuja(ctx, deps.Store, pujaID, clubID)
	if err != nil {
		Err.Fatal(err)
	}

	sum := s.Summary(time.Now())
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "collected\t%.2f\n", sum.TotalCollected)
	fmt.Fprintf(tw, "spent\t%.2f\n", sum.TotalSpent)
	fmt.Fprintf(tw, "remaining\t%.2f\n", sum.RemainingBalance)
	fmt.Fprintf(tw, "upcoming tasks\t%d\n", sum.UpcomingTasks)
	fmt.Fprintf(tw, "pending items\t%d\n\n", sum.PendingItems)

	fmt.Fprintln(tw, "ITEM\tALLOCATED\tSPENT\tREMAINING\tSTATUS")
	for _, row := range s.BudgetStatuses() {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\n", row.ItemName, row.Allocated, row.Spent, row.Remaining, row.Label)
	}
	fmt.Fprintf(tw, "unallocated spend\t\t%.2f\t\t\n", sum.Budget.UnallocatedSpend)
	_ = tw.Flush()
}

// watch prints a line per snapshot until interrupted.
func watch(opts docopt.Opts) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	deps, closeStore := connect(ctx, opts)
	defer closeStore()

	names, _ := opts["<collection>"].([]string)
	s := clientstore.New()
	s.OnChange(func(name string) {
		Out.Printf("%s %s: %d records", time.Now().Format(time.TimeOnly), name, len(s.Collection(name)))
	})
	if err := clientstore.Bind(ctx, deps.Store, s, names...); err != nil {
		Err.Fatal(err)
	}
}

// hashPassword prints a bcrypt hash for seeding a member or club by hand.
func hashPassword(opts docopt.Opts) {
	password, _ := opts.String("--password")
	if password == "" {
		fmt.Fprint(os.Stderr, "Enter password: ")
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			Err.Fatal(err)
		}
		password = string(b)
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		Err.Fatal(err)
	}
	Out.Print(hash)
}
