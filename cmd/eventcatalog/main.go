package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v3"

	"eventcatalog/config"
	"eventcatalog/internal/adapters/email"
	"eventcatalog/internal/delivery/console"
	"eventcatalog/internal/domain"
	"eventcatalog/internal/repository/file"
	"eventcatalog/internal/repository/postgres"
	"eventcatalog/internal/services"
	"eventcatalog/internal/textmatch"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// overrides holds flag values that take precedence over the environment.
type overrides struct {
	dataFile string
	backend  string
}

func run() error {
	var o overrides

	root := &cli.Command{
		Name:  "eventcatalog",
		Usage: "Manage webinars, conferences and workshops and their attendees",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "data-file",
				Aliases:     []string{"f"},
				Usage:       "Event file used by the file backend (overrides EVENT_DATA_FILE)",
				Destination: &o.dataFile,
			},
			&cli.StringFlag{
				Name:        "backend",
				Aliases:     []string{"b"},
				Usage:       "Event store backend: file or postgres (overrides EVENT_STORE_BACKEND)",
				Destination: &o.backend,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return interactive(ctx, o)
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print every stored event",
				Action: func(ctx context.Context, _ *cli.Command) error {
					app, err := openCatalog(ctx, o)
					if err != nil {
						return err
					}
					defer app.close()
					printLines(os.Stdout, app.catalog.ListAll())
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "Print the titles of events similar to QUERY",
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "lenient",
						Usage: fmt.Sprintf("Use the looser similarity threshold (%.2f)", textmatch.LenientThreshold),
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := openCatalog(ctx, o)
					if err != nil {
						return err
					}
					defer app.close()
					query := strings.Join(c.Args().Slice(), " ")
					if c.Bool("lenient") {
						printLines(os.Stdout, app.catalog.SearchWithThreshold(query, textmatch.LenientThreshold))
						return nil
					}
					printLines(os.Stdout, app.catalog.Search(query))
					return nil
				},
			},
		},
	}

	return root.Run(context.Background(), os.Args)
}

// interactive runs the console shell and saves the catalog when it ends. The
// catalog refuses that save if the store could not be loaded at start.
func interactive(ctx context.Context, o overrides) error {
	app, err := openCatalog(ctx, o)
	if err != nil {
		return err
	}
	defer app.close()

	user := domain.NewUserProfile("", "", "", "")
	shell := console.NewShell(app.logger, app.catalog, user, os.Stdin, os.Stdout)
	if err := shell.Run(ctx); err != nil {
		app.logger.ErrorContext(ctx, "shell stopped", "err", err)
	}

	if err := app.catalog.Save(ctx); err != nil {
		app.logger.ErrorContext(ctx, "could not save events", "err", err)
		return err
	}
	return nil
}

type catalogApp struct {
	logger  *slog.Logger
	catalog domain.CatalogService
	db      *sql.DB
}

func (a *catalogApp) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing database", "err", err)
		}
	}
}

// openCatalog wires configuration, storage and mail into a loaded catalog.
// A store that cannot be read leaves the catalog empty.
func openCatalog(ctx context.Context, o overrides) (*catalogApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.dataFile != "" {
		cfg.DataFile = o.dataFile
	}
	if o.backend != "" {
		cfg.Backend = strings.ToLower(o.backend)
		if err := cfg.ValidateBackend(); err != nil {
			return nil, err
		}
	}

	app := &catalogApp{logger: config.NewLogger()}

	var repo domain.EventRepository
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		app.db = db
		repo = postgres.NewEventRepository(db)
	default:
		repo = file.NewEventRepository(cfg.DataFile)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.SES.Region,
			AccessKeyID:        cfg.Mail.SES.AccessKeyID,
			SecretAccessKey:    cfg.Mail.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.Mail.SES.InsecureSkipVerify,
		},
	}, app.logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), app.logger)

	app.catalog = services.NewCatalogService(repo, emailService, app.logger, cfg.SearchThreshold)
	if err := app.catalog.Load(ctx); err != nil {
		app.logger.ErrorContext(ctx, "could not load events, starting with an empty catalog", "err", err)
	}
	return app, nil
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
