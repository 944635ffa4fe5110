package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/snap-point/directory-api/cache"
	"github.com/snap-point/directory-api/clients"
	"github.com/snap-point/directory-api/config"
	"github.com/snap-point/directory-api/services"
	"github.com/snap-point/directory-api/types"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dirsearch",
		Usage: "Search the automotive business directory from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall deadline for the command",
				Value: 30 * time.Second,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Search for businesses by keyword and location",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "keyword",
						Aliases: []string{"k"},
						Usage:   "Free-text keyword, e.g. \"oil change\"",
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Business category, see the categories command",
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Place name to search around",
					},
					&cli.Float64Flag{
						Name:  "lat",
						Usage: "Latitude of the user",
					},
					&cli.Float64Flag{
						Name:  "lng",
						Usage: "Longitude of the user",
					},
					&cli.StringFlag{
						Name:    "unit",
						Aliases: []string{"u"},
						Usage:   "Distance unit (miles, kilometers)",
						Value:   string(types.UnitMiles),
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the raw JSON response",
					},
				},
			},
			{
				Name:      "details",
				Usage:     "Fetch detail records for one or more place IDs",
				ArgsUsage: "PLACE_ID [PLACE_ID...]",
				Action:    detailsCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the raw JSON response",
					},
				},
			},
			{
				Name:   "categories",
				Usage:  "List supported categories and their place-type hints",
				Action: categoriesCommand,
			},
			{
				Name:   "purge-details",
				Usage:  "Delete expired place details from the database",
				Action: purgeDetailsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Usage:   "PostgreSQL connection string",
						EnvVars: []string{"DATABASE_URL"},
					},
				},
			},
		},
	}
}

func searchCommand(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	req := types.SearchRequest{
		Keyword:  c.String("keyword"),
		Category: types.Category(c.String("category")),
		Location: c.String("location"),
		Unit:     types.Unit(c.String("unit")).Normalize(),
	}
	if c.IsSet("lat") != c.IsSet("lng") {
		return fmt.Errorf("--lat and --lng must be supplied together")
	}
	if c.IsSet("lat") {
		req.UserCoordinates = &types.Coordinates{Lat: c.Float64("lat"), Lng: c.Float64("lng")}
	}

	svc, closeFn, err := newService(false)
	if err != nil {
		return err
	}
	defer closeFn()

	resp, err := svc.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed [%s]: %w", types.ErrorCode(err), err)
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, resp)
	}
	return printBusinesses(c.App.Writer, resp)
}

func detailsCommand(c *cli.Context) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one place ID is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	svc, closeFn, err := newService(true)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.GetBusinessDetailsBatch(ctx, ids)
	if err != nil {
		return fmt.Errorf("details lookup failed: %w", err)
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, d := range result.Details {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Address, d.Phone, d.Website)
	}
	for id, e := range result.Errors {
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, e.Code, e.Message)
	}
	return w.Flush()
}

func categoriesCommand(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, row := range services.CategoryTable() {
		fmt.Fprintf(w, "%s\t%s\n", row.Category, strings.Join(row.PlaceTypes, ", "))
	}
	return w.Flush()
}

func purgeDetailsCommand(c *cli.Context) error {
	dsn := c.String("db")
	if dsn == "" {
		return fmt.Errorf("database connection string is required (--db or DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	db, err := config.ConnectDatabase(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	removed, err := services.NewGormDetailsStore(db, 0).PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge place details: %w", err)
	}

	slog.Info("purged expired place details", "rows", removed)
	fmt.Fprintf(c.App.Writer, "removed %d expired place details\n", removed)
	return nil
}

// newService wires a search service from the environment. The database is
// only consulted when withStore is set and DATABASE_URL is present.
func newService(withStore bool) (*services.SearchService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.Default()
	provider := clients.NewPlacesClient(cfg.Places.APIKey,
		clients.WithBaseURL(cfg.Places.BaseURL),
		clients.WithTimeout(cfg.Places.Timeout),
		clients.WithLogger(logger),
	)

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithDetailWorkers(cfg.DetailsWorkers),
	}
	if withStore && cfg.DatabaseURL != "" {
		db, err := config.ConnectDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		opts = append(opts, services.WithDetailsStore(services.NewGormDetailsStore(db, cfg.DetailsTTL)))
	}

	results := cache.New[*types.SearchResponse](cache.WithTTL(cfg.Cache.TTL), cache.WithLogger(logger))

	svc, err := services.NewSearchService(provider, results, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search service: %w", err)
	}
	return svc, svc.Release, nil
}

func printBusinesses(out io.Writer, resp *types.SearchResponse) error {
	if resp.Count == 0 {
		fmt.Fprintln(out, "no businesses found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tRATING\tDISTANCE\tADDRESS")
	for i, b := range resp.Businesses {
		distance := "-"
		if b.Distance != nil {
			distance = fmt.Sprintf("%.1f %s", *b.Distance, resp.Unit)
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%s\n", i+1, b.Name, b.Rating, distance, b.Address)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
