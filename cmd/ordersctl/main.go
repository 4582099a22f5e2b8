package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"order_history/internal/config"
	"order_history/internal/database"
	"order_history/internal/redis"
	"order_history/internal/repository"
	"order_history/internal/services"
	"order_history/internal/session"
	"order_history/pkg/ordersapi"
)

func main() {
	app := &cli.App{
		Name:  "ordersctl",
		Usage: "inspect order history from the terminal",
		Commands: []*cli.Command{
			showCommand(),
			sessionCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "fetch and print the flattened order table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "stored session value: an email or a JSON record with an email field"},
			&cli.StringFlag{Name: "session", Usage: "read the session value of this session id from Redis"},
			&cli.BoolFlag{Name: "json", Usage: "print the view as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var provider session.Provider = session.Static(c.String("user"))
			if sid := c.String("session"); sid != "" {
				redisClient, err := redis.Initialize(cfg.RedisURL)
				if err != nil {
					return err
				}
				defer redisClient.Close()
				provider = session.NewStoredProvider(redisClient, sid, cfg.SessionKey)
			}

			auditService := services.NopAuditService()
			if cfg.AuditEnabled() {
				db, err := database.Open(cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer closeDB(db)
				auditService = services.NewAuditService(repository.NewFetchLogRepository(db))
			}

			orderService := services.NewOrderService(ordersapi.NewClient(cfg.OrdersAPIURL, cfg.OrdersAPITimeout), auditService)
			view := services.NewOrdersView()
			if err := view.Fetch(c.Context, orderService, provider); err != nil {
				log.WithError(err).Debug("orders fetch failed")
			}

			snap := view.Snapshot()
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			return renderTable(c.App.Writer, snap, cfg.CurrencySymbol)
		},
	}
}

func sessionCommand() *cli.Command {
	sessionFlag := &cli.StringFlag{Name: "session", Usage: "session id", Required: true}
	return &cli.Command{
		Name:  "session",
		Usage: "manage stored session values",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "store the session value for a session id",
				ArgsUsage: "<value>",
				Flags:     []cli.Flag{sessionFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("exactly one value is required", 2)
					}
					cfg, redisClient, err := connectRedis()
					if err != nil {
						return err
					}
					defer redisClient.Close()
					return redisClient.SetSessionValue(c.Context, c.String("session"), cfg.SessionKey, c.Args().First(), cfg.SessionTTL)
				},
			},
			{
				Name:  "clear",
				Usage: "remove the session value for a session id",
				Flags: []cli.Flag{sessionFlag},
				Action: func(c *cli.Context) error {
					cfg, redisClient, err := connectRedis()
					if err != nil {
						return err
					}
					defer redisClient.Close()
					return redisClient.DeleteSessionValue(c.Context, c.String("session"), cfg.SessionKey)
				},
			},
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the fetch audit tables",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.AuditEnabled() {
				return cli.Exit("DATABASE_URL is not set", 1)
			}
			// Initialize runs the migrations.
			db, err := database.Initialize(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer closeDB(db)
			fmt.Fprintln(c.App.Writer, "fetch audit schema is up to date")
			return nil
		},
	}
}

func closeDB(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		log.WithError(err).Warn("failed to close database")
	}
}

func connectRedis() (*config.Config, *redis.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, redisClient, nil
}
