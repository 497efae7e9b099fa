package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/migration"
	"github.com/salojoakim/supplierpriceautomation/infrastructure/repository"
	"github.com/salojoakim/supplierpriceautomation/internal/bootstrap"
	"github.com/salojoakim/supplierpriceautomation/internal/config"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
	"github.com/salojoakim/supplierpriceautomation/internal/usecases/authenticating"
	"github.com/salojoakim/supplierpriceautomation/pkg/log"
	"github.com/salojoakim/supplierpriceautomation/pkg/utils"
)

var formatFlag = &cli.StringFlag{
	Name:    "format",
	Aliases: []string{"f"},
	Value:   formatTable,
	Usage:   "Formato de saída (table, json)",
}

// loadConfig lê a configuração e prepara o log para a CLI
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.App.LogLevel
	if c.String("log-level") != "" {
		level = c.String("log-level")
	}
	log.Setup(level, os.Stderr)

	return cfg, nil
}

func openStore(c *cli.Context) (*config.Config, repository.SnapshotRepository, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	store, closeStore, err := bootstrap.Store(c.Context, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, store, closeStore, nil
}

func newPrinter(c *cli.Context) (*printer, error) {
	format := c.String("format")
	switch format {
	case formatTable, formatJSON:
	default:
		return nil, fmt.Errorf("formato inválido: %q", format)
	}

	return &printer{
		out:    c.App.Writer,
		format: format,
		color:  log.IsTerminal(c.App.Writer),
	}, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Processa a caixa de entrada, grava o snapshot do dia e imprime as alterações",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Data do snapshot (YYYY-MM-DD); padrão hoje"},
			&cli.StringFlag{Name: "inbox", Usage: "Diretório da caixa de entrada; sobrescreve INBOX_DIR"},
			formatFlag,
		},
		Action: func(c *cli.Context) error {
			p, err := newPrinter(c)
			if err != nil {
				return err
			}

			cfg, store, closeStore, err := openStore(c)
			if err != nil {
				return err
			}
			defer closeStore()

			if dir := c.String("inbox"); dir != "" {
				cfg.Inbox.Dir = dir
			}

			date := time.Now()
			if parsed, err := utils.ParseDate(c.String("date")); err != nil {
				return err
			} else if parsed != nil {
				date = *parsed
			}

			tracker, err := bootstrap.Tracker(cfg, store, afero.NewOsFs())
			if err != nil {
				return err
			}

			result, err := tracker.RunFromSource(c.Context, date)
			if err != nil {
				return err
			}

			return p.runResult(result)
		},
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Compara dois snapshots gravados (padrão: latest contra o anterior)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "Snapshot de base (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "Snapshot comparado (YYYY-MM-DD)"},
			formatFlag,
		},
		Action: func(c *cli.Context) error {
			p, err := newPrinter(c)
			if err != nil {
				return err
			}

			from, err := utils.ParseDate(c.String("from"))
			if err != nil {
				return err
			}
			to, err := utils.ParseDate(c.String("to"))
			if err != nil {
				return err
			}

			cfg, store, closeStore, err := openStore(c)
			if err != nil {
				return err
			}
			defer closeStore()

			tracker, err := bootstrap.Tracker(cfg, store, afero.NewOsFs())
			if err != nil {
				return err
			}

			diff, err := tracker.CompareStored(c.Context, from, to)
			if err != nil {
				return err
			}

			return p.diff(diff)
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Imprime as linhas de um snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Value: "latest", Usage: "latest ou YYYY-MM-DD"},
			formatFlag,
		},
		Action: func(c *cli.Context) error {
			p, err := newPrinter(c)
			if err != nil {
				return err
			}

			_, store, closeStore, err := openStore(c)
			if err != nil {
				return err
			}
			defer closeStore()

			snapshot, err := findSnapshot(c.Context, store, c.String("date"))
			if err != nil {
				return err
			}

			return p.snapshot(snapshot)
		},
	}
}

func findSnapshot(ctx context.Context, store repository.SnapshotRepository, param string) (*domain.Snapshot, error) {
	var (
		snapshot *domain.Snapshot
		err      error
	)

	if param == "" || param == "latest" {
		snapshot, err = store.GetLatest(ctx)
	} else {
		date, parseErr := domain.ParseCalendarDate(param)
		if parseErr != nil {
			return nil, parseErr
		}
		snapshot, err = store.Get(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, param)
	}

	return snapshot, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Lista as datas com snapshot gravado",
		Flags: []cli.Flag{formatFlag},
		Action: func(c *cli.Context) error {
			p, err := newPrinter(c)
			if err != nil {
				return err
			}

			_, store, closeStore, err := openStore(c)
			if err != nil {
				return err
			}
			defer closeStore()

			dates, err := store.ListDates(c.Context)
			if err != nil {
				return err
			}

			latest, err := store.GetLatest(c.Context)
			if err != nil {
				return err
			}

			return p.dates(dates, latest)
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Emite um token de acesso à API assinado com AUTH_SECRET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true, Usage: "Nome de quem usa o token"},
			&cli.StringFlag{Name: "role", Value: domain.RoleViewer, Usage: "admin ou viewer"},
			&cli.DurationFlag{Name: "ttl", Usage: "Validade; sobrescreve AUTH_TOKEN_TTL"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			if ttl := c.Duration("ttl"); ttl > 0 {
				cfg.Auth.TokenTTL = ttl
			}

			token, err := authenticating.NewService(cfg.Auth).IssueToken(c.String("name"), c.String("role"))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.App.Writer, token)
			return err
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Copia os snapshots em arquivo para o banco configurado (STORAGE_BACKEND=sql)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from-dir", Required: true, Usage: "Diretório com os arquivos parsed_YYYY-MM-DD.json"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Storage.Backend != bootstrap.BackendSQL {
				return fmt.Errorf("migrate exige STORAGE_BACKEND=sql (atual: %s)", cfg.Storage.Backend)
			}

			from, err := repository.NewFileSnapshotRepository(c.String("from-dir"))
			if err != nil {
				return err
			}

			to, closeStore, err := bootstrap.Store(c.Context, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := migration.CopySnapshots(c.Context, from, to)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.App.Writer, "%d copiados, %d já existentes, latest: %s (%s)\n",
				result.Copied, result.Skipped, orDash(result.Promoted), result.Elapsed.Round(time.Millisecond))
			return err
		},
	}
}
