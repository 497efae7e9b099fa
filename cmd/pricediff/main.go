// pricediff executa o pipeline de preços e consulta os snapshots pela linha de comando
//
// Uso:
//
//	pricediff run [--date 2025-03-02]
//	pricediff diff [--from 2025-03-01] [--to 2025-03-02] [--format json]
//	pricediff show [--date latest]
//	pricediff list
//	pricediff token --name ops --role admin
//	pricediff migrate --from-dir logs
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "pricediff",
		Usage:   "Extrai tarifas SMS dos fornecedores, grava o snapshot diário e compara com o anterior",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Nível de log (debug, info, warn, error); sobrescreve LOG_LEVEL",
				EnvVars: []string{"PRICEDIFF_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			diffCommand(),
			showCommand(),
			listCommand(),
			tokenCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}
