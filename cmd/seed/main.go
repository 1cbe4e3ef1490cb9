// CLI de carga: popula as tabelas de candidatos a partir dos arquivos CSV.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marcelojr/candidatos-sp/internal/app/seed"
	"github.com/marcelojr/candidatos-sp/internal/platform/config"
	"github.com/marcelojr/candidatos-sp/internal/platform/logger"
	"github.com/marcelojr/candidatos-sp/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/candidatos-sp/internal/platform/storage/postgres"
)

var (
	seedForce       bool
	seedDiretorios  []string
	seedSemMigracao bool
)

var rootCmd = &cobra.Command{
	Use:   "seed [dataset...]",
	Short: "Carrega os CSVs de candidatos no banco",
	Long: `Carrega os arquivos CSV nas tabelas de candidatos.

Sem argumentos todos os datasets são processados. Tabelas que já possuem dados
são mantidas, a menos que --force seja informado.

Exemplos:
  seed
  seed candidatos_sp_22_24 --force
  seed federais_nao_eleitos_sp --dir ./data`,
	SilenceUsage: true,
	RunE:         runSeed,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista os datasets e o arquivo que seria usado",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.Flags().BoolVar(&seedForce, "force", false, "Substitui o conteúdo mesmo com a tabela populada")
	rootCmd.PersistentFlags().StringSliceVar(&seedDiretorios, "dir", nil, "Diretório de busca dos CSVs (repetível; padrão: SEED_DATA_DIRS)")
	rootCmd.Flags().BoolVar(&seedSemMigracao, "skip-migrate", false, "Não executa as migrations antes da carga")
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("falha na execucao do seed", "err", err)
		os.Exit(1)
	}
}

func diretorios(cfg config.Config) []string {
	if len(seedDiretorios) > 0 {
		return seedDiretorios
	}
	return cfg.SeedDataDirs
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuracao invalida: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	db, err := postgresstorage.OpenComRetry(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN(), cfg.DBConnectRetries, cfg.DBConnectDelay)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if !seedSemMigracao {
		if err := migrations.Run(db); err != nil {
			return err
		}
	}

	cargas, err := seed.Selecionar(seed.Padrao(db, diretorios(cfg)), args)
	if err != nil {
		return err
	}

	resultados, err := seed.ExecutarTodas(ctx, cargas, seedForce || cfg.SeedForce)
	for _, r := range resultados {
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-16s %6d  %s\n", r.Dataset, r.Status, r.Registros, r.Arquivo)
	}
	return err
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuracao invalida: %w", err)
	}

	// Localizar não toca o banco.
	for _, c := range seed.Padrao(nil, diretorios(cfg)) {
		arquivo, ok := c.Localizar()
		if !ok {
			arquivo = "(nao encontrado)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", c.Nome(), arquivo)
	}
	return nil
}
