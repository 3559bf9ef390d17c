package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/config"
	"github.com/jafarshop/productconsole/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	verbose bool
	asJSON  bool

	cfg     *config.Config
	logger  *zap.Logger
	catalog *service.CatalogGateway
)

var rootCmd = &cobra.Command{
	Use:   "productctl",
	Short: "Fetch, edit, validate and commit catalog products from the terminal",
	Long: `productctl drives the same edit workflow as the console server:
it fetches a product, applies field edits, runs the backend validator and
commits the result to the catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load(".env")
		_ = godotenv.Load("../.env")

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger = zap.NewNop()
		}
		if err != nil {
			return err
		}

		catalog, err = service.NewCatalogGateway(cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log catalog calls")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output as JSON")
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
