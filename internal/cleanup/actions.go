package cleanup

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/models"
	"github.com/dtnitsch/llmstxt-generator/pkg/db"
)

// CleanupAction deletes expired runs once and prints how many went.
func CleanupAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("data-dir") {
		cfg.Server.DataDir = c.String("data-dir")
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	deleted, err := database.DeleteExpired()
	if err != nil {
		return err
	}

	logger.Info("Expired runs deleted", "db", database.Path(), "deleted", deleted)
	fmt.Fprintf(c.App.Writer, "Deleted %d expired runs\n", deleted)
	return nil
}
