package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarot-agent/app/repositories"
	"tarot-agent/database/seeders"
	"tarot-agent/pkg/console"
	"tarot-agent/pkg/database/migrations"
	"tarot-agent/pkg/random"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the tarot card catalog",
	Long: `Inserts the bundled card catalog. Existing cards are kept unless --force
is given, in which case the catalog is replaced.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	seedCmd.Flags().BoolVarP(&seedForce, "force", "f", false, "replace the existing catalog")
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if db == nil {
		return errNotConfigured
	}

	inserted, err := seeders.SeedCards(db.WithContext(commandContext(cmd)), seedForce)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	total, err := catalogSize(cmd)
	if err != nil {
		return err
	}
	if inserted == 0 {
		cmd.Println(console.MutedStyle.Render(fmt.Sprintf(
			"Card catalog already seeded (%d cards), nothing to do.", total)))
		return nil
	}
	cmd.Println(console.SuccessStyle.Render(fmt.Sprintf(
		"✓ Seeded %d cards, the catalog now holds %d.", inserted, total)))
	return nil
}

// catalogSize 牌库当前张数
func catalogSize(cmd *cobra.Command) (int64, error) {
	cards := cardRepository
	if cards == nil {
		cards = repositories.NewCardRepository(db, random.Default())
	}
	total, err := cards.Count(commandContext(cmd))
	if err != nil {
		return 0, fmt.Errorf("could not count cards: %w", err)
	}
	return total, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if db == nil {
		return errNotConfigured
	}

	if err := db.WithContext(commandContext(cmd)).AutoMigrate(migrations.RegisterTables()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	cmd.Println(console.SuccessStyle.Render("✓ Database tables are up to date."))
	return nil
}
