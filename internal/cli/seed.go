package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"quizforge-service/internal/config"
	filestore "quizforge-service/internal/infra/file"
)

// NewSeedCmd imports the JSON question dataset into Postgres so the server
// can load it with the postgres loader instead of the file loader.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Import the question dataset file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	questions, err := filestore.NewQuestionLoader(cfg.Data.Questions).LoadQuestions(ctx)
	if err != nil {
		return err
	}

	if err := runMigrations(ctx, cfg); err != nil {
		return err
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question %d: %w", q.ID, err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO questions (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
			q.ID, string(data))
		if err != nil {
			return fmt.Errorf("insert question %d: %w", q.ID, err)
		}
	}

	logrus.WithField("questions", len(questions)).Info("dataset seeded into postgres")
	return nil
}
