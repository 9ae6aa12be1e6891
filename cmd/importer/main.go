package main

import (
	"context"
	"fmt"
	"os"

	"foodgram-go/internal/config"
	"foodgram-go/internal/importer"
	"foodgram-go/internal/infra/database"
	infraES "foodgram-go/internal/infra/elasticsearch"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "importer",
		Short:         "Foodgram catalog and search maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to config file")

	// setup 加载配置、日志并打开数据库
	setup := func() (*gorm.DB, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
			return nil, err
		}
		if err := database.Init(&cfg.Database); err != nil {
			return nil, err
		}
		db := database.Get()
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	catalogCommand := func(use, short string, run func(*importer.Importer, string) (importer.Result, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <file.json>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := setup()
				if err != nil {
					return err
				}
				defer database.Close()
				defer logger.Sync()

				im := importer.New(repository.NewIngredientRepository(db), repository.NewTagRepository(db))
				res, err := run(im, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: read %d, created %d, skipped %d\n", use, res.Read, res.Created, res.Skipped())
				return nil
			},
		}
	}

	root.AddCommand(
		catalogCommand("ingredients", "Import ingredients from a JSON file", (*importer.Importer).ImportIngredients),
		catalogCommand("tags", "Import tags from a JSON file", (*importer.Importer).ImportTags),
		&cobra.Command{
			Use:   "reindex",
			Short: "Rebuild the recipe search index from the database",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := setup()
				if err != nil {
					return err
				}
				defer database.Close()
				defer logger.Sync()

				if err := infraES.Init(config.GetElasticsearch()); err != nil {
					return err
				}
				defer infraES.Close()
				if err := infraES.InitIndexes(); err != nil {
					return err
				}

				recipeRepo := repository.NewRecipeRepository(db)
				recipes := service.NewRecipeService(recipeRepo,
					repository.NewIngredientRepository(db),
					repository.NewTagRepository(db),
					repository.NewCollectionRepository(db),
					repository.NewSubscriptionRepository(db),
					nil, nil,
				)
				success, failed, err := service.NewSearchService(recipeRepo, recipes).ReindexAll(context.Background())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reindex: indexed %d, failed %d\n", success, failed)
				return nil
			},
		},
	)
	return root
}
