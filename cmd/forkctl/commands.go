package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/forkful-backend/internal/adapter/postgres"
	reciperepo "github.com/heartmarshall/forkful-backend/internal/adapter/postgres/recipe"
	enrichmentrepo "github.com/heartmarshall/forkful-backend/internal/adapter/postgres/enrichment"
	"github.com/heartmarshall/forkful-backend/internal/app/importer"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/classify"
	"github.com/heartmarshall/forkful-backend/internal/service/enrichment"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

func newMigrateCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := cc.dbPool(cmd.Context())
			if err != nil {
				return err
			}
			applied, err := postgres.MigrateUp(cmd.Context(), pool, cc.config.Database.MigrationsDir)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d\n", v)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := cc.dbPool(cmd.Context())
			if err != nil {
				return err
			}
			states, err := postgres.MigrationStatus(cmd.Context(), pool, cc.config.Database.MigrationsDir)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(states))
			for _, s := range states {
				at := "-"
				if s.Applied {
					at = s.AppliedAt.Format(time.RFC3339)
				}
				rows = append(rows, []string{strconv.FormatInt(s.Version, 10), s.Path, yesNo(s.Applied), at})
			}
			writeTable(cmd.OutOrStdout(), []string{"VERSION", "FILE", "APPLIED", "AT"}, rows, []columnAlignment{alignRight})
			return nil
		},
	})
	return cmd
}

func newClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "classify <query>...",
		Short:       "Label search queries as dish or ingredients",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, q := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", classify.Classify(q), q)
			}
			return nil
		},
	}
}

func newRescoreCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Run the moderation pipeline again for one item",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "recipe <slug>",
		Short: "Rescore a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cc.build(cmd.Context())
			if err != nil {
				return err
			}
			_, out, err := c.Recipes.Score(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOutcome(cmd, args[0], out)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "guide <slug>",
		Short: "Rescore a guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cc.build(cmd.Context())
			if err != nil {
				return err
			}
			_, out, err := c.Guides.Score(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOutcome(cmd, args[0], out)
			return nil
		},
	})
	return cmd
}

func printOutcome(cmd *cobra.Command, key string, out moderation.Outcome) {
	status := string(out.Status)
	if out.Previous != out.Status {
		status = fmt.Sprintf("%s -> %s", out.Previous, out.Status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\tscore=%.1f\t%s\n", key, out.Score(), status)
}

func newImageCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "image <slug>",
		Short: "Generate and store a hero image for a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cc.build(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.Recipes.GenerateImage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tscore=%.1f\tattempts=%d\n", res.URL, res.Score, res.Attempts)
			return nil
		},
	}
}

func newPendingCommand(cc *commandContext) *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Show the moderation backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := domain.ContentKind(strings.ToLower(kind))
			if !k.IsValid() {
				return fmt.Errorf("unknown kind %q (recipe, photo, guide)", kind)
			}
			c, err := cc.build(cmd.Context())
			if err != nil {
				return err
			}

			pending := domain.StatusPending
			filter := domain.ListFilter{Status: &pending, Limit: limit}
			var rows [][]string

			switch k {
			case domain.KindRecipe:
				items, err := c.Recipes.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				for _, r := range items {
					rows = append(rows, []string{r.Slug, r.Title, string(r.Source), formatScore(r.QualityScore), r.CreatedAt.Format(time.DateTime)})
				}
			case domain.KindGuide:
				items, err := c.Guides.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				for _, g := range items {
					rows = append(rows, []string{g.Slug, g.Title, g.Topic, formatScore(g.QualityScore), g.CreatedAt.Format(time.DateTime)})
				}
			case domain.KindPhoto:
				items, err := c.Photos.ListByStatus(cmd.Context(), filter)
				if err != nil {
					return err
				}
				for _, p := range items {
					rows = append(rows, []string{p.ID.String(), p.RecipeSlug, p.Submitter, formatScore(p.QualityScore), p.CreatedAt.Format(time.DateTime)})
				}
			}

			headers := []string{"KEY", "TITLE", "SOURCE", "SCORE", "CREATED"}
			switch k {
			case domain.KindGuide:
				headers = []string{"KEY", "TITLE", "TOPIC", "SCORE", "CREATED"}
			case domain.KindPhoto:
				headers = []string{"ID", "RECIPE", "SUBMITTER", "SCORE", "CREATED"}
			}
			writeTable(cmd.OutOrStdout(), headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "recipe", "Content kind: recipe, photo or guide")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows")
	return cmd
}

func newTasksCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and repair the enrichment queue",
	}

	queue := func(cmd *cobra.Command) (*enrichment.Service, error) {
		pool, err := cc.dbPool(cmd.Context())
		if err != nil {
			return nil, err
		}
		return enrichment.NewService(cc.logger, enrichmentrepo.New(pool)), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show task counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := queue(cmd)
			if err != nil {
				return err
			}
			s, err := q.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			rows := [][]string{
				{"pending", strconv.Itoa(s.Pending)},
				{"processing", strconv.Itoa(s.Processing)},
				{"done", strconv.Itoa(s.Done)},
				{"failed", strconv.Itoa(s.Failed)},
				{"total", strconv.Itoa(s.Total)},
			}
			writeTable(cmd.OutOrStdout(), []string{"STATUS", "COUNT"}, rows, []columnAlignment{alignLeft, alignRight})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "retry",
		Short: "Move failed tasks back to pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := queue(cmd)
			if err != nil {
				return err
			}
			n, err := q.RetryAllFailed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %d failed task(s)\n", n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Return tasks stuck in processing to pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := queue(cmd)
			if err != nil {
				return err
			}
			n, err := q.ResetProcessing(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %d processing task(s)\n", n)
			return nil
		},
	})
	return cmd
}

func newImportCommand(cc *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file-or-dir>",
		Short: "Import curated recipes from JSON files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := cc.dbPool(cmd.Context())
			if err != nil {
				return err
			}
			res, err := importer.Run(cmd.Context(),
				importer.Config{Path: args[0], DryRun: dryRun},
				reciperepo.New(pool), postgres.NewTxManager(pool), cc.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "files=%d inserted=%d skipped=%d errors=%d\n",
				res.FilesProcessed, res.Inserted, res.Skipped, res.Errors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and report without writing")
	return cmd
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
