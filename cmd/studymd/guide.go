package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gubarz/studymd/internal/config"
	"github.com/gubarz/studymd/internal/export"
	"github.com/gubarz/studymd/internal/opener"
	"github.com/gubarz/studymd/internal/parser"
	"github.com/gubarz/studymd/internal/store"
	"github.com/gubarz/studymd/internal/ui"
)

var parseCmd = &cobra.Command{
	Use:   "parse [input] [output]",
	Short: "Parse a study guide into the JS data table",
	Long: `Reads the copied study-guide text and writes an ES module exporting
neetcodeData. The output is replaced atomically and left untouched when
the input can't be read.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runParse,
}

var importCmd = &cobra.Command{
	Use:   "import [data-file]",
	Short: "Load a data table or raw guide into the database",
	Long: `Imports categories as patterns and their problems. A .js file is read as
a generated data table, anything else is parsed as guide text. Existing
patterns are reused by name and problem status is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Merge patterns that share the same name",
	Args:  cobra.NoArgs,
	RunE:  runDedupe,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse problems and track progress in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	dedupeCmd.Flags().Bool("dry-run", false, "Report duplicate groups without changing anything")
	browseCmd.Flags().StringP("query", "q", "", "Initial search query")
}

func runParse(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		config.SetInput(args[0])
	}
	if len(args) > 1 {
		config.SetOutput(args[1])
	}
	input, output := config.GetInput(), config.GetOutput()

	categories, err := parser.ParseFile(input)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	if err := export.WriteFile(output, categories); err != nil {
		return err
	}

	total, problems := parser.Stats(categories)
	logger.WithField("output", output).Debug("data table written")
	logCounts("parsed study guide", total, problems)
	return nil
}

// loadCategories reads either a generated data table or raw guide text
func loadCategories(path string) ([]parser.Category, error) {
	if strings.EqualFold(filepath.Ext(path), ".js") {
		return export.ReadFile(path)
	}
	return parser.ParseFile(path)
}

func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	path := config.GetDB()
	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.WithField("db", path).Debug("database opened")
	return st, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	source := config.GetOutput()
	if len(args) > 0 {
		source = args[0]
	}

	categories, err := loadCategories(source)
	if err != nil {
		return fmt.Errorf("load %s: %w", source, err)
	}

	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := st.ImportCategories(ctx, categories)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"source":           source,
		"patterns_created": report.PatternsCreated,
		"patterns_reused":  report.PatternsReused,
		"problems_created": report.ProblemsCreated,
		"problems_updated": report.ProblemsUpdated,
	}).Info("import complete")
	return nil
}

func runDedupe(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if dryRun {
		groups, err := st.FindDuplicatePatterns(ctx)
		if err != nil {
			return err
		}
		for _, g := range groups {
			logger.WithFields(logrus.Fields{
				"name":       g.Name,
				"keeper":     g.KeeperID,
				"duplicates": g.Duplicates,
			}).Info("duplicate pattern")
		}
		logger.WithField("groups", len(groups)).Info("dry run, nothing changed")
		return nil
	}

	report, err := st.MergeDuplicatePatterns(ctx)
	if err != nil {
		return fmt.Errorf("dedupe rolled back: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"groups":           len(report.Groups),
		"patterns_deleted": report.PatternsDeleted,
		"problems_moved":   report.ProblemsMoved,
		"problems_removed": report.ProblemsRemoved,
	}).Info("dedupe complete")
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")

	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	patterns, err := st.ListPatterns(ctx)
	if err != nil {
		return err
	}

	items := itemsFromPatterns(patterns)
	var save ui.StatusFunc = func(item ui.Item, status string) error {
		return st.UpdateProblemStatus(ctx, item.ID, status)
	}

	if len(items) == 0 {
		// Nothing imported yet: browse the guide text read-only
		categories, err := parser.ParseFile(config.GetInput())
		if err != nil {
			return fmt.Errorf("database is empty and guide can't be read: %w", err)
		}
		items = itemsFromCategories(categories)
		save = nil
		logger.Warn("database is empty, progress won't be saved; run studymd import")
	}

	return ui.Run(items, save, opener.New(), query)
}

func itemsFromPatterns(patterns []store.Pattern) []ui.Item {
	var items []ui.Item
	for _, pattern := range patterns {
		for _, p := range pattern.Problems {
			items = append(items, ui.Item{
				ID:         p.ID,
				Category:   pattern.Name,
				Title:      p.Title,
				Difficulty: p.Difficulty,
				Status:     p.Status,
				LeetCode:   p.LeetCodeURL,
				YouTube:    p.YouTubeURL,
			})
		}
	}
	return items
}

func itemsFromCategories(categories []parser.Category) []ui.Item {
	var items []ui.Item
	for _, category := range categories {
		for _, p := range category.Problems {
			items = append(items, ui.Item{
				Category:   category.Name,
				Title:      p.Title,
				Difficulty: string(p.Difficulty),
				Status:     p.Status,
				LeetCode:   p.Links.LeetCode,
				YouTube:    p.Links.YouTube,
			})
		}
	}
	return items
}
