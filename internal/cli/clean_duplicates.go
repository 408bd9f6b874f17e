package cli

import (
	"context"
	"fmt"
	"io"

	"running-events-backend/config"
	"running-events-backend/internal/model"
	"running-events-backend/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ServiceFactory 延後建立 CleanupService，讓 --help 與參數錯誤不需要連線資料庫
type ServiceFactory func(ctx context.Context) (service.CleanupService, func(), error)

func NewCleanDuplicatesCommand(factory ServiceFactory, defaults config.CleanupConfig) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "clean-duplicates",
		Short: "Find and remove duplicate events",
		Long: "Groups events whose slug is an existing slug plus a numeric suffix, and/or events on the same\n" +
			"date with similar titles, then deletes every event of a group except the one kept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := model.CleanupOptions{
				BySlug:        v.GetBool("slug"),
				BySimilarity:  v.GetBool("similarity"),
				MinSimilarity: v.GetInt("min-similarity"),
				Keep:          model.KeepPolicy(v.GetString("keep")),
				DryRun:        v.GetBool("dry-run"),
				Force:         v.GetBool("force"),
			}
			if !opts.Keep.IsValid() {
				return fmt.Errorf("invalid --keep %q: must be oldest or newest", opts.Keep)
			}
			if opts.MinSimilarity < 0 || opts.MinSimilarity > 100 {
				return fmt.Errorf("invalid --min-similarity %d: must be between 0 and 100", opts.MinSimilarity)
			}

			svc, closeFn, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			opts = opts.Normalize()
			if opts.DryRun {
				fmt.Fprintln(out, "DRY RUN: nothing will be deleted")
			}

			var confirmer service.Confirmer = service.AutoConfirm
			if !opts.Force && !opts.DryRun {
				confirmer = NewPromptConfirmer(cmd.InOrStdin(), out)
			}

			report, err := svc.Run(cmd.Context(), opts, confirmer)
			if report != nil {
				PrintReport(out, report)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.Bool("dry-run", false, "show what would be deleted without deleting")
	flags.Bool("slug", false, "group by slug suffix (default when no method is given)")
	flags.Bool("similarity", false, "group by title similarity on the same event date")
	flags.Int("min-similarity", model.DefaultMinSimilarity, "minimum title similarity percentage")
	flags.String("keep", string(model.KeepOldest), "which event of a group to keep: oldest or newest")
	flags.Bool("force", false, "delete without asking for confirmation")

	_ = v.BindPFlags(flags)
	if defaults.MinSimilarity > 0 {
		v.SetDefault("min-similarity", defaults.MinSimilarity)
	}
	if defaults.Keep != "" {
		v.SetDefault("keep", defaults.Keep)
	}

	return cmd
}

// PrintReport 依群組列出保留與刪除的活動，最後輸出統計
func PrintReport(w io.Writer, report *model.CleanupReport) {
	for _, base := range report.Unresolved {
		fmt.Fprintf(w, "Original event not found for slug base %q, skipped\n", base)
	}

	if len(report.Groups) == 0 {
		fmt.Fprintln(w, "No duplicate events found.")
	}

	for _, g := range report.Groups {
		fmt.Fprintf(w, "\n[%s] %s (%d events)\n", g.Method, g.Identifier, len(g.Deletions)+1)
		fmt.Fprintf(w, "  keep    #%d %s (%s) created %s\n",
			g.Kept.ID, g.Kept.Title, g.Kept.Slug, g.Kept.CreatedAt.Format("2006-01-02 15:04:05"))
		for _, d := range g.Deletions {
			fmt.Fprintf(w, "  %-8s#%d %s (%s) created %s\n",
				d.Outcome, d.Event.ID, d.Event.Title, d.Event.Slug, d.Event.CreatedAt.Format("2006-01-02 15:04:05"))
			if d.Error != "" {
				fmt.Fprintf(w, "          error: %s\n", d.Error)
			}
		}
	}

	fmt.Fprintf(w, "\nSummary: %d group(s), %d deleted, %d skipped, %d unresolved\n",
		len(report.Groups), report.Deleted, report.Skipped, len(report.Unresolved))
}
