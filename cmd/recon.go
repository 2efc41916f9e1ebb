package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"recon-manager/core/config"
	"recon-manager/core/database"
	"recon-manager/core/dataset"
	"recon-manager/core/logger"
	"recon-manager/core/reconcile"
	"recon-manager/core/report"
	"recon-manager/core/source"
	"recon-manager/core/storage"
	"recon-manager/core/writer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// reconFlags holds the flags of the recon command.
type reconFlags struct {
	outputFile   string
	leftSheet    string
	rightSheet   string
	stdOut       bool
	infoOnly     bool
	suffixes     []string
	views        []string
	relationship string
	verify       bool
	asJSON       bool
}

// newReconCmd builds the recon command with its own flag set.
func newReconCmd() *cobra.Command {
	opts := &reconFlags{}
	cmd := &cobra.Command{
		Use:   "recon LEFT RIGHT LEFT_ON RIGHT_ON",
		Short: "Reconcile two datasets on their key columns",
		Long: `Reconcile two datasets by matching LEFT_ON values of LEFT with RIGHT_ON values of RIGHT.

LEFT and RIGHT may be local files (.csv, .xlsx, .json), objects (s3://bucket/key)
or tables of the configured database (db://table).

Examples:
  # Print the summary only
  recon ledger.xlsx bank.csv id reference --info-only

  # Write every view to a workbook
  recon ledger.xlsx bank.csv id reference --views '*' --output-file result.xlsx

  # Assert a one-to-one relationship and check the reconstruction laws
  recon s3://recon/ledger.csv db://accounts id account_id --relationship 1:1 --verify`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecon(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.outputFile, "output-file", "", "Path (or s3://bucket/key) to save results to (.xlsx, .json, .txt)")
	f.StringVar(&opts.leftSheet, "left-sheet", "", "Sheet to read from left if left is a spreadsheet (default from config, Sheet1)")
	f.StringVar(&opts.rightSheet, "right-sheet", "", "Sheet to read from right if right is a spreadsheet (default from config, Sheet1)")
	f.BoolVar(&opts.stdOut, "std-out", false, "Print results to stdout")
	f.BoolVar(&opts.infoOnly, "info-only", false, "Print summary results only")
	f.StringSliceVar(&opts.suffixes, "suffixes", nil, "Suffixes for colliding column names, as left,right (default from config, _left,_right)")
	f.StringSliceVar(&opts.views, "views", []string{reconcile.ViewAll}, "Views to output; '*' selects every view")
	f.StringVar(&opts.relationship, "relationship", "", "Expected relationship (1:1, 1:m, m:1, m:m); fails when it differs")
	f.BoolVar(&opts.verify, "verify", false, "Check that the index maps and plan rebuild both datasets")
	f.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func init() {
	RootCmd.AddCommand(newReconCmd())
}

func runRecon(cmd *cobra.Command, args []string, flags *reconFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	leftURI, rightURI, leftOn, rightOn := args[0], args[1], args[2], args[3]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	opts, err := reconOptions(cfg.Recon, leftOn, rightOn, flags.suffixes)
	if err != nil {
		return err
	}
	opts.Logger = l

	var relationship reconcile.Relationship
	if flags.relationship != "" {
		if relationship, err = reconcile.ParseRelationship(flags.relationship); err != nil {
			return err
		}
	}

	// Storage clients are lazy, so creating one costs nothing when unused
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	var db *gorm.DB
	if strings.HasPrefix(leftURI, "db://") || strings.HasPrefix(rightURI, "db://") {
		if db, err = database.Connect(cfg.Database); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	resolver := source.NewResolver(client, cfg.Storage.Bucket, db, l)
	left, right, err := loadPair(ctx, resolver,
		leftURI, source.ReadOptions{Sheet: sheetOr(flags.leftSheet, cfg.Recon.Sheet)},
		rightURI, source.ReadOptions{Sheet: sheetOr(flags.rightSheet, cfg.Recon.Sheet)},
	)
	if err != nil {
		return err
	}

	e, err := reconcile.New(ctx, left, right, opts)
	if err != nil {
		return err
	}

	summary := report.Summarize(e)
	summary.Log(l)

	if flags.relationship != "" {
		if err := summary.Check(relationship); err != nil {
			return err
		}
	}

	if flags.verify {
		if err := e.Verify(); err != nil {
			return err
		}
		l.Info("Reconstruction verified")
	}

	out := cmd.OutOrStdout()
	if flags.infoOnly {
		return printSummary(out, summary, flags.asJSON)
	}

	views, err := e.Views(selectViews(flags.views)...)
	if err != nil {
		return err
	}

	if flags.outputFile != "" {
		if err := saveViews(ctx, client, cfg.Storage.Bucket, flags.outputFile, views); err != nil {
			return err
		}
		l.Info("Results saved", zap.String("output", flags.outputFile), zap.Int("views", len(views)))
	}

	if flags.stdOut {
		if flags.asJSON {
			return writer.WriteJSON(out, views)
		}
		return writer.WriteText(out, views)
	}

	if flags.outputFile == "" {
		return printSummary(out, summary, flags.asJSON)
	}
	return nil
}

// reconOptions applies the --suffixes flag over the configured defaults.
func reconOptions(cfg reconcile.Config, leftOn, rightOn string, suffixes []string) (reconcile.Options, error) {
	opts := cfg.Options(leftOn, rightOn)
	switch len(suffixes) {
	case 0:
	case 2:
		opts.LeftSuffix, opts.RightSuffix = suffixes[0], suffixes[1]
	default:
		return opts, fmt.Errorf("--suffixes needs two values separated by a comma, got %d", len(suffixes))
	}
	return opts, nil
}

func loadPair(ctx context.Context, r *source.Resolver, leftURI string, leftOpts source.ReadOptions, rightURI string, rightOpts source.ReadOptions) (*dataset.Dataset, *dataset.Dataset, error) {
	var left, right *dataset.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		left, err = r.Load(gctx, leftURI, leftOpts)
		return err
	})
	g.Go(func() error {
		var err error
		right, err = r.Load(gctx, rightURI, rightOpts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// selectViews expands '*' to every view.
func selectViews(names []string) []string {
	for _, n := range names {
		if n == "*" {
			return nil
		}
	}
	return names
}

func saveViews(ctx context.Context, client storage.Client, bucket, output string, views []*reconcile.View) error {
	if strings.HasPrefix(output, "s3://") {
		loc, err := source.ParseURI(output)
		if err != nil {
			return err
		}
		if loc.Bucket != "" {
			bucket = loc.Bucket
		}
		_, err = writer.Upload(ctx, client, bucket, loc.Path, views)
		return err
	}
	return writer.WriteFile(output, views)
}

func printSummary(w io.Writer, s report.Summary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return s.Render(w)
}

func sheetOr(sheet, fallback string) string {
	if sheet != "" {
		return sheet
	}
	if fallback != "" {
		return fallback
	}
	return source.DefaultSheet
}
