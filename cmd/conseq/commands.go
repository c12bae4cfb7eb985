package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aria-lang/conseq-go/internal/config"
	"github.com/aria-lang/conseq-go/internal/fastx"
	"github.com/aria-lang/conseq-go/internal/sequence"
	"github.com/aria-lang/conseq-go/pkg/conseq"
)

type rootOptions struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "conseq",
		Short:        "Consensus sequences from bins of noisy reads",
		Long:         `conseq seeds each bin by positional voting and refines the seed one majority edit at a time until the mean alignment score stops improving.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newConsCmd(opts),
		newSeedCmd(),
		newAlignCmd(),
		newVersionCmd(),
	)
	return root
}

type consOptions struct {
	input      string
	output     string
	strategy   string
	minReads   int
	workers    int
	configPath string
}

func newConsCmd(root *rootOptions) *cobra.Command {
	o := &consOptions{}

	cmd := &cobra.Command{
		Use:   "cons",
		Short: "Build one consensus per FASTQ bin in a directory",
		Long:  `Finds a consensus sequence for each fastq file in a given directory and writes them to a single output fasta file. Bins are processed largest first; bins with fewer reads than the minimum are skipped.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("consensus-algorithm") {
				cfg.Strategy = o.strategy
			}
			if cmd.Flags().Changed("min-reads") {
				cfg.MinimumReads = o.minReads
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = o.workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runCons(cmd, root.logger, cfg, o.input, o.output)
		},
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "", "directory of FASTQ bins")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "directory for the consensus FASTA file")
	cmd.Flags().StringVarP(&o.strategy, "consensus-algorithm", "c", "pairwise", "consensus strategy")
	cmd.Flags().IntVar(&o.minReads, "min-reads", config.DefaultMinimumReads, "skip bins with fewer reads")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "bins refined concurrently (0 = one per CPU)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "YAML configuration file")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runCons(cmd *cobra.Command, logger *slog.Logger, cfg *config.Config, input, output string) error {
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	strategy, err := cfg.NewStrategy(logger)
	if err != nil {
		return err
	}

	bins, err := fastx.ReadBinDir(input)
	if err != nil {
		return err
	}
	fastx.SortBySize(bins)
	kept, skipped := fastx.SplitByMinimum(bins, cfg.MinimumReads)
	if len(skipped) > 0 {
		logger.Info("skipping small bins", "count", len(skipped), "minimum_reads", cfg.MinimumReads)
	}

	logger.Info("beginning consensus sequence generation", "bins", len(kept), "strategy", strategy.Name())
	batch := strategy.GenerateAll(cmd.Context(), kept)
	for _, f := range batch.Failures() {
		logger.Warn("bin failed", "bin", f.Label, "error", f.Err)
	}

	path, err := fastx.WriteConsensusFile(output, strategy.Name(), batch.Records())
	if err != nil {
		return err
	}
	logger.Info("consensus generation complete",
		"records", len(batch.Records()),
		"failures", len(batch.Failures()),
		"output", path,
	)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func newSeedCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print the positional-vote seed of a FASTQ file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			reads, err := conseq.ReadFASTQ(f)
			if err != nil {
				return err
			}
			bin := conseq.NewBin(fastx.BinLabel(input))
			bin.Reads = reads
			if err := bin.Validate(); err != nil {
				return err
			}

			s, err := conseq.EstimateSeed(sequence.BasesOf(reads))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "FASTQ file")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newAlignCmd() *cobra.Command {
	var seq1, seq2 string
	var penalized bool

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align two sequences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s1, err := conseq.NewSequence(seq1)
			if err != nil {
				return fmt.Errorf("seq1: %w", err)
			}
			s2, err := conseq.NewSequence(seq2)
			if err != nil {
				return fmt.Errorf("seq2: %w", err)
			}

			align := conseq.Align
			if penalized {
				align = conseq.AlignPenalized
			}
			alignment, err := align(s1, s2)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), alignment.Format())
			return nil
		},
	}
	cmd.Flags().StringVar(&seq1, "seq1", "", "first sequence")
	cmd.Flags().StringVar(&seq2, "seq2", "", "second sequence")
	cmd.Flags().BoolVar(&penalized, "penalized", false, "use the scoring scheme instead of unweighted")
	cmd.MarkFlagRequired("seq1")
	cmd.MarkFlagRequired("seq2")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), conseq.Info())
		},
	}
}
