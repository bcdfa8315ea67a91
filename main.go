package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"wordclass/builder"
	"wordclass/cli"
	"wordclass/util"
	"wordclass/vocab"
)

func runBuild(cfg builder.Config) error {
	result, err := builder.Run(cfg, builder.FileOpsImpl{})
	if err != nil {
		return err
	}
	if result.UpToDate {
		return nil
	}
	fmt.Printf(util.TerminalGreen+"Built vocabulary of %d words"+util.TerminalReset, result.VocabSize)
	if cfg.NbrClasses > 0 {
		fmt.Printf(" in %d classes", result.ClassesAssigned)
	}
	fmt.Println()
	return nil
}

func main() {
	var cfg builder.Config

	rootCmd := &cobra.Command{
		Use:   "wordclass",
		Short: "Build a bounded vocabulary and balanced frequency classes from a text corpus",
		Long: `wordclass scans a training corpus, counts word frequencies, derives a
bounded vocabulary with an unknown bucket and partitions it into balanced
frequency classes for class-factored output layers.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.BeginSequenceSet = cmd.Flags().Changed("begin-sequence")
			cfg.EndSequenceSet = cmd.Flags().Changed("end-sequence")
			return runBuild(cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVar(&cfg.VocabSize, "vocab-size", 0, "target vocabulary size including the unknown bucket (required)")
	flags.IntVar(&cfg.NbrClasses, "classes", 0, "number of frequency classes; 0 disables class output")
	flags.IntVar(&cfg.Cutoff, "cutoff", 1, "tokens with count <= cutoff are dropped; <= 0 disables")
	flags.StringVar(&cfg.InputFile, "input", "", "corpus file to read (required)")
	flags.StringVar(&cfg.OutputVocabFile, "output-vocab", "", "vocabulary table to write (required)")
	flags.StringVar(&cfg.OutputWord2Cls, "output-word2cls", "", "word-to-class table to write (required with --classes)")
	flags.StringVar(&cfg.OutputCls2Index, "output-cls2index", "", "class-to-index table to write (required with --classes)")
	flags.StringVar(&cfg.UnkToken, "unk", vocab.DefaultUnkToken, "name of the unknown bucket")
	flags.StringVar(&cfg.BeginSequence, "begin-sequence", "", "begin-of-sequence marker; must be set, empty disables insertion")
	flags.StringVar(&cfg.EndSequence, "end-sequence", "", "end-of-sequence marker; must be set, empty disables insertion")
	flags.StringVar(&cfg.StemLanguage, "stem", "", "snowball-stem counted tokens, e.g. \"english\"")
	flags.BoolVar(&cfg.MakeMode, "make-mode", true, "skip the build when all outputs are newer than the corpus")
	flags.BoolVar(&cfg.WriteCache, "cache", false, "also write a compressed model snapshot next to the vocabulary")

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for every setting, then run the build",
		RunE: func(cmd *cobra.Command, args []string) error {
			promptedCfg, err := cli.PromptConfig()
			if err != nil {
				return err
			}
			return runBuild(promptedCfg)
		},
	}
	rootCmd.AddCommand(interactiveCmd)

	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, util.TerminalRed+err.Error()+util.TerminalReset)
		os.Exit(1)
	}
}
