package cli

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"

	"wordclass/builder"
	"wordclass/util"
	"wordclass/vocab"
)

//CLI Interface of wordclass

// Utility function to get a single input from the user
func getSingleInputPrompt(message, defaultValue string) (string, error) {
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}

	var input string
	if err := survey.AskOne(prompt, &input); err != nil {
		return "", err
	}
	return input, nil
}

func getIntPrompt(message string, defaultValue int) (int, error) {
	for {
		input, err := getSingleInputPrompt(message, strconv.Itoa(defaultValue))
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(input)
		if err != nil {
			fmt.Println(util.TerminalRed + "Please enter a whole number" + util.TerminalReset)
			continue
		}
		return value, nil
	}
}

func getConfirmPrompt(message string, defaultValue bool) (bool, error) {
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}

	var confirmed bool
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

// PromptConfig walks the user through every build setting and returns the
// resulting configuration. It asks the same questions the flag surface
// answers, so both paths produce identical Config values.
func PromptConfig() (builder.Config, error) {
	var cfg builder.Config
	var err error

	if cfg.InputFile, err = getSingleInputPrompt("Corpus file to read:", ""); err != nil {
		return cfg, err
	}
	if !util.FileExists(cfg.InputFile) {
		fmt.Println(util.TerminalYellow + "Note: corpus file does not exist yet" + util.TerminalReset)
	}
	if cfg.OutputVocabFile, err = getSingleInputPrompt("Vocabulary file to write:", ""); err != nil {
		return cfg, err
	}
	if cfg.VocabSize, err = getIntPrompt("Vocabulary size:", 10000); err != nil {
		return cfg, err
	}
	if cfg.NbrClasses, err = getIntPrompt("Number of classes (0 disables class output):", 0); err != nil {
		return cfg, err
	}
	if cfg.NbrClasses > 0 {
		if cfg.OutputWord2Cls, err = getSingleInputPrompt("Word-to-class file to write:", ""); err != nil {
			return cfg, err
		}
		if cfg.OutputCls2Index, err = getSingleInputPrompt("Class-to-index file to write:", ""); err != nil {
			return cfg, err
		}
	}
	if cfg.Cutoff, err = getIntPrompt("Frequency cutoff (count <= cutoff is dropped):", 1); err != nil {
		return cfg, err
	}
	if cfg.UnkToken, err = getSingleInputPrompt("Unknown token:", vocab.DefaultUnkToken); err != nil {
		return cfg, err
	}
	if cfg.BeginSequence, err = getSingleInputPrompt("Begin-of-sequence marker (empty disables):", "<s>"); err != nil {
		return cfg, err
	}
	cfg.BeginSequenceSet = true
	if cfg.EndSequence, err = getSingleInputPrompt("End-of-sequence marker (empty disables):", "</s>"); err != nil {
		return cfg, err
	}
	cfg.EndSequenceSet = true
	if cfg.MakeMode, err = getConfirmPrompt("Skip the build when outputs are already current?", true); err != nil {
		return cfg, err
	}
	if cfg.WriteCache, err = getConfirmPrompt("Also write a compressed model snapshot?", false); err != nil {
		return cfg, err
	}
	return cfg, nil
}
