package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mabhi256/bdiag/internal/blend/iddiff"
	"github.com/mabhi256/bdiag/internal/blend/model"
	"github.com/mabhi256/bdiag/internal/blend/parser"
	"github.com/mabhi256/bdiag/utils"
)

var diffCmd = &cobra.Command{
	Use:               "diff [from-blend-file] [to-blend-file]",
	Short:             "Diff the identity blocks of two .blend files",
	Long:              `diff extracts each file's identity-bearing blocks (code plus id.name, in file order) and prints a unified diff. Exits 1 when the files differ.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeBlendFiles,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			if err := validateBlendFile(arg); err != nil {
				return err
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(args[0], args[1])
	},
}

func runDiff(fromFile, toFile string) error {
	from, err := snapshotIdentities(fromFile)
	if err != nil {
		return err
	}
	to, err := snapshotIdentities(toFile)
	if err != nil {
		return err
	}

	lines, err := iddiff.Unified(from, to, filepath.Base(fromFile), filepath.Base(toFile))
	if err != nil {
		return err
	}

	for _, line := range lines {
		switch line.Kind {
		case iddiff.Added:
			fmt.Println(utils.AddedStyle.Render(line.Text))
		case iddiff.Removed:
			fmt.Println(utils.RemovedStyle.Render(line.Text))
		case iddiff.HunkHeader:
			fmt.Println(utils.InfoStyle.Render(line.Text))
		default:
			fmt.Println(line.Text)
		}
	}

	if iddiff.HasChanges(lines) {
		os.Exit(1)
	}
	return nil
}

func snapshotIdentities(filename string) ([]iddiff.Descriptor, error) {
	file, err := parser.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	idx := model.NewIdentityIndex(file.Catalog())
	return iddiff.Identities(file, idx)
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
