package cmd

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mabhi256/bdiag/internal/blend/analyzer"
	"github.com/mabhi256/bdiag/internal/blend/parser"
	"github.com/mabhi256/bdiag/internal/blend/tui"
	"github.com/mabhi256/bdiag/utils"
)

var checkOutput string

var checkCmd = &cobra.Command{
	Use:               "check [blend-file]",
	Short:             "Check reference-graph integrity of a .blend file",
	Long:              `check builds the inverse-reference map of every pointer field in the file and reports orphaned blocks, homeless addresses, and duplicate or missing block addresses.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeBlendFiles,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		validFormats := []string{"cli", "tui"}
		if !slices.Contains(validFormats, checkOutput) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", checkOutput, validFormats)
		}
		return validateBlendFile(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args[0])
	},
}

func runCheck(filename string) error {
	file, err := parser.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	refs, err := analyzer.BuildInverseMap(file, analyzer.DefaultGraphOptions())
	if err != nil {
		return err
	}
	report, err := analyzer.Analyze(file, refs)
	if err != nil {
		return err
	}

	if checkOutput == "tui" {
		return tui.Run(summarize(file), report, refs)
	}

	printReport(file, report, refs)
	return nil
}

func printReport(file *parser.File, report *analyzer.Report, refs *analyzer.InverseMap) {
	fmt.Printf("%s · v%s · %d blocks · %d referenced addresses\n\n",
		file.Path(), file.Header().Version, len(file.Blocks()), refs.Len())

	if len(report.Orphans) > 0 {
		fmt.Println(utils.WarningStyle.Render(fmt.Sprintf("Orphaned file-blocks: %d", len(report.Orphans))))
		for _, orphan := range report.Orphans {
			b := orphan.Block
			fmt.Printf("  %s  packed %x  raw occurrences %d  %d block(s) with code %s\n",
				b, analyzer.PackAddress(b.Address), orphan.ByteOccurrences, orphan.CodeBlockCount, b.Code)
		}
		fmt.Println()
	}

	if len(report.Homeless.Addresses) > 0 {
		fmt.Println(utils.WarningStyle.Render(fmt.Sprintf("Homeless addresses: %d (%d references)",
			len(report.Homeless.Addresses), report.Homeless.TotalRefs)))
		for _, addr := range report.Homeless.Addresses {
			fmt.Printf("  0x%x\n", addr)
			for _, ref := range refs.Refs(addr) {
				fmt.Println(utils.MutedStyle.Render(fmt.Sprintf("    ← %s", ref)))
			}
		}
		fmt.Println()
	}

	for _, b := range report.Addresses.Odd {
		fmt.Println(utils.WarningStyle.Render(fmt.Sprintf("%s has an odd address.", b)))
	}
	for _, col := range report.Addresses.Collisions {
		fmt.Println(utils.CriticalStyle.Render(
			fmt.Sprintf("%s address is already used in block: %s.", col.Duplicate, col.Canonical)))
	}

	if report.Clean() {
		fmt.Println(utils.GoodStyle.Render("✅ No integrity findings"))
	}
}

func summarize(file *parser.File) tui.Summary {
	byCode := make(map[string]*tui.CodeCount)
	var order []string
	for _, b := range file.Blocks() {
		cc, ok := byCode[b.Code]
		if !ok {
			cc = &tui.CodeCount{Code: b.Code}
			byCode[b.Code] = cc
			order = append(order, b.Code)
		}
		cc.Count++
		cc.Bytes += int64(b.Size)
	}

	counts := make([]tui.CodeCount, 0, len(order))
	for _, code := range order {
		counts = append(counts, *byCode[code])
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	return tui.Summary{
		Path:       file.Path(),
		Version:    file.Header().Version,
		BlockCount: len(file.Blocks()),
		CodeCounts: counts,
	}
}

var completeBlendFiles = utils.CompleteFilesByExtension([]string{".blend"})

func validateBlendFile(filename string) error {
	if !strings.HasSuffix(filename, ".blend") {
		return fmt.Errorf("not a .blend file: %s", filename)
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "cli", "Output format")

	// When user types: bdiag check file.blend -o <TAB>
	checkCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"cli", "tui"}, cobra.ShellCompDirectiveNoFileComp
	})
}
