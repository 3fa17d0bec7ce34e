package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mabhi256/bdiag/internal/blend/parser"
	"github.com/mabhi256/bdiag/utils"
)

var blocksCmd = &cobra.Command{
	Use:               "blocks [blend-file]",
	Short:             "Summarize the block table of a .blend file",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeBlendFiles,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateBlendFile(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBlocks(args[0])
	},
}

func runBlocks(filename string) error {
	file, err := parser.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	summary := summarize(file)
	fmt.Printf("%s · v%s · %d blocks\n\n", summary.Path, summary.Version, summary.BlockCount)

	fmt.Println(utils.TextStyle.Render(fmt.Sprintf("%-6s %8s %10s", "CODE", "BLOCKS", "BYTES")))
	for _, cc := range summary.CodeCounts {
		fmt.Printf("%-6s %8d %10s\n", cc.Code, cc.Count, utils.MemorySize(cc.Bytes))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}
