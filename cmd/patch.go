package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mabhi256/bdiag/internal/blend/analyzer"
	"github.com/mabhi256/bdiag/internal/blend/model"
	"github.com/mabhi256/bdiag/internal/blend/parser"
	"github.com/mabhi256/bdiag/utils"
)

var (
	patchHomeless    bool
	patchSessionUIDs bool
	patchOut         string
)

var patchCmd = &cobra.Command{
	Use:   "patch [blend-file]",
	Short: "Apply explicit cleanup patches and write a new .blend file",
	Long: `patch applies the requested mutations to an in-memory copy of the file
and writes the result next to the original.

  --homeless      zero every pointer aimed at an address no block owns
  --session-uids  zero the volatile id.session_uid of identity blocks

Both are diff-noise reducers, not repairs: a patched file is not guaranteed
to stay loadable by Blender, and a session-uid-patched file must never be
saved back for real use.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeBlendFiles,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !patchHomeless && !patchSessionUIDs {
			return fmt.Errorf("nothing to do: pass --homeless and/or --session-uids")
		}
		return validateBlendFile(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPatch(args[0])
	},
}

func runPatch(filename string) error {
	file, err := parser.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	engine := analyzer.NewPatchEngine(file)

	if patchHomeless {
		refs, err := analyzer.BuildInverseMap(file, analyzer.DefaultGraphOptions())
		if err != nil {
			return err
		}
		mutated, err := engine.NullifyHomeless(refs)
		if err != nil {
			return err
		}
		fmt.Printf("Nullified %d homeless pointer field(s).\n", mutated)
	}

	if patchSessionUIDs {
		idx := model.NewIdentityIndex(file.Catalog())
		mutated, err := engine.NullifySessionUIDs(idx)
		if err != nil {
			return err
		}
		fmt.Printf("Nullified session uid on %d identity block item(s).\n", mutated)
	}

	out := patchOut
	if out == "" {
		out = strings.TrimSuffix(filename, ".blend") + ".patched.blend"
	}
	if err := file.Save(out); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", out)
	fmt.Println(utils.WarningStyle.Render(
		"⚠️  Patched files are a diff aid; loadability by Blender is not guaranteed."))
	return nil
}

func init() {
	rootCmd.AddCommand(patchCmd)

	patchCmd.Flags().BoolVar(&patchHomeless, "homeless", false, "Nullify homeless pointer fields")
	patchCmd.Flags().BoolVar(&patchSessionUIDs, "session-uids", false, "Nullify volatile id session uids")
	patchCmd.Flags().StringVar(&patchOut, "out", "", "Output file (default: <file>.patched.blend)")
}
