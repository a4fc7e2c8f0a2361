package cmd

import (
	"fmt"

	"github.com/cottand/lattice/frontend/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var SubtypeCmd = &cobra.Command{
	Use:          "subtype SUB SUPER",
	Short:        "Print whether SUB is a sub type of SUPER",
	RunE:         runSubtype,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var LubCmd = &cobra.Command{
	Use:          "lub A B",
	Short:        "Print the least upper bound of two types",
	RunE:         runLub,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var GlbCmd = &cobra.Command{
	Use:          "glb A B",
	Short:        "Print the greatest lower bound of two types",
	RunE:         runGlb,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var LcsCmd = &cobra.Command{
	Use:          "lcs TYPE...",
	Short:        "Print the least common super type of nominal types",
	RunE:         runLcs,
	SilenceUsage: true,
}

var simplify bool

func init() {
	for _, cmd := range []*cobra.Command{SubtypeCmd, LubCmd, GlbCmd, LcsCmd} {
		addUniverseFlags(cmd)
	}
	LubCmd.Flags().BoolVar(&simplify, "simplify", false, "merge unrelated nominal types into their common super types")
}

func runSubtype(cmd *cobra.Command, args []string) error {
	u, err := loadUniverse()
	if err != nil {
		return err
	}
	operands, err := parseAll(u, args)
	if err != nil {
		return err
	}
	result, err := types.Guard(func() bool {
		return u.Context().IsSubType(operands[0], operands[1])
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}

func runLub(cmd *cobra.Command, args []string) error {
	return printBinary(cmd, args, func(ctx *types.TypeContext, a, b types.StaticType) types.StaticType {
		return ctx.Lub(a, b, simplify)
	})
}

func runGlb(cmd *cobra.Command, args []string) error {
	return printBinary(cmd, args, (*types.TypeContext).Glb)
}

func printBinary(cmd *cobra.Command, args []string, op func(*types.TypeContext, types.StaticType, types.StaticType) types.StaticType) error {
	u, err := loadUniverse()
	if err != nil {
		return err
	}
	operands, err := parseAll(u, args)
	if err != nil {
		return err
	}
	result, err := types.Guard(func() types.StaticType {
		return op(u.Context(), operands[0], operands[1])
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}

func runLcs(cmd *cobra.Command, args []string) error {
	u, err := loadUniverse()
	if err != nil {
		return err
	}
	operands, err := parseAll(u, args)
	if err != nil {
		return err
	}
	nominals := make([]types.NominalType, 0, len(operands))
	for i, operand := range operands {
		nominal, ok := operand.(types.NominalType)
		if !ok {
			return errors.Errorf("argument %d: %s is not a nominal type", i+1, operand)
		}
		nominals = append(nominals, nominal)
	}
	result, err := types.Guard(func() types.StaticType {
		return u.Context().LeastCommonSuperType(nominals...)
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}
