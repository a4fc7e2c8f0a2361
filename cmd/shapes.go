package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cottand/lattice/frontend/types"
	"github.com/cottand/lattice/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ShapesCmd = &cobra.Command{
	Use:          "shapes [NAME]",
	Short:        "Print the shapes of a universe, with their members and what they override",
	RunE:         runShapes,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
}

func init() {
	addUniverseFlags(ShapesCmd)
}

func runShapes(cmd *cobra.Command, args []string) error {
	u, err := loadUniverse()
	if err != nil {
		return err
	}
	shapes := u.Shapes()
	if len(args) == 1 {
		shape, ok := u.Shape(args[0])
		if !ok {
			return errors.Errorf("no shape named %s", args[0])
		}
		shapes = []*types.TypeShape{shape}
	}
	for _, shape := range shapes {
		if err := writeShape(cmd.OutOrStdout(), shape); err != nil {
			return err
		}
	}
	return nil
}

func writeShape(w io.Writer, shape *types.TypeShape) error {
	sb := strings.Builder{}
	if shape.Abstract() {
		sb.WriteString("abstract ")
	}
	if shape.IsFunctionalInterface() {
		sb.WriteString("functional ")
	}
	sb.WriteString("shape ")
	sb.WriteString(shape.Name())
	if formals := shape.Formals(); len(formals) > 0 {
		sb.WriteString("<")
		for i, formal := range formals {
			if i != 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formalString(formal))
		}
		sb.WriteString(">")
	}
	if supers := shape.SuperTypes(); len(supers) > 0 {
		sb.WriteString(": ")
		sb.WriteString(util.JoinString(supers, ", "))
	}
	if sealed, ok := shape.SealedSubTypes(); ok {
		sb.WriteString(" sealed {")
		sb.WriteString(util.JoinString(sealed, ", "))
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	for _, member := range shape.Members() {
		if _, ok := member.(*types.TypeParameterShape); ok {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(member.String())
		sb.WriteString("\n")
		for _, overridden := range member.Overridden() {
			fmt.Fprintf(&sb, "    overrides %s.%s: %s\n", overridden.From, overridden.Member.Symbol(), overridden.Type)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formalString(formal *types.TypeFormal) string {
	name := formal.Name()
	if formal.Variance() != types.Invariant {
		name = formal.Variance().String() + " " + name
	}
	if bounds := formal.SuperTypes(); len(bounds) > 0 {
		name += ": " + util.JoinString(bounds, " & ")
	}
	return name
}
