package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"sbom-age/internal/core"
	"sbom-age/internal/types"
)

func newPurlCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purl <package-url>",
		Short: "Parse a package URL and print its coordinate fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinate, ok := core.ParsePURL(cmd.Context(), args[0])
			if !ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("failed to parse package url")
			}
			fmt.Printf("ecosystem: %s\n", coordinate.Ecosystem)
			if coordinate.Ecosystem == types.EcosystemMaven {
				fmt.Printf("group:     %s\n", coordinate.Group)
				fmt.Printf("artifact:  %s\n", coordinate.Artifact)
			} else {
				fmt.Printf("name:      %s\n", coordinate.Name)
			}
			fmt.Printf("version:   %s\n", coordinate.Version)
			return nil
		},
	}
}
