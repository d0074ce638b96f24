package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAskCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask --doc <id> <question>",
		Short: "Ask a question about an uploaded document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, _ := cmd.Flags().GetString("doc")
			answer, err := newClient(v).Ask(cmd.Context(), docID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().String("doc", "", "document id returned by upload")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}
