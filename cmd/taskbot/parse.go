package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"taskbot/internal/config"
	"taskbot/internal/core/parser"
)

type parseOutput struct {
	Handled bool   `json:"handled"`
	Kind    string `json:"kind,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

func parseCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Show how a chat message would be classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			out := parseOutput{}
			if parsed, ok := parser.New(clock(cfg)).Parse(args[0], userID); ok {
				out = parseOutput{
					Handled: true,
					Kind:    string(parsed.Kind()),
					UserID:  parsed.UserID,
					Payload: parsed.Payload,
				}
			}

			encoded, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "U0", "user id the message is attributed to")

	return cmd
}
