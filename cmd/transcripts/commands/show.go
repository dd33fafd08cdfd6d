package commands

import (
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print one user's conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := st.DumpAll()
	if err != nil {
		return fmt.Errorf("reading transcripts: %w", err)
	}
	for _, rec := range records {
		if rec.UserID != userID {
			continue
		}
		if rec.Err != nil {
			return fmt.Errorf("transcript for user %d is corrupt: %v", userID, rec.Err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User ID: %d\n\n", rec.UserID)
		for _, turn := range rec.Turns {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", turn.Role, turn.Content)
		}
		return nil
	}
	return fmt.Errorf("no transcript stored for user %d", userID)
}
