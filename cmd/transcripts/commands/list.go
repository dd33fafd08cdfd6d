package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored conversations",
		Long: `List every stored conversation with its turn count.

Corrupt records are listed, not skipped, so the operator can see
which users lost history.

Examples:
  transcripts list
  transcripts list --db /state/palaver.db`,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := st.DumpAll()
	if err != nil {
		return fmt.Errorf("reading transcripts: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No conversations stored.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USER ID\tTURNS\tSTATUS")
	for _, rec := range records {
		status := "ok"
		if rec.Err != nil {
			status = "corrupt"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\n", rec.UserID, len(rec.Turns), status)
	}
	return w.Flush()
}
