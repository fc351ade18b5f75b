package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attendly/facekiosk/internal/config"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List attendance records",
	RunE:  runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	client, err := newRecognitionClient(config.Load())
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	records, err := client.AttendanceRecords(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No attendance records.")
		return nil
	}

	fmt.Printf("%-24s %-24s %-10s %s\n", "TIMESTAMP", "NAME", "TYPE", "STATUS")
	for _, record := range records {
		fmt.Printf("%-24s %-24s %-10s %s\n", record.Timestamp, record.Name, record.Type, record.Status)
	}
	return nil
}
