package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/spanpump/config"
	"github.com/teranos/spanpump/ingest/resume"
	"github.com/teranos/spanpump/logger"
	"github.com/teranos/spanpump/rowstore"
)

// ResumeCmd groups operations on the resumption cursor.
var ResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Inspect or reset the span ingestion resumption cursor",
}

var resumeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the resumption cursor so the next run starts from the beginning",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.ComponentLogger("resume")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := rowstore.OpenWithMigrations(cfg.Storage.RowStorePath, log)
		if err != nil {
			return err
		}
		defer db.Close()

		store := resume.New(db)
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}

		log.Infow("resumption cursor cleared")
		return nil
	},
}

func init() {
	ResumeCmd.AddCommand(resumeClearCmd)
}
