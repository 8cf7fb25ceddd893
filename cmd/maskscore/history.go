package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	data "github.com/tauraamui/maskdaemon/pkg/database"
	"github.com/tauraamui/maskdaemon/pkg/database/dbconn"
	"github.com/tauraamui/maskdaemon/pkg/database/models"
	"github.com/tauraamui/maskdaemon/pkg/database/repos"
	"github.com/tauraamui/maskdaemon/pkg/maskscore"
)

var connectDB = data.Connect

func newHistoryCmd() *cobra.Command {
	var (
		camera string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recently recorded scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			return printHistory(cmd.OutOrStdout(), db, camera, limit)
		},
	}
	cmd.Flags().StringVarP(&camera, "camera", "c", "", "only show scores from this camera")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}

func printHistory(out io.Writer, db dbconn.GormWrapper, camera string, limit int) error {
	repo := repos.ScoreRepository{DB: db}

	var (
		records []models.ScoreRecord
		err     error
	)
	if len(camera) > 0 {
		records, err = repo.RecentForCamera(camera, limit)
	} else {
		records, err = repo.Recent(limit)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCAMERA\tFACES\tSCORE\tELAPSED")
	for _, r := range records {
		score := maskscore.MaskScore{Value: r.Score, Defined: r.Defined}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%dms\n",
			r.CreatedAt.Format(time.RFC3339), r.Camera, r.FaceCount, score, r.ElapsedMS)
	}
	return w.Flush()
}
