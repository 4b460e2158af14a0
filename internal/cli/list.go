package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/studio/progress"
)

func listCmd(open func() (*session, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List videos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			videos, err := s.store.ListJobs(s.ctx(cmd.Context()), s.owner)
			if err != nil {
				return fmt.Errorf("list videos: %w", err)
			}
			return printVideos(cmd.OutOrStdout(), videos)
		},
	}
}

func printVideos(out io.Writer, videos []*studio.Video) error {
	if len(videos) == 0 {
		_, err := fmt.Fprintln(out, "No videos.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPHASE\tVOICE\tAMBIENT\tCOMPOSING\tCREATED")
	for _, v := range videos {
		if v == nil {
			continue
		}
		r := progress.Describe(v)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Status, r.Phase, r.Voice, r.Ambient, r.Composing,
			v.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
