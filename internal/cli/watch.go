package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/studio/poller"
)

func watchCmd(log *logger.Logger, open func() (*session, error)) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the job list until every video finishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			ctx, cancel := context.WithCancel(s.ctx(cmd.Context()))
			defer cancel()

			p := poller.New(log, func(ctx context.Context) ([]*studio.Video, error) {
				return s.store.ListJobs(ctx, s.owner)
			}, poller.Options{
				Interval: interval,
				OnSnapshot: func(snap poller.Snapshot) {
					fmt.Fprintf(out, "\n[%s]\n", snap.FetchedAt.Format(time.TimeOnly))
					_ = printVideos(out, snap.Videos)
				},
				OnError: func(err error) {
					fmt.Fprintf(errOut, "refresh failed, retrying in %s: %v\n", interval, err)
				},
				OnIdle: cancel,
			})
			if err := p.Start(ctx); err != nil {
				p.Stop()
				return fmt.Errorf("load videos: %w", err)
			}
			defer p.Stop()

			if p.State() == poller.StateIdle {
				fmt.Fprintln(out, "No videos in progress.")
				return nil
			}
			<-ctx.Done()
			if cmd.Context().Err() == nil {
				fmt.Fprintln(out, "All videos finished.")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "refresh interval while videos are in progress")
	return cmd
}
