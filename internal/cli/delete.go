package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/studio-tracker/internal/studio/jobstore"
)

func deleteCmd(open func() (*session, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <video-id>",
		Short: "Delete a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid video id %q: %w", args[0], err)
			}
			s, err := open()
			if err != nil {
				return err
			}
			err = s.store.DeleteJob(s.ctx(cmd.Context()), s.owner, id)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
				return nil
			case jobstore.IsNotFound(err):
				fmt.Fprintf(cmd.OutOrStdout(), "Video %s is already gone\n", id)
				return nil
			default:
				return fmt.Errorf("delete video: %w", err)
			}
		},
	}
}
