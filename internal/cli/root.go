// Package cli implements studioctl, a terminal view of the studio job list.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/studio-tracker/internal/clients/dataapi"
	"github.com/yungbote/studio-tracker/internal/platform/ctxutil"
	"github.com/yungbote/studio-tracker/internal/platform/envutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/studio/jobstore"
)

// Options are the connection flags shared by every subcommand.
type Options struct {
	APIURL  string
	APIKey  string
	Table   string
	Token   string
	Owner   string
	Timeout time.Duration
}

// StoreFactory opens the job store a command talks to.
type StoreFactory func(log *logger.Logger, opts Options) (jobstore.Store, error)

type Deps struct {
	Log      *logger.Logger
	Out      io.Writer
	Err      io.Writer
	NewStore StoreFactory
}

// DataAPIStore reaches the hosted data API directly.
func DataAPIStore(log *logger.Logger, opts Options) (jobstore.Store, error) {
	client, err := dataapi.New(log, dataapi.Config{
		BaseURL: opts.APIURL,
		APIKey:  opts.APIKey,
		Table:   opts.Table,
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return jobstore.NewAPIStore(client), nil
}

func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.NewStore == nil {
		deps.NewStore = DataAPIStore
	}
	opts := &Options{}

	root := &cobra.Command{
		Use:           "studioctl",
		Short:         "Inspect and manage studio video generation jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if deps.Out != nil {
		root.SetOut(deps.Out)
	}
	if deps.Err != nil {
		root.SetErr(deps.Err)
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.APIURL, "api-url", envutil.String("DATA_API_URL", ""), "data API base URL")
	flags.StringVar(&opts.APIKey, "api-key", envutil.String("DATA_API_KEY", ""), "data API key")
	flags.StringVar(&opts.Table, "table", envutil.String("DATA_API_TABLE", "videos"), "video table name")
	flags.StringVar(&opts.Token, "token", envutil.String("STUDIO_TOKEN", ""), "user access token; queries run as that user")
	flags.StringVar(&opts.Owner, "owner", envutil.String("STUDIO_OWNER", ""), "restrict to videos owned by this user id")
	flags.DurationVar(&opts.Timeout, "timeout", 15*time.Second, "per-request timeout")

	session := func() (*session, error) {
		owner := uuid.Nil
		if s := strings.TrimSpace(opts.Owner); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("invalid --owner %q: %w", s, err)
			}
			owner = id
		}
		store, err := deps.NewStore(deps.Log, *opts)
		if err != nil {
			return nil, err
		}
		return &session{store: store, owner: owner, token: opts.Token}, nil
	}

	root.AddCommand(listCmd(session))
	root.AddCommand(watchCmd(deps.Log, session))
	root.AddCommand(deleteCmd(session))
	return root
}

type session struct {
	store jobstore.Store
	owner uuid.UUID
	token string
}

// ctx carries the caller's token so data API calls act as that user.
func (s *session) ctx(parent context.Context) context.Context {
	if s.token == "" {
		return parent
	}
	return ctxutil.WithRequestData(parent, &ctxutil.RequestData{UserID: s.owner, Token: s.token})
}
