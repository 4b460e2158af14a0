package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/app"
	"github.com/yungbote/studio-tracker/internal/pkg/dbctx"
	"github.com/yungbote/studio-tracker/internal/studio/simulate"
)

func main() {
	var owner string
	var count int
	var advance bool
	var failID string
	var dryRun bool
	flag.StringVar(&owner, "owner", "", "user id that owns the videos (required)")
	flag.IntVar(&count, "count", 5, "number of demo videos to create")
	flag.BoolVar(&advance, "advance", false, "move every in-flight video one step forward instead of seeding")
	flag.StringVar(&failID, "fail", "", "mark this video id failed")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned changes without writing")
	flag.Parse()

	ownerID, err := uuid.Parse(strings.TrimSpace(owner))
	if err != nil || ownerID == uuid.Nil {
		fmt.Println("a valid -owner user id is required")
		os.Exit(2)
	}

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	repo := application.Repos.Video
	if repo == nil {
		fmt.Println("seeding needs a database store (STUDIO_STORE=postgres or sqlite)")
		os.Exit(1)
	}
	dbc := dbctx.Context{Ctx: ctx}

	switch {
	case failID != "":
		id, err := uuid.Parse(failID)
		if err != nil {
			fmt.Printf("invalid -fail id: %v\n", err)
			os.Exit(2)
		}
		v, err := repo.GetByID(dbc, id)
		if err != nil {
			fmt.Printf("load video %s: %v\n", id, err)
			os.Exit(1)
		}
		if v == nil {
			fmt.Printf("video %s not found\n", id)
			os.Exit(1)
		}
		updates, ok := simulate.Fail(v, "generation pipeline error")
		if !ok {
			fmt.Printf("video %s is %s; only pending or processing videos can fail\n", id, v.Status)
			os.Exit(1)
		}
		if dryRun {
			fmt.Printf("[dry-run] fail video %s %v\n", id, updates)
			return
		}
		if err := repo.UpdateFields(dbc, id, updates); err != nil {
			fmt.Printf("fail video %s: %v\n", id, err)
			os.Exit(1)
		}
		fmt.Printf("marked %s failed\n", id)

	case advance:
		rows, err := repo.ListByOwner(dbc, ownerID)
		if err != nil {
			fmt.Printf("load videos: %v\n", err)
			os.Exit(1)
		}
		moved := 0
		for _, v := range rows {
			updates, ok := simulate.Advance(v)
			if !ok {
				continue
			}
			if dryRun {
				fmt.Printf("[dry-run] advance %s %v\n", v.ID, updates)
				continue
			}
			if err := repo.UpdateFields(dbc, v.ID, updates); err != nil {
				fmt.Printf("advance %s failed: %v\n", v.ID, err)
				continue
			}
			moved++
		}
		fmt.Printf("done; advanced=%d\n", moved)

	default:
		rows := simulate.Seed(ownerID, count, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now().UTC())
		for _, v := range rows {
			if err := v.Validate(); err != nil {
				fmt.Printf("seeded row invalid: %v\n", err)
				os.Exit(1)
			}
		}
		if dryRun {
			for _, v := range rows {
				fmt.Printf("[dry-run] create %s status=%s\n", v.ID, v.Status)
			}
			return
		}
		created, err := repo.Create(dbc, rows)
		if err != nil {
			fmt.Printf("create videos: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("done; created=%d\n", len(created))
	}
}
