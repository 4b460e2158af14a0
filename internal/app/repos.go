package app

import (
	studiorepo "github.com/yungbote/studio-tracker/internal/data/repos/studio"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

type Repos struct {
	Video studiorepo.VideoRepo
}

func wireRepos(clients Clients, log *logger.Logger) Repos {
	if clients.DB == nil {
		return Repos{}
	}
	return Repos{Video: studiorepo.NewVideoRepo(clients.DB.DB(), log)}
}
