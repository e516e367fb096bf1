package app

import (
	"gorm.io/gorm"

	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/repos"
)

type Repos struct {
	Profile    repos.ProfileRepo
	University repos.UniversityRepo
	Shortlist  repos.ShortlistRepo
	Task       repos.TaskRepo
	Chat       repos.ChatRepo
	Document   repos.DocumentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Profile:    repos.NewProfileRepo(db, log),
		University: repos.NewUniversityRepo(db, log),
		Shortlist:  repos.NewShortlistRepo(db, log),
		Task:       repos.NewTaskRepo(db, log),
		Chat:       repos.NewChatRepo(db, log),
		Document:   repos.NewDocumentRepo(db, log),
	}
}
