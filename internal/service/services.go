// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated input from handlers, calls the repositories and triggers the
// side effects (audit jobs) of each operation.
package service

import (
	"github.com/deppfellow/bookmarks/internal/lib/job"
	"github.com/deppfellow/bookmarks/internal/repository"
	"github.com/deppfellow/bookmarks/internal/server"
)

type Services struct {
	Auth     *AuthService
	Bookmark BookmarkService
	Job      *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var publisher AuditPublisher
	if s.Job != nil {
		publisher = s.Job
	}

	return &Services{
		Auth:     NewAuthService(s),
		Bookmark: NewBookmarkService(repos.Bookmark, publisher, s.Logger),
		Job:      s.Job,
	}, nil
}
