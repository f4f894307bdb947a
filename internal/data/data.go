package data

import (
	"path/filepath"

	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/openrouter"
)

// Repositories contains all repositories
type Repositories struct {
	Link      repo.LinkRepo
	Exclusion repo.ExclusionRepo
	Model     repo.ModelRepo
	Content   repo.ContentRepo
}

// NewRepositories creates all repositories
func NewRepositories(modelClient *openrouter.Client, linksDBPath string) (*Repositories, error) {
	linkRepo, err := NewLinkRepo(linksDBPath)
	if err != nil {
		return nil, err
	}

	// Exclusion list lives in its own database file next to the links one
	exclusionDBPath := filepath.Join(filepath.Dir(linksDBPath), "exclusions.db")
	exclusionRepo, err := NewExclusionRepo(exclusionDBPath)
	if err != nil {
		linkRepo.Close()
		return nil, err
	}

	return &Repositories{
		Link:      linkRepo,
		Exclusion: exclusionRepo,
		Model:     NewModelRepo(modelClient),
		Content:   NewContentRepo(),
	}, nil
}

// Close closes all underlying stores
func (r *Repositories) Close() {
	if r.Link != nil {
		r.Link.Close()
	}
	if r.Exclusion != nil {
		r.Exclusion.Close()
	}
}
