package statuslist

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/idilsaglam/cusrr/internal/log"
	"github.com/idilsaglam/cusrr/internal/model"
)

// Remote is the slice of the API client the presentation source needs.
type Remote interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PutJSON(ctx context.Context, path string, in, out any) error
	Me(ctx context.Context) (model.Me, error)
}

// PresentationSource loads presentations as items and marks those the
// current user already graded as done.
type PresentationSource struct {
	Remote Remote
	Config Config
}

func (s PresentationSource) Load(ctx context.Context) ([]model.Item, error) {
	var ps []model.Presentation
	if err := s.Remote.GetJSON(ctx, s.Config.Collection, nil, &ps); err != nil {
		return nil, err
	}

	completed := map[int]bool{}
	if s.Config.Completed != "" {
		ids, err := s.completed(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			completed[id] = true
		}
	}

	items := make([]model.Item, 0, len(ps))
	for _, p := range ps {
		it := PresentationItem(p)
		if completed[p.ID] {
			it.Status = model.StatusDone
		}
		items = append(items, it)
	}
	return items, nil
}

func (s PresentationSource) completed(ctx context.Context) ([]int, error) {
	me, err := s.Remote.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if !me.Authenticated || me.UserID == nil {
		log.Warn().Msg("no logged-in user; skipping completion sync")
		return nil, nil
	}
	var out struct {
		Completed []int `json:"completed"`
	}
	path := expand(s.Config.Completed, "user_id", strconv.Itoa(*me.UserID))
	if err := s.Remote.GetJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Completed, nil
}

// PresentationItem converts a presentation record. A missing or unknown
// status becomes todo.
func PresentationItem(p model.Presentation) model.Item {
	status := model.StatusTodo
	if p.Status == string(model.StatusDone) {
		status = model.StatusDone
	}
	authors := make([]string, 0, len(p.Presenters))
	for _, pr := range p.Presenters {
		if n := pr.Name(); n != "" {
			authors = append(authors, n)
		}
	}
	return model.Item{
		ID:       strconv.Itoa(p.ID),
		Title:    p.Title,
		Status:   status,
		Category: p.Subject,
		Summary:  p.Abstract,
		Authors:  authors,
	}
}

// PresentationPersister writes {"status": ...} to the configured item path.
type PresentationPersister struct {
	Remote Remote
	Config Config
}

func (p PresentationPersister) PersistStatus(ctx context.Context, id string, status model.Status) error {
	path := expand(p.Config.Item, "id", url.PathEscape(id))
	return p.Remote.PutJSON(ctx, path, map[string]any{"status": status}, nil)
}
