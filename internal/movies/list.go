package movies

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/reelhouse-backend/pkg/errors"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

// ListParams configures browsing and search.
type ListParams struct {
	Search string
	Limit  int
	Cursor string
}

// ListResult is one page of movies plus the cursor for the next one.
type ListResult struct {
	Items  []MovieDTO `json:"items"`
	Cursor string     `json:"cursor"`
}

// List returns a newest-first page. Each whitespace-separated search keyword
// must match the title, case-insensitively.
func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := ListQuery{
		Keywords: strings.Fields(params.Search),
		Limit:    limit + 1,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, err := s.repo(nil).List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movies")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]MovieDTO, len(rows))
	for i := range rows {
		items[i] = *s.toDTO(&rows[i])
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}
