package movies

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/reelhouse-backend/pkg/db"
	"github.com/angelmondragon/reelhouse-backend/pkg/db/models"
	"github.com/angelmondragon/reelhouse-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `CREATE TABLE movies (
		id TEXT PRIMARY KEY,
		profile_id TEXT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		file_key TEXT NOT NULL UNIQUE,
		mime_type TEXT NOT NULL DEFAULT 'video/mp4',
		size_bytes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DROP TABLE movies")
	})
	return conn
}

func insertMovie(t *testing.T, repo *Repository, title string, createdAt time.Time) *models.Movie {
	t.Helper()
	owner := uuid.New()
	movie := &models.Movie{
		ID:        uuid.New(),
		ProfileID: &owner,
		Title:     title,
		FileKey:   "movies/" + uuid.NewString() + ".mp4",
		MimeType:  "video/mp4",
		SizeBytes: 42,
		CreatedAt: createdAt,
	}
	if _, err := repo.Create(context.Background(), movie); err != nil {
		t.Fatalf("insert %q: %v", title, err)
	}
	return movie
}

func TestRepositoryUniqueFileKey(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	first := insertMovie(t, repo, "one", time.Now().UTC())

	dup := &models.Movie{
		ID:        uuid.New(),
		Title:     "two",
		FileKey:   first.FileKey,
		CreatedAt: time.Now().UTC(),
	}
	_, err := repo.Create(context.Background(), dup)
	if err == nil {
		t.Fatalf("expected unique violation")
	}
	if !db.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestRepositoryListKeywordsAreANDed(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	now := time.Now().UTC()
	insertMovie(t, repo, "A Space Odyssey", now.Add(-1*time.Minute))
	insertMovie(t, repo, "Space Jam", now.Add(-2*time.Minute))
	insertMovie(t, repo, "The Odyssey", now.Add(-3*time.Minute))

	rows, err := repo.List(context.Background(), ListQuery{
		Keywords: []string{"space", "odyssey"},
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "A Space Odyssey" {
		t.Fatalf("expected the one title matching all keywords, got %d rows", len(rows))
	}
}

func TestRepositoryListKeywordIsCaseInsensitive(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	insertMovie(t, repo, "MIDNIGHT run", time.Now().UTC())

	rows, err := repo.List(context.Background(), ListQuery{Keywords: []string{"midnight"}, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected case-insensitive match, got %d rows", len(rows))
	}
}

func TestRepositoryListPagesNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	base := time.Now().UTC().Truncate(time.Second)

	var inserted []*models.Movie
	for i := 0; i < 5; i++ {
		inserted = append(inserted, insertMovie(t, repo, "movie", base.Add(time.Duration(i)*time.Minute)))
	}

	page, err := repo.List(context.Background(), ListQuery{Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(page))
	}
	if page[0].ID != inserted[4].ID {
		t.Fatalf("expected newest row first")
	}

	last := page[len(page)-1]
	rest, err := repo.List(context.Background(), ListQuery{
		Limit:  10,
		Cursor: &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID},
	})
	if err != nil {
		t.Fatalf("list rest: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected remaining 2 rows, got %d", len(rest))
	}
	for _, row := range rest {
		if !row.CreatedAt.Before(last.CreatedAt) {
			t.Fatalf("cursor page returned a non-older row")
		}
	}
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	movie := insertMovie(t, repo, "draft", time.Now().UTC())

	if err := repo.Update(context.Background(), movie.ID, map[string]any{"title": "final"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, err := repo.FindByID(context.Background(), movie.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Title != "final" {
		t.Fatalf("title not updated")
	}

	if err := repo.Delete(context.Background(), movie.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), movie.ID); err == nil {
		t.Fatalf("expected record to be gone")
	}
}
