package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/newsroom-cms/api/internal/database"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/rs/zerolog"
)

var errStatementFailed = errors.New("statement failed")

// recorder is a database/sql connector that logs the first keyword of every
// statement plus transaction boundaries, and fails statements containing failOn
type recorder struct {
	mu       sync.Mutex
	calls    []string
	failOn   string
	noRows   bool
	affected int64
}

func (r *recorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) Connect(context.Context) (driver.Conn, error) { return &recConn{r}, nil }
func (r *recorder) Driver() driver.Driver                         { return recDriver{r} }

type recDriver struct{ r *recorder }

func (d recDriver) Open(string) (driver.Conn, error) { return &recConn{d.r}, nil }

type recConn struct{ r *recorder }

func (c *recConn) Prepare(query string) (driver.Stmt, error) { return &recStmt{c.r, query}, nil }
func (c *recConn) Close() error                              { return nil }
func (c *recConn) Begin() (driver.Tx, error) {
	c.r.record("BEGIN")
	return recTx{c.r}, nil
}

type recTx struct{ r *recorder }

func (t recTx) Commit() error   { t.r.record("COMMIT"); return nil }
func (t recTx) Rollback() error { t.r.record("ROLLBACK"); return nil }

type recStmt struct {
	r     *recorder
	query string
}

func (s *recStmt) Close() error  { return nil }
func (s *recStmt) NumInput() int { return -1 }

func (s *recStmt) run() error {
	s.r.record(strings.Fields(s.query)[0])
	if s.r.failOn != "" && strings.Contains(s.query, s.r.failOn) {
		return errStatementFailed
	}
	return nil
}

func (s *recStmt) Exec(args []driver.Value) (driver.Result, error) {
	if err := s.run(); err != nil {
		return nil, err
	}
	return driver.RowsAffected(s.r.affected), nil
}

func (s *recStmt) Query(args []driver.Value) (driver.Rows, error) {
	if err := s.run(); err != nil {
		return nil, err
	}
	return &recRows{done: s.r.noRows}, nil
}

// recRows yields a single id row unless done starts true
type recRows struct{ done bool }

func (r *recRows) Columns() []string { return []string{"id"} }
func (r *recRows) Close() error      { return nil }
func (r *recRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = int64(7)
	return nil
}

func newRecordingRepo(t *testing.T, rec *recorder) CategoryRepository {
	t.Helper()
	sqlDB := sql.OpenDB(rec)
	t.Cleanup(func() { sqlDB.Close() })
	return NewCategoryRepo(database.Wrap(sqlDB, zerolog.Nop()))
}

func TestDeleteAndReassign_Transaction(t *testing.T) {
	tests := []struct {
		name      string
		rec       *recorder
		wantErr   error
		wantMoved int64
		wantCalls []string
	}{
		{
			name:      "commits reassign and delete together",
			rec:       &recorder{affected: 3},
			wantMoved: 3,
			wantCalls: []string{"BEGIN", "SELECT", "UPDATE", "DELETE", "COMMIT"},
		},
		{
			name:      "failed delete rolls back the reassign",
			rec:       &recorder{affected: 3, failOn: "DELETE FROM categories"},
			wantErr:   errStatementFailed,
			wantCalls: []string{"BEGIN", "SELECT", "UPDATE", "DELETE", "ROLLBACK"},
		},
		{
			name:      "failed reassign never deletes",
			rec:       &recorder{failOn: "UPDATE articles"},
			wantErr:   errStatementFailed,
			wantCalls: []string{"BEGIN", "SELECT", "UPDATE", "ROLLBACK"},
		},
		{
			name:      "missing category",
			rec:       &recorder{noRows: true},
			wantErr:   ErrNotFound,
			wantCalls: []string{"BEGIN", "SELECT", "ROLLBACK"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRecordingRepo(t, tt.rec)

			moved, err := repo.DeleteAndReassign(context.Background(), 7, 5)
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && err != nil {
				t.Fatalf("DeleteAndReassign failed: %v", err)
			}
			if moved != tt.wantMoved {
				t.Errorf("Expected %d moved, got %d", tt.wantMoved, moved)
			}
			if !reflect.DeepEqual(tt.rec.calls, tt.wantCalls) {
				t.Errorf("Expected calls %v, got %v", tt.wantCalls, tt.rec.calls)
			}
		})
	}
}

// Runs against a real database when TEST_DATABASE_DSN is set
func TestDeleteAndReassign_PostgresRollback(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	ctx := context.Background()

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	db := database.Wrap(sqlDB, zerolog.Nop())
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	users, articles, categories := NewUserRepo(db), NewArticleRepo(db), NewCategoryRepo(db)
	if err := categories.EnsureReserved(ctx, 5, "Other"); err != nil {
		t.Fatalf("EnsureReserved: %v", err)
	}

	suffix := time.Now().UnixNano()
	author := &models.User{
		Name:         "Rollback Author",
		Email:        fmt.Sprintf("rollback-%d@example.com", suffix),
		PasswordHash: "x",
		Role:         models.RoleWriter,
	}
	if err := users.Create(ctx, author); err != nil {
		t.Fatalf("create user: %v", err)
	}
	category := &models.Category{Name: fmt.Sprintf("rollback-%d", suffix)}
	if err := categories.Create(ctx, category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	article := &models.Article{
		Title:      "Rollback",
		Slug:       fmt.Sprintf("rollback-%d", suffix),
		Summary:    "s",
		Content:    "c",
		Status:     models.StatusDraft,
		AuthorID:   author.ID,
		CategoryID: &category.ID,
	}
	if err := articles.Create(ctx, article); err != nil {
		t.Fatalf("create article: %v", err)
	}

	trigger := fmt.Sprintf("block_delete_%d", suffix)
	mustExec := func(query string) {
		t.Helper()
		if _, err := db.ExecContext(ctx, query); err != nil {
			t.Fatalf("%s: %v", query, err)
		}
	}
	mustExec(fmt.Sprintf(`CREATE FUNCTION %s() RETURNS trigger AS $$ BEGIN RAISE EXCEPTION 'blocked'; END $$ LANGUAGE plpgsql`, trigger))
	mustExec(fmt.Sprintf(`CREATE TRIGGER %s BEFORE DELETE ON categories FOR EACH ROW WHEN (OLD.id = %d) EXECUTE FUNCTION %s()`, trigger, category.ID, trigger))
	t.Cleanup(func() {
		db.ExecContext(ctx, fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON categories", trigger))
		db.ExecContext(ctx, fmt.Sprintf("DROP FUNCTION IF EXISTS %s()", trigger))
		db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", article.ID)
		db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", category.ID)
		db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", author.ID)
	})

	if _, err := categories.DeleteAndReassign(ctx, category.ID, 5); err == nil {
		t.Fatal("Expected the blocked delete to fail")
	}
	stored, err := articles.GetByID(ctx, article.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.CategoryID == nil || *stored.CategoryID != category.ID {
		t.Errorf("Reassign was not rolled back, category is %v", stored.CategoryID)
	}

	mustExec(fmt.Sprintf("DROP TRIGGER %s ON categories", trigger))
	moved, err := categories.DeleteAndReassign(ctx, category.ID, 5)
	if err != nil {
		t.Fatalf("DeleteAndReassign: %v", err)
	}
	if moved != 1 {
		t.Errorf("Expected 1 moved, got %d", moved)
	}
}
