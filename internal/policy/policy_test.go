package policy

import (
	"testing"
	"time"

	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/models"
)

var (
	admin      = Actor{UserID: 1, Role: models.RoleAdmin}
	writer     = Actor{UserID: 2, Role: models.RoleWriter}
	otherWrite = Actor{UserID: 3, Role: models.RoleWriter}
	stranger   = Actor{UserID: 4, Role: models.Role("GUEST")}
)

var allStatuses = []models.ArticleStatus{
	models.StatusDraft, models.StatusReview, models.StatusRejected, models.StatusPublished,
}

func TestArticleRules(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		actor  Actor
		ref    ArticleRef
		want   bool
	}{
		{"admin views any", ViewArticle, admin, ArticleRef{AuthorID: 2, Status: models.StatusDraft}, true},
		{"writer views own", ViewArticle, writer, ArticleRef{AuthorID: 2, Status: models.StatusDraft}, true},
		{"writer views other", ViewArticle, writer, ArticleRef{AuthorID: 3, Status: models.StatusPublished}, false},
		{"unknown role views", ViewArticle, stranger, ArticleRef{AuthorID: 4}, false},
		{"unknown role lists", ListOwnArticles, stranger, ArticleRef{}, false},

		{"admin updates published", UpdateArticle, admin, ArticleRef{AuthorID: 2, Status: models.StatusPublished}, true},
		{"admin updates own draft", UpdateArticle, admin, ArticleRef{AuthorID: 1, Status: models.StatusDraft}, true},
		{"admin updates writer draft", UpdateArticle, admin, ArticleRef{AuthorID: 2, Status: models.StatusDraft}, false},
		{"writer updates own draft", UpdateArticle, writer, ArticleRef{AuthorID: 2, Status: models.StatusDraft}, true},
		{"writer updates own review", UpdateArticle, writer, ArticleRef{AuthorID: 2, Status: models.StatusReview}, true},
		{"writer updates own rejected", UpdateArticle, writer, ArticleRef{AuthorID: 2, Status: models.StatusRejected}, true},
		{"writer updates own published", UpdateArticle, writer, ArticleRef{AuthorID: 2, Status: models.StatusPublished}, false},
		{"writer updates other draft", UpdateArticle, otherWrite, ArticleRef{AuthorID: 2, Status: models.StatusDraft}, false},

		{"admin deletes published", DeleteArticle, admin, ArticleRef{AuthorID: 2, Status: models.StatusPublished}, true},
		{"writer deletes own draft", DeleteArticle, writer, ArticleRef{AuthorID: 2, Status: models.StatusDraft}, true},
		{"writer deletes own published", DeleteArticle, writer, ArticleRef{AuthorID: 2, Status: models.StatusPublished}, false},
		{"writer deletes other draft", DeleteArticle, otherWrite, ArticleRef{AuthorID: 2, Status: models.StatusDraft}, false},

		{"admin reviews", ReviewArticle, admin, ArticleRef{AuthorID: 2}, true},
		{"writer reviews own", ReviewArticle, writer, ArticleRef{AuthorID: 2}, false},
		{"unknown action", Action("article/unknown"), admin, ArticleRef{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeArticle(tt.action, tt.actor, tt.ref)
			if tt.want && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if !tt.want && !apperr.Is(err, apperr.KindForbidden) {
				t.Errorf("Expected forbidden error, got %v", err)
			}
		})
	}
}

func TestTaskRules(t *testing.T) {
	mine := int64(2)
	theirs := int64(3)

	tests := []struct {
		name   string
		action Action
		actor  Actor
		ref    TaskRef
		want   bool
	}{
		{"admin views unassigned", ViewTask, admin, TaskRef{}, true},
		{"writer views assigned", ViewTask, writer, TaskRef{AssigneeID: &mine}, true},
		{"writer views other", ViewTask, writer, TaskRef{AssigneeID: &theirs}, false},
		{"writer views unassigned", ViewTask, writer, TaskRef{}, false},
		{"writer toggles assigned", ToggleTask, writer, TaskRef{AssigneeID: &mine}, true},
		{"writer toggles other", ToggleTask, writer, TaskRef{AssigneeID: &theirs}, false},
		{"writer updates assigned", UpdateTask, writer, TaskRef{AssigneeID: &mine}, true},
		{"writer reassigns", ReassignTask, writer, TaskRef{AssigneeID: &mine}, false},
		{"writer creates", CreateTask, writer, TaskRef{}, false},
		{"writer deletes", DeleteTask, writer, TaskRef{AssigneeID: &mine}, false},
		{"admin deletes", DeleteTask, admin, TaskRef{}, true},
		{"unknown role toggles", ToggleTask, stranger, TaskRef{AssigneeID: &theirs}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeTask(tt.action, tt.actor, tt.ref)
			if (err == nil) != tt.want {
				t.Errorf("AuthorizeTask(%s) err = %v, want allowed=%v", tt.action, err, tt.want)
			}
		})
	}
}

func TestGlobalRules(t *testing.T) {
	if err := Authorize(ManageCategories, admin); err != nil {
		t.Errorf("admin should manage categories: %v", err)
	}
	if err := Authorize(ManageUsers, writer); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("writer must not manage users, got %v", err)
	}
}

func TestScopeRules(t *testing.T) {
	for _, action := range []Action{ListAllArticles, ListAllTasks, ViewAssignee} {
		if !Can(action, admin) {
			t.Errorf("admin should be allowed %s", action)
		}
		for _, actor := range []Actor{writer, stranger} {
			if Can(action, actor) {
				t.Errorf("%s must not be allowed %s", actor.Role, action)
			}
		}
	}
	if Can(ReviewArticle, admin) {
		t.Error("Can only answers resource-free actions")
	}
}

func TestWriterNeverAssignsTerminalStatus(t *testing.T) {
	for _, s := range allStatuses {
		err := CheckStatus(writer, s)
		allowed := s == models.StatusDraft || s == models.StatusReview
		if allowed && err != nil {
			t.Errorf("writer should set %s: %v", s, err)
		}
		if !allowed && !apperr.Is(err, apperr.KindForbidden) {
			t.Errorf("writer must not set %s, got %v", s, err)
		}
		if err := CheckStatus(admin, s); err != nil {
			t.Errorf("admin should set %s: %v", s, err)
		}
	}

	if err := CheckStatus(admin, models.ArticleStatus("ARCHIVED")); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}
}

func TestInitialStatus(t *testing.T) {
	s, err := InitialStatus(writer, nil)
	if err != nil || s != models.StatusDraft {
		t.Errorf("Expected DRAFT default, got %s (%v)", s, err)
	}

	published := models.StatusPublished
	if _, err := InitialStatus(writer, &published); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden for writer PUBLISHED, got %v", err)
	}

	s, err = InitialStatus(admin, &published)
	if err != nil || s != models.StatusPublished {
		t.Errorf("Expected PUBLISHED for admin, got %s (%v)", s, err)
	}
}

func TestMarkPublishedKeepsFirstStamp(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	a := &models.Article{Status: models.StatusDraft}
	MarkPublished(a, first)
	if a.PublishedAt != nil {
		t.Fatal("Draft must not be stamped")
	}

	a.Status = models.StatusPublished
	MarkPublished(a, first)
	if a.PublishedAt == nil || !a.PublishedAt.Equal(first) {
		t.Fatalf("Expected stamp %v, got %v", first, a.PublishedAt)
	}

	MarkPublished(a, later)
	if !a.PublishedAt.Equal(first) {
		t.Errorf("Re-publish must keep the first stamp, got %v", a.PublishedAt)
	}
}

func TestApplyReview(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	a := &models.Article{Status: models.StatusDraft}
	if err := ApplyReview(a, models.StatusPublished, first); err != nil {
		t.Fatalf("ApplyReview failed: %v", err)
	}
	if a.Status != models.StatusPublished || a.PublishedAt == nil {
		t.Fatalf("Expected published and stamped, got %s %v", a.Status, a.PublishedAt)
	}

	if err := ApplyReview(a, models.StatusPublished, later); err != nil {
		t.Fatalf("ApplyReview failed: %v", err)
	}
	if !a.PublishedAt.Equal(later) {
		t.Errorf("Review must restamp, got %v", a.PublishedAt)
	}

	if err := ApplyReview(a, models.StatusRejected, later); err != nil {
		t.Fatalf("ApplyReview failed: %v", err)
	}
	if a.Status != models.StatusRejected || a.PublishedAt == nil {
		t.Errorf("Reject keeps the stamp, got %s %v", a.Status, a.PublishedAt)
	}

	for _, bad := range []models.ArticleStatus{models.StatusDraft, models.StatusReview, "nope"} {
		if err := ApplyReview(a, bad, later); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Expected validation error for %q, got %v", bad, err)
		}
	}
}
