// Package policy holds the authorization rules of the newsroom.
//
// Each action is a pure predicate over the acting user and the attributes
// of the resource it targets. Services and route guards evaluate a rule once
// per request; scope decisions such as "admins see every task" are rules too.
package policy

import (
	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/models"
)

// Actor is the authenticated identity behind a request
type Actor struct {
	UserID int64       `json:"userId"`
	Role   models.Role `json:"role"`
}

func (a Actor) isAdmin() bool  { return a.Role == models.RoleAdmin }
func (a Actor) isWriter() bool { return a.Role == models.RoleWriter }

// Action names an operation guarded by a rule
type Action string

const (
	ListOwnArticles Action = "article/list-own"
	ViewArticle     Action = "article/view"
	UpdateArticle   Action = "article/update"
	DeleteArticle   Action = "article/delete"
	ReviewArticle   Action = "article/review"

	ViewTask     Action = "task/view"
	CreateTask   Action = "task/create"
	UpdateTask   Action = "task/update"
	ReassignTask Action = "task/reassign"
	ToggleTask   Action = "task/toggle"
	DeleteTask   Action = "task/delete"

	ListAllArticles  Action = "article/list-all"
	ListAllTasks     Action = "task/list-all"
	ViewAssignee     Action = "task/view-assignee"
	ManageCategories Action = "category/manage"
	ManageUsers      Action = "user/manage"
)

// ArticleRef carries the article attributes the rules inspect
type ArticleRef struct {
	AuthorID int64
	Status   models.ArticleStatus
}

// RefOf builds the rule input for a stored article
func RefOf(a *models.Article) ArticleRef {
	return ArticleRef{AuthorID: a.AuthorID, Status: a.Status}
}

// TaskRef carries the task attributes the rules inspect
type TaskRef struct {
	AssigneeID *int64
}

// TaskRefOf builds the rule input for a stored task
func TaskRefOf(t *models.Task) TaskRef {
	return TaskRef{AssigneeID: t.AssignedToID}
}

// Rule decides whether actor may act on a resource described by R
type Rule[R any] func(actor Actor, ref R) bool

var articleRules = map[Action]Rule[ArticleRef]{
	ListOwnArticles: func(a Actor, _ ArticleRef) bool {
		return a.isAdmin() || a.isWriter()
	},
	ViewArticle: func(a Actor, r ArticleRef) bool {
		return a.isAdmin() || (a.isWriter() && r.AuthorID == a.UserID)
	},
	UpdateArticle: func(a Actor, r ArticleRef) bool {
		switch a.Role {
		case models.RoleAdmin:
			return r.Status == models.StatusPublished || r.AuthorID == a.UserID
		case models.RoleWriter:
			return r.AuthorID == a.UserID && writerEditable[r.Status]
		}
		return false
	},
	DeleteArticle: func(a Actor, r ArticleRef) bool {
		return a.isAdmin() || (a.isWriter() && r.AuthorID == a.UserID && r.Status != models.StatusPublished)
	},
	ReviewArticle: func(a Actor, _ ArticleRef) bool {
		return a.isAdmin()
	},
}

var taskRules = map[Action]Rule[TaskRef]{
	ViewTask:     assigneeOrAdmin,
	UpdateTask:   assigneeOrAdmin,
	ToggleTask:   assigneeOrAdmin,
	CreateTask:   adminOnly[TaskRef],
	ReassignTask: adminOnly[TaskRef],
	DeleteTask:   adminOnly[TaskRef],
}

var globalRules = map[Action]Rule[struct{}]{
	ListAllArticles:  adminOnly[struct{}],
	ListAllTasks:     adminOnly[struct{}],
	ViewAssignee:     adminOnly[struct{}],
	ManageCategories: adminOnly[struct{}],
	ManageUsers:      adminOnly[struct{}],
}

func adminOnly[R any](a Actor, _ R) bool { return a.isAdmin() }

func assigneeOrAdmin(a Actor, r TaskRef) bool {
	if a.isAdmin() {
		return true
	}
	return a.isWriter() && r.AssigneeID != nil && *r.AssigneeID == a.UserID
}

func authorize[R any](rules map[Action]Rule[R], action Action, actor Actor, ref R) error {
	rule, ok := rules[action]
	if !ok || !rule(actor, ref) {
		return apperr.Forbidden("access denied")
	}
	return nil
}

// Can reports whether actor may perform an action that targets no specific
// resource. Services use it to pick a scope rather than to reject a request.
func Can(action Action, actor Actor) bool {
	rule, ok := globalRules[action]
	return ok && rule(actor, struct{}{})
}

// AuthorizeArticle returns a forbidden error unless the article rule allows the action
func AuthorizeArticle(action Action, actor Actor, ref ArticleRef) error {
	return authorize(articleRules, action, actor, ref)
}

// AuthorizeTask returns a forbidden error unless the task rule allows the action
func AuthorizeTask(action Action, actor Actor, ref TaskRef) error {
	return authorize(taskRules, action, actor, ref)
}

// Authorize checks actions that do not target a specific resource
func Authorize(action Action, actor Actor) error {
	return authorize(globalRules, action, actor, struct{}{})
}
