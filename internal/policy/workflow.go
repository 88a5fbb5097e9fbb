package policy

import (
	"time"

	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/models"
)

// statuses a writer may assign
var writerStatuses = map[models.ArticleStatus]bool{
	models.StatusDraft:  true,
	models.StatusReview: true,
}

// statuses in which a writer may still edit their own article
var writerEditable = map[models.ArticleStatus]bool{
	models.StatusDraft:    true,
	models.StatusReview:   true,
	models.StatusRejected: true,
}

var reviewTargets = map[models.ArticleStatus]bool{
	models.StatusPublished: true,
	models.StatusRejected:  true,
}

// CheckStatus validates that actor may assign status s through create or update.
func CheckStatus(actor Actor, s models.ArticleStatus) error {
	if !models.ValidStatuses[s] {
		return apperr.Validation("invalid status %q, must be one of: DRAFT, REVIEW, REJECTED, PUBLISHED", s)
	}
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleWriter:
		if writerStatuses[s] {
			return nil
		}
		return apperr.Forbidden("writers may only set status DRAFT or REVIEW")
	}
	return apperr.Forbidden("access denied")
}

// InitialStatus resolves the status of a new article. A nil request defaults to DRAFT.
func InitialStatus(actor Actor, requested *models.ArticleStatus) (models.ArticleStatus, error) {
	if requested == nil || *requested == "" {
		return models.StatusDraft, nil
	}
	if err := CheckStatus(actor, *requested); err != nil {
		return "", err
	}
	return *requested, nil
}

// MarkPublished stamps PublishedAt the first time an article is PUBLISHED.
// An existing stamp is kept.
func MarkPublished(a *models.Article, now time.Time) {
	if a.Status == models.StatusPublished && a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
}

// ApplyReview moves a to the review target. A PUBLISHED review restamps
// PublishedAt even when the article was published before.
func ApplyReview(a *models.Article, target models.ArticleStatus, now time.Time) error {
	if !reviewTargets[target] {
		return apperr.Validation("review status must be PUBLISHED or REJECTED")
	}
	a.Status = target
	if target == models.StatusPublished {
		t := now
		a.PublishedAt = &t
	}
	return nil
}
