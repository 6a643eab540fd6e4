package service

import (
	"context"
	"fmt"

	"wiseadvice/internal/models"
	"wiseadvice/internal/observability"
	"wiseadvice/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ReactionService applies likes and dislikes and keeps author ratings in
// step with them. Ratings only ever change by additive updates.
type ReactionService struct {
	repos *repository.Repositories
	auth  *Authorizer
}

// NewReactionService creates a ReactionService.
func NewReactionService(repos *repository.Repositories, auth *Authorizer) *ReactionService {
	return &ReactionService{repos: repos, auth: auth}
}

func effect(kind models.ReactionType) int {
	if kind == models.ReactionDislike {
		return -1
	}
	return 1
}

type reactionTarget struct {
	authorID uint
	locked   bool
}

func loadTarget(ctx context.Context, tx *repository.Repositories, target models.ReactionTarget) (reactionTarget, error) {
	switch target.Kind {
	case models.TargetPost:
		post, err := tx.Posts.GetByID(ctx, target.ID)
		if err != nil {
			return reactionTarget{}, err
		}
		return reactionTarget{authorID: post.AuthorID, locked: post.Locked}, nil
	case models.TargetComment:
		comment, err := tx.Comments.GetByID(ctx, target.ID)
		if err != nil {
			return reactionTarget{}, err
		}
		return reactionTarget{authorID: comment.AuthorID, locked: comment.Locked}, nil
	default:
		return reactionTarget{}, models.NewValidationError(fmt.Sprintf("unknown reaction target %q", target.Kind))
	}
}

// Apply records the actor's desired reaction on target. An opposite reaction
// is swapped out first, so a dislike turned into a like moves the author's
// rating by two.
func (s *ReactionService) Apply(ctx context.Context, actorID uint, target models.ReactionTarget, desired models.ReactionType) error {
	ctx, span := observability.StartServiceSpan(ctx, "ReactionService", "Apply",
		attribute.String("target", target.String()),
		attribute.String("type", string(desired)),
	)
	defer span.End()

	var delta int
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		t, err := loadTarget(ctx, tx, target)
		if err != nil {
			return err
		}
		if err := s.auth.RequireUnlocked(t.locked, string(target.Kind)); err != nil {
			return err
		}

		existing, err := tx.Reactions.Find(ctx, actorID, target)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Type == desired {
				return models.NewConflictError(fmt.Sprintf("You have already %sd this %s", desired, target.Kind))
			}
			// existing is desired.Opposite(); dropping it undoes its effect.
			if err := tx.Reactions.Delete(ctx, existing.ID); err != nil {
				return err
			}
			delta -= effect(desired.Opposite())
		}

		if err := tx.Reactions.Create(ctx, models.NewReaction(actorID, target, desired)); err != nil {
			return err
		}
		delta += effect(desired)

		return tx.Users.AdjustRating(ctx, t.authorID, delta)
	})
	if err != nil {
		observability.FailSpan(span, err)
		return err
	}

	observability.ReactionsTotal.WithLabelValues(string(target.Kind), string(desired), "apply").Inc()
	return nil
}

// Remove deletes the actor's reaction of the given kind and reverses its
// rating effect.
func (s *ReactionService) Remove(ctx context.Context, actorID uint, target models.ReactionTarget, kind models.ReactionType) error {
	ctx, span := observability.StartServiceSpan(ctx, "ReactionService", "Remove",
		attribute.String("target", target.String()),
		attribute.String("type", string(kind)),
	)
	defer span.End()

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		t, err := loadTarget(ctx, tx, target)
		if err != nil {
			return err
		}
		if err := s.auth.RequireUnlocked(t.locked, string(target.Kind)); err != nil {
			return err
		}

		existing, err := tx.Reactions.Find(ctx, actorID, target)
		if err != nil {
			return err
		}
		if existing == nil || existing.Type != kind {
			return models.NewForbiddenError(fmt.Sprintf("You cannot remove %s from this %s", kind, target.Kind))
		}
		if err := tx.Reactions.Delete(ctx, existing.ID); err != nil {
			return err
		}
		return tx.Users.AdjustRating(ctx, t.authorID, -effect(kind))
	})
	if err != nil {
		observability.FailSpan(span, err)
		return err
	}

	observability.ReactionsTotal.WithLabelValues(string(target.Kind), string(kind), "remove").Inc()
	return nil
}

// ListReactions returns the reactions of one kind on target.
func (s *ReactionService) ListReactions(ctx context.Context, target models.ReactionTarget, kind models.ReactionType) ([]models.Reaction, error) {
	if _, err := loadTarget(ctx, s.repos, target); err != nil {
		return nil, err
	}
	return s.repos.Reactions.List(ctx, target, kind)
}

// CompensateDelete reverses the rating effect of every reaction on target
// and deletes those reactions. It must run inside the transaction that
// deletes the target.
func (s *ReactionService) CompensateDelete(ctx context.Context, tx *repository.Repositories, target models.ReactionTarget, authorID uint) error {
	likes, dislikes, err := tx.Reactions.Count(ctx, target)
	if err != nil {
		return err
	}
	if delta := int(dislikes - likes); delta != 0 {
		if err := tx.Users.AdjustRating(ctx, authorID, delta); err != nil {
			return err
		}
	}
	return tx.Reactions.DeleteByTarget(ctx, target)
}
