package service

import (
	"context"

	"wiseadvice/internal/models"
	"wiseadvice/internal/repository"
)

// deleteComments removes the given comments and every reply below them,
// reversing the rating effect of their reactions first.
func (s *ReactionService) deleteComments(ctx context.Context, tx *repository.Repositories, roots []uint) error {
	seen := make(map[uint]struct{}, len(roots))
	all := make([]uint, 0, len(roots))
	frontier := roots
	for len(frontier) > 0 {
		next := frontier[:0:0]
		for _, id := range frontier {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
			next = append(next, id)
		}
		replies, err := tx.Comments.ReplyIDs(ctx, next)
		if err != nil {
			return err
		}
		frontier = replies
	}

	for _, id := range all {
		c, err := tx.Comments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.CompensateDelete(ctx, tx, models.CommentTarget(id), c.AuthorID); err != nil {
			return err
		}
	}
	return tx.Comments.Delete(ctx, all...)
}

// deletePost removes a post with its comments, reactions, follows,
// notifications and category links.
func (s *ReactionService) deletePost(ctx context.Context, tx *repository.Repositories, post *models.Post) error {
	if err := s.CompensateDelete(ctx, tx, models.PostTarget(post.ID), post.AuthorID); err != nil {
		return err
	}
	ids, err := tx.Comments.IDsByPost(ctx, post.ID)
	if err != nil {
		return err
	}
	if err := s.deleteComments(ctx, tx, ids); err != nil {
		return err
	}
	if err := tx.Follows.DeleteByPost(ctx, post.ID); err != nil {
		return err
	}
	if err := tx.Notifications.DeleteByPost(ctx, post.ID); err != nil {
		return err
	}
	return tx.Posts.Delete(ctx, post.ID)
}
