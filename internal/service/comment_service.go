package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"evently/internal/models"
	"evently/internal/repository"
)

// EditWindow is how long after posting a comment its author may still edit it.
const EditWindow = 2 * time.Hour

type CommentService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

type CommentInput struct {
	Text string `json:"text" binding:"required,min=1,max=7000"`
}

// Create posts a comment on an event. Outsiders can only comment on published
// events; the initiator may comment on their own event in any state.
func (s *CommentService) Create(ctx context.Context, authorID, eventID uint64, in CommentInput) (*models.Comment, error) {
	author, err := getUser(ctx, s.Repo, authorID)
	if err != nil {
		return nil, err
	}
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != models.EventStatePublished && event.InitiatorID != authorID {
		return nil, Conflictf("event %d is not open for comments", eventID)
	}
	comment := &models.Comment{
		EventID:   eventID,
		AuthorID:  authorID,
		Author:    *author,
		Text:      in.Text,
		CreatedOn: time.Now().UTC(),
	}
	if err := s.Repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.Logger.Info("comment created",
		zap.Uint64("comment_id", comment.ID),
		zap.Uint64("event_id", eventID))
	return comment, nil
}

// Update lets the author rewrite their comment within the edit window.
func (s *CommentService) Update(ctx context.Context, authorID, commentID uint64, in CommentInput) (*models.Comment, error) {
	if _, err := getUser(ctx, s.Repo, authorID); err != nil {
		return nil, err
	}
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != authorID {
		return nil, Conflictf("user %d is not the author of comment %d", authorID, commentID)
	}
	if time.Now().UTC().After(comment.CreatedOn.Add(EditWindow)) {
		return nil, Conflictf("comment %d can no longer be edited", commentID)
	}
	comment.Text = in.Text
	comment.Edited = true
	if err := s.Repo.SaveComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteByAuthor removes the author's own comment.
func (s *CommentService) DeleteByAuthor(ctx context.Context, authorID, commentID uint64) error {
	if _, err := getUser(ctx, s.Repo, authorID); err != nil {
		return err
	}
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != authorID {
		return Conflictf("user %d is not the author of comment %d", authorID, commentID)
	}
	return s.Repo.DeleteComment(ctx, commentID)
}

// DeleteByAdmin removes any comment.
func (s *CommentService) DeleteByAdmin(ctx context.Context, commentID uint64) error {
	if _, err := s.getComment(ctx, commentID); err != nil {
		return err
	}
	return s.Repo.DeleteComment(ctx, commentID)
}

func (s *CommentService) GetByID(ctx context.Context, commentID uint64) (*models.Comment, error) {
	return s.getComment(ctx, commentID)
}

// ListForEvent returns the comments on a published event, newest first.
func (s *CommentService) ListForEvent(ctx context.Context, eventID uint64, limit, offset int) ([]models.Comment, error) {
	event, err := getEvent(ctx, s.Repo, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != models.EventStatePublished {
		return nil, NotFoundf("event %d is not published", eventID)
	}
	return s.Repo.ListCommentsByEvent(ctx, eventID, limit, offset)
}

func (s *CommentService) getComment(ctx context.Context, id uint64) (*models.Comment, error) {
	comment, err := s.Repo.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, NotFoundf("comment %d not found", id)
	}
	return comment, nil
}
