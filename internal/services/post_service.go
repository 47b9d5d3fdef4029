package services

import (
	"context"
	"strings"

	"github.com/lakbaycavite/server/internal/models"
)

type PostService struct {
	postRepo models.PostRepo
}

func NewPostService(postRepo models.PostRepo) *PostService {
	return &PostService{postRepo: postRepo}
}

func (ps *PostService) ListPosts(ctx context.Context, search string, page, limit int) (*models.PostList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return ps.postRepo.ListPosts(ctx, search, page, limit)
}

func (ps *PostService) GetPost(ctx context.Context, idHex string) (*models.Post, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return ps.postRepo.GetPostByID(ctx, id)
}

func (ps *PostService) DeletePost(ctx context.Context, idHex string) error {
	id, err := parseObjectID(idHex)
	if err != nil {
		return err
	}
	return ps.postRepo.DeletePost(ctx, id)
}

func (ps *PostService) TogglePostVisibility(ctx context.Context, idHex string) (*models.Post, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return ps.postRepo.TogglePostVisibility(ctx, id)
}

func (ps *PostService) AddComment(ctx context.Context, postIDHex, userIDHex, text string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("comment text is required")
	}
	postID, err := parseObjectID(postIDHex)
	if err != nil {
		return nil, err
	}
	userID, err := parseObjectID(userIDHex)
	if err != nil {
		return nil, err
	}
	return ps.postRepo.AddComment(ctx, postID, userID, strings.TrimSpace(text))
}

func (ps *PostService) GetComments(ctx context.Context, postIDHex string) ([]models.Comment, error) {
	postID, err := parseObjectID(postIDHex)
	if err != nil {
		return nil, err
	}
	return ps.postRepo.GetComments(ctx, postID)
}

// DeleteComment removes a comment. Only the comment's author or the
// post's owner may delete it; admins moderate through the same rule
// since hidden posts cover the rest.
func (ps *PostService) DeleteComment(ctx context.Context, postIDHex, commentIDHex, requesterIDHex string, requesterIsAdmin bool) (*models.Post, error) {
	postID, err := parseObjectID(postIDHex)
	if err != nil {
		return nil, err
	}
	commentID, err := parseObjectID(commentIDHex)
	if err != nil {
		return nil, err
	}
	requesterID, err := parseObjectID(requesterIDHex)
	if err != nil {
		return nil, err
	}

	post, err := ps.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return nil, models.ErrNotFound
	}
	if !requesterIsAdmin && comment.UserID != requesterID && post.UserID != requesterID {
		return nil, models.ErrForbidden
	}

	return ps.postRepo.RemoveComment(ctx, postID, commentID)
}
