package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-agency/internal/data/entity"
	"travel-agency/internal/data/repository"
	"travel-agency/internal/dto/request"
	"travel-agency/internal/dto/response"
	"travel-agency/pkg/media"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ContentService interface {
	// Sections
	GetSections(ctx context.Context, navOnly bool) ([]response.SectionResponse, error)
	GetSectionBySlug(ctx context.Context, sectionSlug string) (*response.SectionResponse, error)
	CreateSection(ctx context.Context, req *request.SectionRequest) (*response.SectionResponse, error)
	UpdateSection(ctx context.Context, sectionID string, req *request.SectionRequest) (*response.SectionResponse, error)
	DeleteSection(ctx context.Context, sectionID string) error
	SetSectionImage(ctx context.Context, sectionID string, img ImageUpload) (*response.SectionResponse, error)

	// Blog
	GetPosts(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BlogPostResponse], error)
	GetPostBySlug(ctx context.Context, postSlug string) (*response.BlogPostDetailResponse, error)
	CreatePost(ctx context.Context, req *request.BlogPostRequest) (*response.BlogPostResponse, error)
	UpdatePost(ctx context.Context, postID string, req *request.BlogPostRequest) (*response.BlogPostResponse, error)
	DeletePost(ctx context.Context, postID string) error
	SetPostImage(ctx context.Context, postID string, img ImageUpload) (*response.BlogPostResponse, error)
	AddPostGalleryImage(ctx context.Context, postID string, img ImageUpload) (*response.BlogPostDetailResponse, error)

	// Comments
	GetComments(ctx context.Context, postSlug string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	AddComment(ctx context.Context, userID uuid.UUID, postSlug string, req *request.CommentRequest) (*response.CommentResponse, error)
}

type contentService struct {
	repo  *repository.Repository
	media media.Store
	log   *zap.Logger
}

func NewContentService(repo *repository.Repository, store media.Store, log *zap.Logger) ContentService {
	return &contentService{
		repo:  repo,
		media: store,
		log:   log.With(zap.String("service", "content")),
	}
}

// makeSlug slugifies the explicit slug when given, otherwise the title.
func makeSlug(explicit, title string) (string, error) {
	src := strings.TrimSpace(explicit)
	if src == "" {
		src = title
	}

	s := slug.Make(src)
	if s == "" {
		return "", fieldError("slug", "Cannot build a slug from this title")
	}
	return s, nil
}

func duplicateSlug(err error, s string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: slug %q is already in use", ErrConflict, s)
	}
	return err
}

// ==================== SECTIONS ====================

func (s *contentService) GetSections(ctx context.Context, navOnly bool) ([]response.SectionResponse, error) {
	list, err := s.repo.Section.FindAll(ctx, navOnly)
	if err != nil {
		return nil, fmt.Errorf("get sections: %w", err)
	}

	out := make([]response.SectionResponse, 0, len(list))
	for _, sec := range list {
		out = append(out, response.SectionToResponse(sec))
	}
	return out, nil
}

func (s *contentService) GetSectionBySlug(ctx context.Context, sectionSlug string) (*response.SectionResponse, error) {
	sec, err := s.repo.Section.FindBySlug(ctx, sectionSlug)
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	if sec == nil {
		return nil, notFound("section", sectionSlug)
	}

	resp := response.SectionToResponse(sec)
	return &resp, nil
}

func (s *contentService) findSection(ctx context.Context, sectionID string) (*entity.Section, error) {
	id, err := parseUUID("id", sectionID)
	if err != nil {
		return nil, err
	}

	sec, err := s.repo.Section.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	if sec == nil {
		return nil, notFound("section", id)
	}
	return sec, nil
}

func (s *contentService) CreateSection(ctx context.Context, req *request.SectionRequest) (*response.SectionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	sl, err := makeSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sec := &entity.Section{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		Title:        strings.TrimSpace(req.Title),
		Slug:         sl,
		Content:      req.Content,
		SortOrder:    req.SortOrder,
		ShowInNav:    req.ShowInNav == nil || *req.ShowInNav,
	}

	if err := s.repo.Section.Create(ctx, sec); err != nil {
		return nil, duplicateSlug(err, sl)
	}

	s.log.Info("Section created", zap.String("section_id", sec.ID.String()), zap.String("slug", sl))

	resp := response.SectionToResponse(sec)
	return &resp, nil
}

func (s *contentService) UpdateSection(ctx context.Context, sectionID string, req *request.SectionRequest) (*response.SectionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	sec, err := s.findSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	// an existing slug is kept unless a new one is given, so links stay valid
	if req.Slug != "" {
		sec.Slug, err = makeSlug(req.Slug, req.Title)
		if err != nil {
			return nil, err
		}
	}
	sec.Title = strings.TrimSpace(req.Title)
	sec.Content = req.Content
	sec.SortOrder = req.SortOrder
	if req.ShowInNav != nil {
		sec.ShowInNav = *req.ShowInNav
	}
	sec.UpdatedAt = time.Now()

	if err := s.repo.Section.Update(ctx, sec); err != nil {
		return nil, duplicateSlug(err, sec.Slug)
	}

	resp := response.SectionToResponse(sec)
	return &resp, nil
}

func (s *contentService) DeleteSection(ctx context.Context, sectionID string) error {
	sec, err := s.findSection(ctx, sectionID)
	if err != nil {
		return err
	}

	if err := s.repo.Section.Delete(ctx, sec.ID); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}

	s.log.Info("Section deleted", zap.String("section_id", sec.ID.String()))
	return nil
}

func (s *contentService) SetSectionImage(ctx context.Context, sectionID string, img ImageUpload) (*response.SectionResponse, error) {
	sec, err := s.findSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	url, err := storeImage(ctx, s.media, "sections", img)
	if err != nil {
		return nil, err
	}

	sec.Image = &url
	sec.UpdatedAt = time.Now()
	if err := s.repo.Section.Update(ctx, sec); err != nil {
		return nil, fmt.Errorf("update section image: %w", err)
	}

	resp := response.SectionToResponse(sec)
	return &resp, nil
}

// ==================== BLOG ====================

func (s *contentService) GetPosts(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BlogPostResponse], error) {
	limit := req.Limit()

	posts, err := s.repo.BlogPost.FindAll(ctx, limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get posts: %w", err)
	}

	total, err := s.repo.BlogPost.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	data := make([]response.BlogPostResponse, 0, len(posts))
	for _, p := range posts {
		data = append(data, response.BlogPostToResponse(p))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), limit, total), nil
}

func (s *contentService) findPostBySlug(ctx context.Context, postSlug string) (*entity.BlogPost, error) {
	post, err := s.repo.BlogPost.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, notFound("post", postSlug)
	}
	return post, nil
}

func (s *contentService) findPost(ctx context.Context, postID string) (*entity.BlogPost, error) {
	id, err := parseUUID("id", postID)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.BlogPost.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, notFound("post", id)
	}
	return post, nil
}

func (s *contentService) GetPostBySlug(ctx context.Context, postSlug string) (*response.BlogPostDetailResponse, error) {
	post, err := s.findPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	return s.postDetail(ctx, post)
}

func (s *contentService) postDetail(ctx context.Context, post *entity.BlogPost) (*response.BlogPostDetailResponse, error) {
	images, err := s.repo.BlogImage.FindByPostID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("get post gallery: %w", err)
	}

	gallery := make([]string, 0, len(images))
	for _, img := range images {
		gallery = append(gallery, img.Image)
	}

	return &response.BlogPostDetailResponse{
		BlogPostResponse: response.BlogPostToResponse(post),
		Gallery:          gallery,
	}, nil
}

func (s *contentService) CreatePost(ctx context.Context, req *request.BlogPostRequest) (*response.BlogPostResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	sl, err := makeSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &entity.BlogPost{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		Title:        strings.TrimSpace(req.Title),
		Slug:         sl,
		Content:      req.Content,
	}

	if err := s.repo.BlogPost.Create(ctx, post); err != nil {
		return nil, duplicateSlug(err, sl)
	}

	s.log.Info("Blog post created", zap.String("post_id", post.ID.String()), zap.String("slug", sl))

	resp := response.BlogPostToResponse(post)
	return &resp, nil
}

func (s *contentService) UpdatePost(ctx context.Context, postID string, req *request.BlogPostRequest) (*response.BlogPostResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if req.Slug != "" {
		post.Slug, err = makeSlug(req.Slug, req.Title)
		if err != nil {
			return nil, err
		}
	}
	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	post.UpdatedAt = time.Now()

	if err := s.repo.BlogPost.Update(ctx, post); err != nil {
		return nil, duplicateSlug(err, post.Slug)
	}

	resp := response.BlogPostToResponse(post)
	return &resp, nil
}

// DeletePost removes gallery images and comments before the post.
func (s *contentService) DeletePost(ctx context.Context, postID string) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}

	err = s.repo.Tx.InTx(ctx, pgx.ReadCommitted, func(tx *repository.Repository) error {
		if err := tx.BlogImage.DeleteByPostID(ctx, post.ID); err != nil {
			return fmt.Errorf("delete post images: %w", err)
		}
		if err := tx.BlogComment.DeleteByPostID(ctx, post.ID); err != nil {
			return fmt.Errorf("delete post comments: %w", err)
		}
		return tx.BlogPost.Delete(ctx, post.ID)
	})
	if err != nil {
		s.log.Error("Failed to delete post", zap.Error(err), zap.String("post_id", postID))
		return err
	}

	s.log.Info("Blog post deleted", zap.String("post_id", post.ID.String()))
	return nil
}

func (s *contentService) SetPostImage(ctx context.Context, postID string, img ImageUpload) (*response.BlogPostResponse, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	url, err := storeImage(ctx, s.media, "blog", img)
	if err != nil {
		return nil, err
	}

	post.Image = &url
	post.UpdatedAt = time.Now()
	if err := s.repo.BlogPost.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post image: %w", err)
	}

	resp := response.BlogPostToResponse(post)
	return &resp, nil
}

func (s *contentService) AddPostGalleryImage(ctx context.Context, postID string, img ImageUpload) (*response.BlogPostDetailResponse, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	url, err := storeImage(ctx, s.media, "blog/gallery", img)
	if err != nil {
		return nil, err
	}

	image := &entity.BlogImage{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		PostID:     post.ID,
		Image:      url,
	}
	if err := s.repo.BlogImage.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("add post image: %w", err)
	}

	return s.postDetail(ctx, post)
}

// ==================== COMMENTS ====================

func (s *contentService) GetComments(ctx context.Context, postSlug string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	post, err := s.findPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	limit := req.Limit()
	comments, err := s.repo.BlogComment.FindByPostID(ctx, post.ID, limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}

	total, err := s.repo.BlogComment.CountByPostID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	data := make([]response.CommentResponse, 0, len(comments))
	for _, c := range comments {
		data = append(data, response.CommentToResponse(c))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), limit, total), nil
}

func (s *contentService) AddComment(ctx context.Context, userID uuid.UUID, postSlug string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fieldError("content", "This field is required")
	}

	post, err := s.findPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}

	comment := &entity.BlogComment{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		PostID:     post.ID,
		UserID:     userID,
		Username:   user.Username,
		Content:    content,
	}
	if err := s.repo.BlogComment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}
