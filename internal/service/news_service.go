package service

import (
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fundhouse/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNewsNotFound      = errors.New("news post not found")
	ErrNewsImageNotFound = errors.New("news image not found")
	ErrNewsFileCleanup   = errors.New("news files could not be removed")
)

const excerptLimit = 200

// NewsService manages news posts and their uploaded images.
type NewsService struct {
	db    *gorm.DB
	files FileStore
	now   func() time.Time
}

// NewsFilter narrows admin news listings.
type NewsFilter struct {
	Status  string
	Search  string
	Page    int
	PerPage int
}

// NewsInput represents fields accepted for a news post.
type NewsInput struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	CoverImageURL string
	Status        string
	PublishedAt   *time.Time
}

// RenderedNews is a published post with its markdown rendered to HTML.
type RenderedNews struct {
	db.NewsPost
	ContentHTML template.HTML `json:"contentHtml"`
}

// NewNewsService creates a NewsService instance.
func NewNewsService(gdb *gorm.DB, files FileStore) *NewsService {
	return &NewsService{db: gdb, files: files, now: time.Now}
}

// List returns posts of any status, newest first.
func (s *NewsService) List(filter NewsFilter) (ListResult[db.NewsPost], error) {
	result := newListResult[db.NewsPost](filter.Page, filter.PerPage, 10)

	query := s.db.Model(&db.NewsPost{})
	if status := strings.ToLower(strings.TrimSpace(filter.Status)); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR excerpt LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	if err := query.Preload("Images", orderImages).
		Order("COALESCE(published_at, created_at) desc").
		Order("id desc").
		Limit(result.PerPage).
		Offset(result.offset()).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	result.finish()
	return result, nil
}

// ListPublished returns published posts whose publish time has passed.
func (s *NewsService) ListPublished(page, perPage int) (ListResult[db.NewsPost], error) {
	result := newListResult[db.NewsPost](page, perPage, 9)

	query := s.db.Model(&db.NewsPost{}).
		Where("status = ? AND published_at <= ?", db.NewsStatusPublished, s.now().UTC())

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	if err := query.Order("published_at desc").
		Order("id desc").
		Limit(result.PerPage).
		Offset(result.offset()).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	result.finish()
	return result, nil
}

// Get fetches a post of any status by id.
func (s *NewsService) Get(id uint) (*db.NewsPost, error) {
	var post db.NewsPost
	if err := s.db.Preload("Images", orderImages).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug fetches a published post and renders its body.
func (s *NewsService) GetPublishedBySlug(slug string) (*RenderedNews, error) {
	var post db.NewsPost
	if err := s.db.Preload("Images", orderImages).
		Where("slug = ? AND status = ? AND published_at <= ?", strings.TrimSpace(slug), db.NewsStatusPublished, s.now().UTC()).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	rendered, err := RenderMarkdown(post.Content)
	if err != nil {
		return nil, err
	}
	return &RenderedNews{NewsPost: post, ContentHTML: rendered}, nil
}

// Create inserts a post with a de-duplicated slug.
func (s *NewsService) Create(input NewsInput) (*db.NewsPost, error) {
	input = normalizeNewsInput(input)
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}

	post := db.NewsPost{Images: []db.NewsImage{}}
	s.applyInput(&post, input)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		slugBase := input.Slug
		if slugBase == "" {
			slugBase = input.Title
		}
		slug, err := uniqueSlug(tx, &db.NewsPost{}, slugBase, "news", 0)
		if err != nil {
			return err
		}
		post.Slug = slug
		return tx.Create(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update modifies a post. A replaced cover stored locally is removed.
func (s *NewsService) Update(id uint, input NewsInput) (*db.NewsPost, error) {
	input = normalizeNewsInput(input)
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}

	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	oldCover := post.CoverImageURL

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if input.Slug != "" && input.Slug != post.Slug {
			slug, err := uniqueSlug(tx, &db.NewsPost{}, input.Slug, "news", id)
			if err != nil {
				return err
			}
			post.Slug = slug
		}
		s.applyInput(post, input)
		return tx.Omit("Images").Save(post).Error
	})
	if err != nil {
		return nil, err
	}

	if oldCover != "" && oldCover != post.CoverImageURL {
		s.removeByURL(oldCover)
	}
	return post, nil
}

// Delete soft-deletes the post, drops its image rows and removes their files.
func (s *NewsService) Delete(id uint) error {
	post, err := s.Get(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("news_post_id = ?", post.ID).Delete(&db.NewsImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.NewsPost{}, post.ID).Error
	})
	if err != nil {
		return err
	}

	var errs []error
	for _, image := range post.Images {
		if err := s.files.Remove(image.FilePath); err != nil {
			errs = append(errs, err)
		}
	}
	if post.CoverImageURL != "" {
		if rel, ok := s.files.RelPathFromURL(post.CoverImageURL); ok {
			if err := s.files.Remove(rel); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNewsFileCleanup, errors.Join(errs...))
	}
	return nil
}

// AddImage stores an uploaded image and attaches it to the post.
func (s *NewsService) AddImage(postID uint, file *multipart.FileHeader, caption string) (*db.NewsImage, error) {
	if _, err := s.Get(postID); err != nil {
		return nil, err
	}

	stored, err := s.files.SaveImage(newsUploadDir, file)
	if err != nil {
		return nil, err
	}

	var maxOrder int
	if err := s.db.Model(&db.NewsImage{}).
		Where("news_post_id = ?", postID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxOrder).Error; err != nil {
		_ = s.files.Remove(stored.RelPath)
		return nil, err
	}

	image := db.NewsImage{
		NewsPostID: postID,
		FilePath:   stored.RelPath,
		URL:        stored.URL,
		Caption:    strings.TrimSpace(caption),
		Width:      stored.Width,
		Height:     stored.Height,
		SortOrder:  maxOrder + 1,
	}
	if err := s.db.Create(&image).Error; err != nil {
		_ = s.files.Remove(stored.RelPath)
		return nil, err
	}
	return &image, nil
}

// RemoveImage deletes one image of a post and its file.
func (s *NewsService) RemoveImage(postID, imageID uint) error {
	var image db.NewsImage
	if err := s.db.Where("id = ? AND news_post_id = ?", imageID, postID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNewsImageNotFound
		}
		return err
	}
	if err := s.db.Delete(&image).Error; err != nil {
		return err
	}
	return s.files.Remove(image.FilePath)
}

// Count returns the number of posts that are not deleted.
func (s *NewsService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&db.NewsPost{}).Count(&count).Error
	return count, err
}

func (s *NewsService) applyInput(post *db.NewsPost, input NewsInput) {
	post.Title = input.Title
	post.Excerpt = input.Excerpt
	post.Content = input.Content
	post.CoverImageURL = input.CoverImageURL
	post.Status = input.Status

	switch {
	case input.Status == db.NewsStatusPublished && input.PublishedAt != nil:
		published := input.PublishedAt.UTC()
		post.PublishedAt = &published
	case input.Status == db.NewsStatusPublished && post.PublishedAt == nil:
		now := s.now().UTC()
		post.PublishedAt = &now
	case input.Status == db.NewsStatusDraft:
		post.PublishedAt = nil
	}
}

func (s *NewsService) removeByURL(url string) {
	if rel, ok := s.files.RelPathFromURL(url); ok {
		_ = s.files.Remove(rel)
	}
}

func orderImages(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order asc").Order("id asc")
}

func normalizeNewsInput(input NewsInput) NewsInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = Slugify(input.Slug)
	input.Content = strings.TrimSpace(input.Content)
	input.CoverImageURL = strings.TrimSpace(input.CoverImageURL)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Status == "" {
		input.Status = db.NewsStatusDraft
	}
	input.Excerpt = strings.TrimSpace(input.Excerpt)
	if input.Excerpt == "" {
		input.Excerpt = summarizeContent(input.Content)
	}
	return input
}

func validateNewsInput(input NewsInput) error {
	if input.Title == "" {
		return invalid("title", "is required")
	}
	if input.Content == "" {
		return invalid("content", "is required")
	}
	return requireOneOf("status", input.Status, []string{db.NewsStatusDraft, db.NewsStatusPublished})
}

func summarizeContent(markdown string) string {
	replacer := strings.NewReplacer(
		"#", " ",
		"*", " ",
		"`", " ",
		"_", " ",
		">", " ",
		"[", " ",
		"]", " ",
		"(", " ",
		")", " ",
	)
	plain := strings.Join(strings.Fields(replacer.Replace(markdown)), " ")
	if plain == "" {
		return ""
	}

	if utf8.RuneCountInString(plain) <= excerptLimit {
		return plain
	}

	runes := []rune(plain)
	return string(runes[:excerptLimit]) + "…"
}
