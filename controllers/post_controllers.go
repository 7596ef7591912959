package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/moderation"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

type PostController struct {
	DB *gorm.DB
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{DB: db}
}

// CreatePost publishes a feed entry. Content always passes through the
// moderation filter; anonymous posts additionally get their alias checked,
// with fallback suggestions returned on rejection.
func (pc *PostController) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Content     string `json:"content" binding:"required"`
		IsAnonymous bool   `json:"is_anonymous"`
		Alias       string `json:"alias"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if res := moderation.Check(req.Content); !res.Valid {
		utils.RespondJSON(c, http.StatusBadRequest, "Post rejected: "+res.Reason, res)
		return
	}

	post := models.Post{
		AuthorID:    userID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	}
	if req.IsAnonymous {
		if req.Alias == "" {
			req.Alias = "anonymous"
		}
		if res := moderation.CheckAlias(req.Alias); !res.Valid {
			utils.RespondJSON(c, http.StatusBadRequest, "Alias rejected: "+res.Reason, res)
			return
		}
		post.Alias = req.Alias
	}

	if err := pc.DB.Create(&post).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Post created", post)
}

type feedItem struct {
	ID           uint         `json:"id"`
	Content      string       `json:"content"`
	IsAnonymous  bool         `json:"is_anonymous"`
	Alias        string       `json:"alias,omitempty"`
	Author       *models.User `json:"author,omitempty"`
	LikeCount    int64        `json:"like_count"`
	CommentCount int64        `json:"comment_count"`
	CreatedAt    time.Time    `json:"created_at"`
}

// GetFeed returns a page of posts, newest first. Anonymous posts carry
// only the alias; the author row is withheld.
func (pc *PostController) GetFeed(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var posts []models.Post
	if err := pc.DB.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	likeCounts := pc.countByPost(&models.PostLike{}, ids)
	commentCounts := pc.countByPost(&models.Comment{}, ids)

	items := make([]feedItem, 0, len(posts))
	for _, p := range posts {
		item := feedItem{
			ID:           p.ID,
			Content:      p.Content,
			IsAnonymous:  p.IsAnonymous,
			LikeCount:    likeCounts[p.ID],
			CommentCount: commentCounts[p.ID],
			CreatedAt:    p.CreatedAt,
		}
		if p.IsAnonymous {
			item.Alias = p.Alias
		} else {
			author := p.Author
			author.Password = ""
			item.Author = &author
		}
		items = append(items, item)
	}

	utils.RespondJSON(c, http.StatusOK, "Feed", gin.H{
		"posts": items,
		"page":  page,
	})
}

func (pc *PostController) countByPost(model interface{}, postIDs []uint) map[uint]int64 {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts
	}

	var rows []struct {
		PostID uint
		Total  int64
	}
	if err := pc.DB.Model(model).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to count per post: %v", err)
		return counts
	}
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}
	return counts
}

// ToggleLike likes a post, or removes the caller's existing like.
func (pc *PostController) ToggleLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}

	var post models.Post
	if err := pc.DB.First(&post, postID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("post not found"))
		return
	}

	var existing models.PostLike
	err = pc.DB.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
	switch {
	case err == nil:
		if err := pc.DB.Delete(&existing).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Like removed", gin.H{"liked": false})
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.PostLike{PostID: uint(postID), UserID: userID}
		if err := pc.DB.Create(&like).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Post liked", gin.H{"liked": true})
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// CreateComment adds a moderated comment to a post.
func (pc *PostController) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if res := moderation.Check(req.Content); !res.Valid {
		utils.RespondJSON(c, http.StatusBadRequest, "Comment rejected: "+res.Reason, res)
		return
	}

	var post models.Post
	if err := pc.DB.First(&post, postID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("post not found"))
		return
	}

	comment := models.Comment{
		PostID:   uint(postID),
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := pc.DB.Create(&comment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Comment created", comment)
}

// GetComments lists a post's comments oldest first.
func (pc *PostController) GetComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}

	var comments []models.Comment
	if err := pc.DB.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Comments", comments)
}
