package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/moderation"
	"github.com/sachinsingh018/networkqy/services"
	"github.com/sachinsingh018/networkqy/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Mailer *services.Mailer
}

func NewUserController(db *gorm.DB, mailer *services.Mailer) *UserController {
	return &UserController{DB: db, Mailer: mailer}
}

// Register creates a new account. The display name goes through the
// moderation filter so the deny-list applies to usernames too.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !models.ValidRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid role %q", req.Role))
		return
	}

	if res := moderation.Check(req.Name); !res.Valid {
		utils.RespondJSON(c, http.StatusBadRequest, "Name rejected: "+res.Reason, res)
		return
	}

	var existing models.User
	if err := uc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("email already registered"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)

	if uc.Mailer != nil {
		uc.Mailer.Enqueue(user.Email, "Welcome to Networkqy",
			"<h2>Welcome, "+user.Name+"!</h2><p>Your account is ready. Start building your network.</p>")
	}

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login returns a JWT.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_id":   user.ID,
		"user_role": strings.ToLower(user.Role),
	})
}

// Logout revokes the presented token.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString("token")
	if token != "" {
		utils.BlacklistToken(token)
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

// UpdateProfile patches the caller's profile. All fields are optional;
// absent fields are left untouched.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type request struct {
		Name         *string `json:"name"`
		Headline     *string `json:"headline"`
		Education    *string `json:"education"`
		Experience   *string `json:"experience"`
		Skills       *string `json:"skills"`
		Timezone     *string `json:"timezone"`
		WorkingHours *string `json:"working_hours"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if res := moderation.Check(*req.Name); !res.Valid {
			utils.RespondJSON(c, http.StatusBadRequest, "Name rejected: "+res.Reason, res)
			return
		}
		updates["name"] = *req.Name
	}
	if req.Headline != nil {
		updates["headline"] = *req.Headline
	}
	if req.Education != nil {
		updates["education"] = *req.Education
	}
	if req.Experience != nil {
		updates["experience"] = *req.Experience
	}
	if req.Skills != nil {
		updates["skills"] = *req.Skills
	}
	if req.Timezone != nil {
		updates["timezone"] = *req.Timezone
	}
	if req.WorkingHours != nil {
		updates["working_hours"] = *req.WorkingHours
	}

	if len(updates) > 0 {
		if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// SearchUsers matches name, headline or email against a query string.
func (uc *UserController) SearchUsers(c *gin.Context) {
	userID, _ := currentUserID(c)

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter q is required"))
		return
	}

	pattern := "%" + q + "%"
	var users []models.User
	if err := uc.DB.
		Where("id <> ?", userID).
		Where("name LIKE ? OR headline LIKE ? OR email LIKE ?", pattern, pattern, pattern).
		Limit(20).
		Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Search results", users)
}
