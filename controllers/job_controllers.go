package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

type JobController struct {
	DB *gorm.DB
}

func NewJobController(db *gorm.DB) *JobController {
	return &JobController{DB: db}
}

// CreateJob posts a listing. The router restricts this to recruiters and
// admins.
func (jc *JobController) CreateJob(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Company     string `json:"company" binding:"required"`
		Location    string `json:"location"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	job := models.Job{
		PosterID:    userID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := jc.DB.Create(&job).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Job %d posted by user %d: %s at %s", job.ID, userID, job.Title, job.Company)
	utils.RespondJSON(c, http.StatusCreated, "Job posted", job)
}

// ListJobs returns listings, optionally filtered by location, type or a
// keyword over title/company/description.
func (jc *JobController) ListJobs(c *gin.Context) {
	query := jc.DB.Preload("Poster").Order("created_at DESC")

	if location := c.Query("location"); location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
	}
	if jobType := c.Query("type"); jobType != "" {
		query = query.Where("type = ?", jobType)
	}
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title LIKE ? OR company LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	}

	var jobs []models.Job
	if err := query.Limit(50).Find(&jobs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Jobs", jobs)
}

func (jc *JobController) GetJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("job_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid job id"))
		return
	}

	var job models.Job
	if err := jc.DB.Preload("Poster").First(&job, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("job not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Job detail", job)
}

// DeleteJob removes a listing. Only the poster or an admin may delete.
func (jc *JobController) DeleteJob(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, err := strconv.Atoi(c.Param("job_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid job id"))
		return
	}

	var job models.Job
	if err := jc.DB.First(&job, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("job not found"))
		return
	}

	role, _ := c.Get("role")
	if job.PosterID != userID && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Job deleted", gin.H{"job_id": job.ID})
}

// Apply records one application per user per job and notifies the poster.
func (jc *JobController) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, err := strconv.Atoi(c.Param("job_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid job id"))
		return
	}

	var req struct {
		CoverNote string `json:"cover_note"`
	}
	// Body is optional for applications.
	_ = c.ShouldBindJSON(&req)

	var job models.Job
	if err := jc.DB.First(&job, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("job not found"))
		return
	}

	var applicant models.User
	if err := jc.DB.First(&applicant, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("applicant not found"))
		return
	}

	app := models.JobApplication{
		JobID:       job.ID,
		ApplicantID: userID,
		Reference:   uuid.NewString(),
		CoverNote:   req.CoverNote,
	}

	err = jc.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.JobApplication
		err := tx.Where("job_id = ? AND applicant_id = ?", job.ID, userID).First(&existing).Error
		if err == nil {
			return errors.New("already applied to this job")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&app).Error; err != nil {
			return err
		}

		notif := models.Notification{
			UserID:        job.PosterID,
			Type:          models.NotifJobApplication,
			Title:         "New job application",
			Message:       fmt.Sprintf("%s applied to %s at %s", applicant.Name, job.Title, job.Company),
			RelatedUserID: &userID,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		if err.Error() == "already applied to this job" {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Application submitted", app)
}

// ListApplications returns the applications for a job the caller posted.
func (jc *JobController) ListApplications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, err := strconv.Atoi(c.Param("job_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid job id"))
		return
	}

	var job models.Job
	if err := jc.DB.First(&job, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("job not found"))
		return
	}

	role, _ := c.Get("role")
	if job.PosterID != userID && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var apps []models.JobApplication
	if err := jc.DB.Preload("Applicant").
		Where("job_id = ?", job.ID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Applications", apps)
}
