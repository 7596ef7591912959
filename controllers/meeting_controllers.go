package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/scheduler"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

type MeetingController struct {
	DB *gorm.DB
}

func NewMeetingController(db *gorm.DB) *MeetingController {
	return &MeetingController{DB: db}
}

// SaveCalendar replaces a week's busy blocks wholesale: delete everything
// under (user, week_start), then insert the submitted set.
func (mc *MeetingController) SaveCalendar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		WeekStart string `json:"week_start" binding:"required"`
		Blocks    []struct {
			Day       string `json:"day" binding:"required"`
			StartTime string `json:"start_time" binding:"required"`
			EndTime   string `json:"end_time" binding:"required"`
		} `json:"blocks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if _, err := time.Parse("2006-01-02", req.WeekStart); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("week_start must be YYYY-MM-DD"))
		return
	}

	blocks := make([]models.CalendarBlock, 0, len(req.Blocks))
	for _, b := range req.Blocks {
		if _, err := time.Parse("2006-01-02", b.Day); err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("block day must be YYYY-MM-DD"))
			return
		}
		blocks = append(blocks, models.CalendarBlock{
			UserID:    userID,
			WeekStart: req.WeekStart,
			Day:       b.Day,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND week_start = ?", userID, req.WeekStart).
			Delete(&models.CalendarBlock{}).Error; err != nil {
			return err
		}
		if len(blocks) == 0 {
			return nil
		}
		return tx.Create(&blocks).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Calendar saved", gin.H{
		"week_start": req.WeekStart,
		"blocks":     len(blocks),
	})
}

// GetCalendar returns the caller's blocks for a week.
func (mc *MeetingController) GetCalendar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	weekStart := c.Query("week_start")
	if weekStart == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("week_start query parameter is required"))
		return
	}

	var blocks []models.CalendarBlock
	if err := mc.DB.Where("user_id = ? AND week_start = ?", userID, weekStart).
		Order("day ASC, start_time ASC").
		Find(&blocks).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Calendar", blocks)
}

// SuggestMeeting computes the best common window between the caller and
// another user on one date. The caller's time zone and hours come from the
// request (falling back to their profile); the counterpart's come from
// their profile and must be at least partly set.
func (mc *MeetingController) SuggestMeeting(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		OtherEmail   string `json:"other_email" binding:"required,email"`
		Date         string `json:"date" binding:"required"`
		Timezone     string `json:"timezone"`
		WorkingHours string `json:"working_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var me models.User
	if err := mc.DB.First(&me, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	var other models.User
	if err := mc.DB.Where("email = ?", req.OtherEmail).First(&other).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("other user not found"))
		return
	}
	if other.Timezone == "" && other.WorkingHours == "" {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("the other user has not set a time zone or working hours"))
		return
	}

	myTZ := req.Timezone
	if myTZ == "" {
		myTZ = me.Timezone
	}
	myHours := req.WorkingHours
	if myHours == "" {
		myHours = me.WorkingHours
	}

	myParty, err := mc.buildParty(myTZ, myHours, me.ID, req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	otherParty, err := mc.buildParty(other.Timezone, other.WorkingHours, other.ID, req.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slots, err := scheduler.Overlap(req.Date, myParty, otherParty)
	if errors.Is(err, scheduler.ErrNoOverlap) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Meeting suggestion", gin.H{
		"best":       slots[0],
		"alternates": slots[1:],
	})
}

// buildParty assembles one side of the overlap computation, pulling the
// user's busy blocks for the requested date.
func (mc *MeetingController) buildParty(tz, hours string, userID uint, date string) (scheduler.Party, error) {
	loc := time.UTC
	if tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return scheduler.Party{}, errors.New("invalid time zone " + tz)
		}
		loc = parsed
	}

	var rows []models.CalendarBlock
	if err := mc.DB.Where("user_id = ? AND day = ?", userID, date).Find(&rows).Error; err != nil {
		return scheduler.Party{}, err
	}

	blocked := make([]scheduler.Block, 0, len(rows))
	for _, r := range rows {
		blocked = append(blocked, scheduler.Block{Start: r.StartTime, End: r.EndTime})
	}

	return scheduler.Party{Location: loc, Hours: hours, Blocked: blocked}, nil
}
