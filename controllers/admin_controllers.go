package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

type dashboardStats struct {
	TotalUsers    int64 `json:"total_users"`
	TodaySignups  int64 `json:"today_signups"`
	TotalMessages int64 `json:"total_messages"`
	TodayMessages int64 `json:"today_messages"`
	TotalPosts    int64 `json:"total_posts"`
	TotalJobs     int64 `json:"total_jobs"`
	Applications  int64 `json:"applications"`
	UserStats     struct {
		Students   int64 `json:"students"`
		Alumni     int64 `json:"alumni"`
		Recruiters int64 `json:"recruiters"`
		Admins     int64 `json:"admins"`
	} `json:"user_stats"`
	ConnectionStats struct {
		Pending  int64 `json:"pending"`
		Accepted int64 `json:"accepted"`
		Rejected int64 `json:"rejected"`
	} `json:"connection_stats"`
}

func (ac *AdminController) requireAdmin(c *gin.Context) bool {
	roleInterface, exists := c.Get("role")
	if !exists || roleInterface != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, errors.New("admin access required"))
		return false
	}
	return true
}

func (ac *AdminController) collectStats() dashboardStats {
	today := time.Now().Format("2006-01-02")

	var stats dashboardStats
	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	ac.DB.Model(&models.User{}).Where("DATE(created_at) = ?", today).Count(&stats.TodaySignups)
	ac.DB.Model(&models.Message{}).Count(&stats.TotalMessages)
	ac.DB.Model(&models.Message{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayMessages)
	ac.DB.Model(&models.Post{}).Count(&stats.TotalPosts)
	ac.DB.Model(&models.Job{}).Count(&stats.TotalJobs)
	ac.DB.Model(&models.JobApplication{}).Count(&stats.Applications)

	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&stats.UserStats.Students)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleAlumni).Count(&stats.UserStats.Alumni)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleRecruiter).Count(&stats.UserStats.Recruiters)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&stats.UserStats.Admins)

	ac.DB.Model(&models.Connection{}).Where("status = ?", models.ConnectionPending).Count(&stats.ConnectionStats.Pending)
	ac.DB.Model(&models.Connection{}).Where("status = ?", models.ConnectionAccepted).Count(&stats.ConnectionStats.Accepted)
	ac.DB.Model(&models.Connection{}).Where("status = ?", models.ConnectionRejected).Count(&stats.ConnectionStats.Rejected)

	return stats
}

// GetDashboardStats returns platform-wide counts for the admin dashboard.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	if !ac.requireAdmin(c) {
		return
	}

	stats := ac.collectStats()
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetGrowthReport returns daily signup counts for the trailing week.
func (ac *AdminController) GetGrowthReport(c *gin.Context) {
	if !ac.requireAdmin(c) {
		return
	}

	type dayCount struct {
		Date    string `json:"date"`
		Signups int64  `json:"signups"`
	}

	days := make([]dayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		var count int64
		ac.DB.Model(&models.User{}).Where("DATE(created_at) = ?", date).Count(&count)
		days = append(days, dayCount{Date: date, Signups: count})
	}

	utils.RespondJSON(c, http.StatusOK, "Growth report", gin.H{"days": days})
}

// ExportPDF renders the dashboard stats as a downloadable PDF report.
func (ac *AdminController) ExportPDF(c *gin.Context) {
	if !ac.requireAdmin(c) {
		return
	}

	stats := ac.collectStats()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Networkqy Platform Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, "Generated "+time.Now().Format("2006-01-02 15:04 MST"))
	pdf.Ln(12)

	rows := []struct {
		Label string
		Value int64
	}{
		{"Total users", stats.TotalUsers},
		{"Signups today", stats.TodaySignups},
		{"Students", stats.UserStats.Students},
		{"Alumni", stats.UserStats.Alumni},
		{"Recruiters", stats.UserStats.Recruiters},
		{"Pending connections", stats.ConnectionStats.Pending},
		{"Accepted connections", stats.ConnectionStats.Accepted},
		{"Rejected connections", stats.ConnectionStats.Rejected},
		{"Messages", stats.TotalMessages},
		{"Messages today", stats.TodayMessages},
		{"Posts", stats.TotalPosts},
		{"Job listings", stats.TotalJobs},
		{"Job applications", stats.Applications},
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Value", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(120, 8, row.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%d", row.Value), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="networkqy-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ListUsers is the admin user directory.
func (ac *AdminController) ListUsers(c *gin.Context) {
	if !ac.requireAdmin(c) {
		return
	}

	var users []models.User
	if err := ac.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All users", users)
}
