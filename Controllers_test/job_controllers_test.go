package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachinsingh018/networkqy/models"
)

func TestJobPostingRequiresRecruiter(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	_, studentToken := seedUser(t, db, "Student", "student@example.com", "student")
	_, recruiterToken := seedUser(t, db, "Recruiter", "recruiter@example.com", "recruiter")

	payload := map[string]string{
		"title":    "Backend Engineer",
		"company":  "Acme",
		"location": "Dubai",
		"type":     "full-time",
	}

	w := doJSON(t, r, "POST", "/api/jobs", studentToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "POST", "/api/jobs", recruiterToken, payload)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestJobListFilters(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	recruiter, recruiterToken := seedUser(t, db, "Recruiter", "recruiter@example.com", "recruiter")

	jobs := []models.Job{
		{PosterID: recruiter.ID, Title: "Backend Engineer", Company: "Acme", Location: "Dubai", Type: "full-time"},
		{PosterID: recruiter.ID, Title: "Data Intern", Company: "Beta Labs", Location: "Remote", Type: "internship"},
	}
	require.NoError(t, db.Create(&jobs).Error)

	w := doJSON(t, r, "GET", "/api/jobs?type=internship", recruiterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseBody(t, w)["data"].([]interface{}), 1)

	w = doJSON(t, r, "GET", "/api/jobs?q=Acme", recruiterToken, nil)
	assert.Len(t, parseBody(t, w)["data"].([]interface{}), 1)

	w = doJSON(t, r, "GET", "/api/jobs", recruiterToken, nil)
	assert.Len(t, parseBody(t, w)["data"].([]interface{}), 2)
}

func TestJobApplicationFlow(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	recruiter, recruiterToken := seedUser(t, db, "Recruiter", "recruiter@example.com", "recruiter")
	_, studentToken := seedUser(t, db, "Student", "student@example.com", "student")

	job := models.Job{PosterID: recruiter.ID, Title: "Backend Engineer", Company: "Acme"}
	require.NoError(t, db.Create(&job).Error)

	w := doJSON(t, r, "POST", fmt.Sprintf("/api/jobs/%d/apply", job.ID), studentToken, map[string]string{
		"cover_note": "I built the campus event app.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	ref := parseBody(t, w)["data"].(map[string]interface{})["reference"]
	assert.NotEmpty(t, ref)

	// One application per user per job.
	w = doJSON(t, r, "POST", fmt.Sprintf("/api/jobs/%d/apply", job.ID), studentToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The poster was notified exactly once.
	var notifs int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", recruiter.ID, models.NotifJobApplication).
		Count(&notifs)
	assert.EqualValues(t, 1, notifs)

	// Poster can list applications; the applicant cannot.
	w = doJSON(t, r, "GET", fmt.Sprintf("/api/jobs/%d/applications", job.ID), recruiterToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseBody(t, w)["data"].([]interface{}), 1)

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/jobs/%d/applications", job.ID), studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJobDeleteOwnership(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	recruiter, recruiterToken := seedUser(t, db, "Recruiter", "recruiter@example.com", "recruiter")
	_, otherToken := seedUser(t, db, "Other", "other@example.com", "alumni")

	job := models.Job{PosterID: recruiter.ID, Title: "Backend Engineer", Company: "Acme"}
	require.NoError(t, db.Create(&job).Error)

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/api/jobs/%d", job.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "DELETE", fmt.Sprintf("/api/jobs/%d", job.ID), recruiterToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/jobs/%d", job.ID), recruiterToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
