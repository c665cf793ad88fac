package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"fixer_backend/internal/models"
	"fixer_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJobQuoteFlow covers the marketplace loop: a client posts a job,
// a professional quotes it, the client accepts, the job gets assigned.
func TestJobQuoteFlow(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, _, _ := helpers.CreateAndLoginClient(t, ts, tx)
	proToken, proUser, _ := helpers.CreateAndLoginProfessional(t, ts, tx)

	// Client posts a job.
	jobRes, jobBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", clientToken, map[string]interface{}{
		"title":      "Fix leaking kitchen sink",
		"categories": []string{"plumbing"},
		"city":       "Almaty",
		"budget_min": 5000,
		"budget_max": 20000,
	})
	require.Equal(t, http.StatusCreated, jobRes.StatusCode, jobBodyStr)

	var job struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(jobBodyStr), &job))
	assert.Equal(t, "open", job.Status)

	// Professional submits a quote.
	quoteRes, quoteBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/quotes", proToken, map[string]interface{}{
		"price":   15000,
		"message": "Can come tomorrow morning",
	})
	require.Equal(t, http.StatusCreated, quoteRes.StatusCode, quoteBodyStr)

	var quote struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(quoteBodyStr), &quote))

	// The client sees the quote on the job.
	listRes, listBodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID+"/quotes", clientToken, nil)
	require.Equal(t, http.StatusOK, listRes.StatusCode, listBodyStr)
	assert.Contains(t, listBodyStr, quote.ID)

	// And accepts it.
	accRes, accBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/quotes/"+quote.ID+"/accept", clientToken, nil)
	require.Equal(t, http.StatusOK, accRes.StatusCode, accBodyStr)

	// The job is now assigned to the professional.
	getRes, getBodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, clientToken, nil)
	require.Equal(t, http.StatusOK, getRes.StatusCode)
	assert.Contains(t, getBodyStr, `"assigned"`)
	assert.Contains(t, getBodyStr, proUser.ID)

	// The professional was notified.
	notifRes, notifBodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications", proToken, nil)
	require.Equal(t, http.StatusOK, notifRes.StatusCode)
	assert.Contains(t, notifBodyStr, "quote_accepted")
}

func TestSubmitQuote_RequiresApproval(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, clientUser, _ := helpers.CreateAndLoginClient(t, ts, tx)
	job := CreateTestJob(t, tx, clientUser.ID, "Repaint fence", "Almaty")

	// An unapproved professional.
	proToken, proUser := helpers.CreateAndLoginUser(t, ts, tx, "unapproved_pro@test.com", "password123", models.UserRoleProfessional)
	require.NoError(t, tx.Create(&models.ProfessionalProfile{
		UserID:      proUser.ID,
		DisplayName: "Unapproved Pro",
		IsApproved:  false,
	}).Error)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/quotes", proToken, map[string]interface{}{
		"price": 10000,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "USER_NOT_APPROVED")
}

func TestSubmitQuote_ClientRoleRefused(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, clientUser, _ := helpers.CreateAndLoginClient(t, ts, tx)
	job := CreateTestJob(t, tx, clientUser.ID, "Repaint fence", "Almaty")

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/quotes", clientToken, map[string]interface{}{
		"price": 10000,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestListJobs_Public(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, clientUser, _ := helpers.CreateAndLoginClient(t, ts, tx)
	CreateTestJob(t, tx, clientUser.ID, "Public browse job", "Almaty")

	// No token needed for browsing.
	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs?city=Almaty", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Public browse job")
}

func TestCompleteJob_Flow(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, clientUser, _ := helpers.CreateAndLoginClient(t, ts, tx)
	_, proUser, _ := helpers.CreateAndLoginProfessional(t, ts, tx)

	job := CreateTestJob(t, tx, clientUser.ID, "Assemble furniture", "Almaty")

	// Completing an unassigned job is refused.
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/complete", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	require.NoError(t, tx.Model(&models.Job{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":          models.JobStatusAssigned,
		"assigned_pro_id": proUser.ID,
	}).Error)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/complete", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var stored models.Job
	require.NoError(t, tx.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
}

func TestWithdrawQuote_Flow(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, clientUser, _ := helpers.CreateAndLoginClient(t, ts, tx)
	proToken, proUser, _ := helpers.CreateAndLoginProfessional(t, ts, tx)

	job := CreateTestJob(t, tx, clientUser.ID, "Install shelves", "Almaty")
	quote := CreateTestQuote(t, tx, job.ID, proUser.ID, 8000, models.QuoteStatusPending)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/quotes/"+quote.ID+"/withdraw", proToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// Withdrawing twice is refused.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/quotes/"+quote.ID+"/withdraw", proToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "QUOTE_NOT_PENDING")
}
