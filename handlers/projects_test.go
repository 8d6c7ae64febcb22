package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"verdict/database"
	"verdict/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjects_RequiresAPIKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	w := doRequest(t, r, http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Contains(t, resp["error"], "X-API-Key")
}

func TestProjects_InvalidAPIKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	w := doRequest(t, r, http.MethodGet, "/api/v1/projects", "rg_definitely-not-a-key", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "invalid API key", resp["error"])
}

func TestCreateProject_ThenDuplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	_, apiKey := seedOrgWithKey(t, "acme")

	body := map[string]string{"name": "Checkout Bot", "slug": "checkout-bot"}

	w := doRequest(t, r, http.MethodPost, "/api/v1/projects", apiKey, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Project
	decodeJSON(t, w, &created)
	assert.Equal(t, "Checkout Bot", created.Name)
	assert.Equal(t, "checkout-bot", created.Slug)
	assert.NotEmpty(t, created.ID)

	// Same slug in the same org conflicts.
	w = doRequest(t, r, http.MethodPost, "/api/v1/projects", apiKey, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Contains(t, resp["error"], "checkout-bot")
}

func TestCreateProject_InvalidSlug(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	_, apiKey := seedOrgWithKey(t, "acme")

	w := doRequest(t, r, http.MethodPost, "/api/v1/projects", apiKey,
		map[string]string{"name": "Bad", "slug": "Not A Slug!"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetProject_CrossOrgIsNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	orgA, _ := seedOrgWithKey(t, "org-a")
	_, keyB := seedOrgWithKey(t, "org-b")
	project := seedProject(t, orgA.ID, "secret")

	// A valid credential from another organization must not reveal the
	// project exists.
	w := doRequest(t, r, http.MethodGet, "/api/v1/projects/"+project.ID.String(), keyB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProject_InvalidID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	_, apiKey := seedOrgWithKey(t, "acme")

	w := doRequest(t, r, http.MethodGet, "/api/v1/projects/not-a-uuid", apiKey, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjects_Pagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	org, apiKey := seedOrgWithKey(t, "acme")
	for i := 0; i < 5; i++ {
		seedProject(t, org.ID, fmt.Sprintf("project-%d", i))
	}

	w := doRequest(t, r, http.MethodGet, "/api/v1/projects?page=1&page_size=2", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.PaginatedResponse[models.ProjectSummary]
	decodeJSON(t, w, &page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)

	// Page past the end is empty but keeps the total.
	w = doRequest(t, r, http.MethodGet, "/api/v1/projects?page=4&page_size=2", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &page)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(5), page.Total)
}

func TestListProjects_TenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	orgA, keyA := seedOrgWithKey(t, "org-a")
	orgB, keyB := seedOrgWithKey(t, "org-b")
	seedProject(t, orgA.ID, "alpha")
	seedProject(t, orgA.ID, "beta")
	seedProject(t, orgB.ID, "gamma")

	var page models.PaginatedResponse[models.ProjectSummary]

	w := doRequest(t, r, http.MethodGet, "/api/v1/projects", keyA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &page)
	assert.Equal(t, int64(2), page.Total)

	w = doRequest(t, r, http.MethodGet, "/api/v1/projects", keyB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &page)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "gamma", page.Items[0].Slug)
}

func TestUpdateProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	org, apiKey := seedOrgWithKey(t, "acme")
	project := seedProject(t, org.ID, "demo")

	w := doRequest(t, r, http.MethodPatch, "/api/v1/projects/"+project.ID.String(), apiKey,
		map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Project
	decodeJSON(t, w, &updated)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "demo", updated.Slug)
}

func TestDeleteProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	database.CleanupTestDB(t, testDB)
	r := testRouter()

	org, apiKey := seedOrgWithKey(t, "acme")
	project := seedProject(t, org.ID, "doomed")

	w := doRequest(t, r, http.MethodDelete, "/api/v1/projects/"+project.ID.String(), apiKey, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/projects/"+project.ID.String(), apiKey, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
