package database

import (
	"context"
	"testing"

	"verdict/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")

	ctx := context.Background()
	project, err := db.CreateProject(ctx, org.ID, &models.CreateProjectRequest{
		Name: "Demo",
		Slug: "demo",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, org.ID, project.OrgID)
	assert.Equal(t, "Demo", project.Name)
	assert.Equal(t, "demo", project.Slug)
	assert.Equal(t, "main", project.DefaultBranch)
	assert.False(t, project.CreatedAt.IsZero())
}

func TestCreateProject_DuplicateSlug(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")
	seedProject(t, db, org.ID, "demo")

	ctx := context.Background()
	_, err := db.CreateProject(ctx, org.ID, &models.CreateProjectRequest{
		Name: "Demo Again",
		Slug: "demo",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateProject_SameSlugDifferentOrg(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	orgA := seedOrg(t, db, "org-a")
	orgB := seedOrg(t, db, "org-b")
	seedProject(t, db, orgA.ID, "demo")

	// Slug uniqueness is per organization.
	_, err := db.CreateProject(context.Background(), orgB.ID, &models.CreateProjectRequest{
		Name: "Demo",
		Slug: "demo",
	})
	require.NoError(t, err)
}

func TestGetProject_TenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	orgA := seedOrg(t, db, "org-a")
	orgB := seedOrg(t, db, "org-b")
	project := seedProject(t, db, orgA.ID, "demo")

	ctx := context.Background()

	// Owner org sees it.
	got, err := db.GetProject(ctx, project.ID, orgA.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	// The other org gets not-found even with the correct identifier.
	_, err = db.GetProject(ctx, project.ID, orgB.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProject_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")

	_, err := db.GetProject(context.Background(), uuid.New(), org.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjects_Pagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")
	other := seedOrg(t, db, "other")
	for _, slug := range []string{"p1", "p2", "p3", "p4", "p5"} {
		seedProject(t, db, org.ID, slug)
	}
	seedProject(t, db, other.ID, "invisible")

	ctx := context.Background()

	projects, total, err := db.ListProjects(ctx, org.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.EqualValues(t, 5, total)

	// Last page holds the remainder; total is unchanged.
	projects, total, err = db.ListProjects(ctx, org.ID, 2, 4)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.EqualValues(t, 5, total)

	// Past the end the page is empty but the count survives.
	projects, total, err = db.ListProjects(ctx, org.ID, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.EqualValues(t, 5, total)
}

func TestListProjects_NewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")
	seedProject(t, db, org.ID, "first")
	second := seedProject(t, db, org.ID, "second")

	projects, _, err := db.ListProjects(context.Background(), org.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID)
}

func TestUpdateProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")
	project := seedProject(t, db, org.ID, "demo")

	name := "Renamed"
	description := "updated description"
	updated, err := db.UpdateProject(context.Background(), project.ID, org.ID, &models.UpdateProjectRequest{
		Name:        &name,
		Description: &description,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "updated description", *updated.Description)
	// Untouched fields survive a partial update.
	assert.Equal(t, "demo", updated.Slug)
	assert.Equal(t, "main", updated.DefaultBranch)
}

func TestDeleteProject_Cascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")
	project := seedProject(t, db, org.ID, "demo")
	projectID := project.ID
	seedAPIKey(t, db, org.ID, &projectID)

	ctx := context.Background()
	run, err := db.CreateRun(ctx, project.ID, makeRunPayload(project.ID))
	require.NoError(t, err)

	require.NoError(t, db.DeleteProject(ctx, project.ID, org.ID))

	_, err = db.GetProject(ctx, project.ID, org.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Runs, results and scoped keys go with the project.
	_, err = db.GetRun(ctx, run.ID, org.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var resultCount int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM run_results WHERE run_id = $1`, run.ID).Scan(&resultCount))
	assert.Zero(t, resultCount)

	var keyCount int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM api_keys WHERE project_id = $1`, project.ID).Scan(&keyCount))
	assert.Zero(t, keyCount)
}

func TestDeleteProject_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")

	err := db.DeleteProject(context.Background(), uuid.New(), org.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyProjectAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	org := seedOrg(t, db, "acme")
	projectP := seedProject(t, db, org.ID, "project-p")
	projectQ := seedProject(t, db, org.ID, "project-q")

	ctx := context.Background()

	orgScope := models.AccessScope{OrgID: org.ID}
	got, err := db.VerifyProjectAccess(ctx, projectP.ID, orgScope)
	require.NoError(t, err)
	assert.Equal(t, projectP.ID, got.ID)

	// A key bound to project P is refused for project Q in the same org.
	pID := projectP.ID
	projectScope := models.AccessScope{OrgID: org.ID, ProjectID: &pID}
	_, err = db.VerifyProjectAccess(ctx, projectQ.ID, projectScope)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = db.VerifyProjectAccess(ctx, projectP.ID, projectScope)
	require.NoError(t, err)

	// A foreign org's scope sees nothing at all.
	foreignScope := models.AccessScope{OrgID: uuid.New()}
	_, err = db.VerifyProjectAccess(ctx, projectP.ID, foreignScope)
	assert.ErrorIs(t, err, ErrNotFound)
}
