package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campus-erp-api/internal/models"
)

func TestLandingRoutePerDesignation(t *testing.T) {
	cases := map[string]string{
		"SUPERADMIN": "/superadmin-dashboard",
		"ADMIN":      "/dashboard/home",
		"COE":        "/coe-dashboard",
		"HOD":        "/hod-dashboard",
		"FACULTY":    "/faculty-dashboard",
		"STUDENT":    "/student-dashboard",
		"FINANCE":    "/finance-dashboard",
		"LIBRARY":    "/library-dashboard",
		"WARDEN":     "/hostel-dashboard",
		"PLACEMENT":  "/placement-dashboard",
	}
	for code, want := range cases {
		assert.Equal(t, want, LandingRoute(code), "designation %s", code)
	}
}

func TestLandingRouteNormalizesAndFallsBack(t *testing.T) {
	assert.Equal(t, "/faculty-dashboard", LandingRoute(" faculty "))
	assert.Equal(t, "/", LandingRoute("ACCOUNTANT"))
	assert.Equal(t, "/", LandingRoute(""))
}

type menuProviderStub struct {
	tree    []models.MenuNode
	allowed map[string]bool
}

func (s *menuProviderStub) MenuTree(ctx context.Context) ([]models.MenuNode, error) {
	return s.tree, nil
}

func (s *menuProviderStub) Resolve(ctx context.Context, user *models.User, path string) models.PagePermissions {
	if user.IsSuperuser {
		return models.AllPermissions()
	}
	return models.PagePermissions{CanView: s.allowed[path]}
}

func sidebarFixture() []models.MenuNode {
	return []models.MenuNode{
		{
			MenuItem: models.MenuItem{ID: 1, Label: "Master", IsSidebarItem: true},
			Children: []models.MenuNode{
				{MenuItem: models.MenuItem{ID: 2, Label: "Caste", Path: "/dashboard/master/caste", IsSidebarItem: true}},
				{MenuItem: models.MenuItem{ID: 3, Label: "Quota", Path: "/dashboard/master/quota", IsSidebarItem: true}},
			},
		},
		{
			MenuItem: models.MenuItem{ID: 4, Label: "Administration", IsSidebarItem: true},
			Children: []models.MenuNode{
				{MenuItem: models.MenuItem{ID: 5, Label: "Permissions", Path: "/dashboard/administration/permissions", IsSidebarItem: true}},
			},
		},
		{MenuItem: models.MenuItem{ID: 6, Label: "Hidden Tool", Path: "/internal/tool", IsSidebarItem: false}},
	}
}

func TestSidebarPrunesUnviewableLeaves(t *testing.T) {
	provider := &menuProviderStub{
		tree:    sidebarFixture(),
		allowed: map[string]bool{"/dashboard/master/caste": true},
	}
	svc := NewNavigationService(provider, nil)

	sidebar, err := svc.Sidebar(context.Background(), &models.User{ID: "u1"})
	require.NoError(t, err)

	// Only the Master folder survives, holding the single viewable leaf.
	// The Administration folder disappears with its unviewable child, and
	// non-sidebar items never appear.
	require.Len(t, sidebar, 1)
	assert.Equal(t, "Master", sidebar[0].Label)
	require.Len(t, sidebar[0].Children, 1)
	assert.Equal(t, "Caste", sidebar[0].Children[0].Label)
}

func TestSidebarSuperuserSeesAllSidebarItems(t *testing.T) {
	provider := &menuProviderStub{tree: sidebarFixture()}
	svc := NewNavigationService(provider, nil)

	sidebar, err := svc.Sidebar(context.Background(), &models.User{ID: "root", IsSuperuser: true})
	require.NoError(t, err)
	require.Len(t, sidebar, 2)
	assert.Len(t, sidebar[0].Children, 2)
}
