package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

// landingRoutes maps case-normalized designation codes to the dashboard
// each role lands on after login. Unknown codes fall through to "/".
var landingRoutes = map[string]string{
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

// LandingRoute returns the dashboard route for a designation code.
func LandingRoute(designationCode string) string {
	if route, ok := landingRoutes[strings.ToUpper(strings.TrimSpace(designationCode))]; ok {
		return route
	}
	return "/"
}

type menuProvider interface {
	MenuTree(ctx context.Context) ([]models.MenuNode, error)
	Resolve(ctx context.Context, user *models.User, path string) models.PagePermissions
}

// NavigationService computes the role landing route and the pruned sidebar
// for the current user.
type NavigationService struct {
	permissions menuProvider
	logger      *zap.Logger
}

// NewNavigationService creates a navigation service.
func NewNavigationService(permissions menuProvider, logger *zap.Logger) *NavigationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NavigationService{permissions: permissions, logger: logger}
}

// Landing returns the dashboard route for the user's designation.
func (s *NavigationService) Landing(user *models.User) string {
	if user == nil {
		return "/"
	}
	return LandingRoute(user.DesignationCode)
}

// Sidebar returns the menu tree filtered to what the user may see: leaf
// items without view permission are pruned, and folders whose children are
// all pruned disappear with them.
func (s *NavigationService) Sidebar(ctx context.Context, user *models.User) ([]models.MenuNode, error) {
	if user == nil {
		return nil, appErrors.ErrUnauthorized
	}
	tree, err := s.permissions.MenuTree(ctx)
	if err != nil {
		return nil, err
	}

	pruned := make([]models.MenuNode, 0, len(tree))
	for _, node := range tree {
		if visible, ok := s.prune(ctx, user, node); ok {
			pruned = append(pruned, visible)
		}
	}
	return pruned, nil
}

func (s *NavigationService) prune(ctx context.Context, user *models.User, node models.MenuNode) (models.MenuNode, bool) {
	if !node.IsSidebarItem {
		return models.MenuNode{}, false
	}

	if len(node.Children) == 0 {
		if node.Path == "" {
			return models.MenuNode{}, false
		}
		perms := s.permissions.Resolve(ctx, user, node.Path)
		if !perms.CanView && !perms.IsSuperuser {
			return models.MenuNode{}, false
		}
		return node, true
	}

	kept := make([]models.MenuNode, 0, len(node.Children))
	for _, child := range node.Children {
		if visible, ok := s.prune(ctx, user, child); ok {
			kept = append(kept, visible)
		}
	}
	if len(kept) == 0 {
		return models.MenuNode{}, false
	}
	node.Children = kept
	return node, true
}
