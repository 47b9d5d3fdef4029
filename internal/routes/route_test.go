package routes

import (
	"testing"

	"github.com/lakbaycavite/server/internal/container"
)

// Handlers are closures over their dependencies, so building the route
// table off an empty container is safe; nothing is invoked here.
func TestSetupRoutesRegistersAdminSurface(t *testing.T) {
	engine := SetupRoutes(&container.Container{})

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",

		"POST /user/login",
		"POST /user/register",
		"POST /user/verify",
		"POST /user/request-reset",
		"POST /user/reset",
		"GET /user",
		"GET /user/:id",
		"PUT /user/update/:id",
		"PUT /user/toggle-status/:id",
		"POST /user/upload-image",

		"POST /event",
		"GET /event",
		"GET /event/:id",
		"PUT /event/update/:id",
		"DELETE /event/delete/:id",
		"POST /event/toggle-status/:id",
		"POST /event/upload/:id",
		"DELETE /event/delete-image/:id",

		"POST /hotline",
		"GET /hotline",
		"GET /hotline/:id",
		"PUT /hotline/update/:id",
		"DELETE /hotline/delete/:id",

		"GET /dashboard",

		"GET /post",
		"GET /post/:id",
		"DELETE /post/:id",
		"PUT /post/toggle-visibility/:id",
		"GET /post/:id/comments",
		"POST /post/:id/comments",
		"DELETE /post/:id/comments/:commentId",

		"POST /feedback",
		"GET /feedback",
		"GET /feedback/:id",
		"PUT /feedback/update/:id",
		"PUT /feedback/toggle-status/:id",
	}

	for _, want := range expected {
		if !registered[want] {
			t.Errorf("route %q is not registered", want)
		}
	}
}
