// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method; empty matches every method
	Path    string           // URL path (e.g., "/api/health")
	Handler http.HandlerFunc // Handler function
}

// Pattern returns the net/http ServeMux pattern for the route.
func (rt Route) Pattern() string {
	if rt.Method == "" {
		return rt.Path
	}
	return rt.Method + " " + rt.Path
}

// Routes returns all API routes for registration.
// The gateway is method-agnostic: dispatch happens on the body's action.
func (h *Handler) Routes() []Route {
	return []Route{
		{Path: "/api/classeviva", Handler: h.Gateway},
		{Method: http.MethodGet, Path: "/api/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
