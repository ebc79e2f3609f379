package apidoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/wetravel-itinerary/apidoc"
)

type document struct {
	OpenAPI string                    `yaml:"openapi"`
	Paths   map[string]map[string]any `yaml:"paths"`
}

// TestOpenAPI_coversRoutes keeps the document in step with handler.Server.Register.
func TestOpenAPI_coversRoutes(t *testing.T) {
	var doc document
	require.NoError(t, yaml.Unmarshal(apidoc.OpenAPI, &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)

	want := map[string][]string{
		"/healthz":                                   {"get"},
		"/trips":                                     {"get", "post"},
		"/trips/{tripId}":                            {"get", "delete"},
		"/trips/{tripId}/stops":                      {"get", "post", "put"},
		"/trips/{tripId}/stops/{stopId}":             {"delete"},
		"/trips/{tripId}/stops/{stopId}/move":        {"post"},
		"/trips/{tripId}/order":                      {"put"},
		"/trips/{tripId}/schedule":                   {"get"},
		"/trips/{tripId}/export":                     {"get"},
		"/trips/{tripId}/stops/{stopId}/edit":        {"post", "patch", "delete"},
		"/trips/{tripId}/stops/{stopId}/edit/commit": {"post"},
	}
	for path, methods := range want {
		ops, ok := doc.Paths[path]
		require.True(t, ok, "missing path %s", path)
		for _, m := range methods {
			op, ok := ops[m].(map[string]any)
			require.True(t, ok, "missing %s %s", m, path)
			assert.NotEmpty(t, op["operationId"], "%s %s has no operationId", m, path)
		}
	}
}
