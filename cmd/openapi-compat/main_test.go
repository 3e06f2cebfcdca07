package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func surfaceFromYAML(t *testing.T, doc string) apiSurface {
	t.Helper()

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &parsed))

	paths, ok := asStringMap(parsed["paths"])
	require.True(t, ok)

	surface := make(apiSurface)
	for route, item := range paths {
		ops, ok := asStringMap(item)
		require.True(t, ok)

		methods := make(map[string]map[string]struct{})
		for method, op := range ops {
			codes := make(map[string]struct{})
			if opMap, ok := asStringMap(op); ok {
				if responses, ok := asStringMap(opMap["responses"]); ok {
					for code := range responses {
						codes[code] = struct{}{}
					}
				}
			}
			methods[method] = codes
		}
		surface[route] = methods
	}
	return surface
}

const baseDoc = `
paths:
  /api/posts:
    get:
      responses:
        "200": {}
        "503": {}
    post:
      responses:
        "201": {}
  /api/users/{username}:
    get:
      responses:
        "200": {}
        "404": {}
`

func TestDiffSurfaces_NoChanges(t *testing.T) {
	oldSurface := surfaceFromYAML(t, baseDoc)
	newSurface := surfaceFromYAML(t, baseDoc)

	assert.Empty(t, diffSurfaces(oldSurface, newSurface))
}

func TestDiffSurfaces_AdditionsAreCompatible(t *testing.T) {
	oldSurface := surfaceFromYAML(t, baseDoc)
	newSurface := surfaceFromYAML(t, baseDoc+`
  /api/messages:
    post:
      responses:
        "201": {}
`)

	assert.Empty(t, diffSurfaces(oldSurface, newSurface))
}

func TestDiffSurfaces_ReportsRemovals(t *testing.T) {
	oldSurface := surfaceFromYAML(t, baseDoc)
	newSurface := surfaceFromYAML(t, `
paths:
  /api/posts:
    get:
      responses:
        "200": {}
`)

	breaks := diffSurfaces(oldSurface, newSurface)
	assert.ElementsMatch(t, []string{
		"removed path: /api/users/{username}",
		"removed operation: POST /api/posts",
		"removed response: GET /api/posts 503",
	}, breaks)
}
