// Command openapi-compat diffs two OpenAPI documents and fails when the
// newer one drops paths, operations, or response codes the older one had.
// Run it in CI against the generated swagger.yaml to catch breaking API
// changes before clients do.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

// apiSurface is the subset of an OpenAPI document we care about:
// path -> method -> set of response codes.
type apiSurface map[string]map[string]map[string]struct{}

func main() {
	oldPath := flag.String("old", "", "previous swagger.yaml")
	newPath := flag.String("new", "", "candidate swagger.yaml")
	flag.Parse()

	if strings.TrimSpace(*oldPath) == "" || strings.TrimSpace(*newPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -old <path> -new <path>")
		os.Exit(2)
	}

	oldSurface, err := loadSurface(*oldPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", *oldPath, err)
		os.Exit(1)
	}
	newSurface, err := loadSurface(*newPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", *newPath, err)
		os.Exit(1)
	}

	breaks := diffSurfaces(oldSurface, newSurface)
	if len(breaks) > 0 {
		fmt.Fprintln(os.Stderr, "breaking API changes:")
		for _, b := range breaks {
			fmt.Fprintf(os.Stderr, "  %s\n", b)
		}
		os.Exit(1)
	}

	fmt.Println("no breaking changes")
}

func loadSurface(path string) (apiSurface, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- dev tool, path is a flag
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	paths, ok := asStringMap(doc["paths"])
	if !ok {
		return nil, errors.New("document has no paths object")
	}

	surface := make(apiSurface, len(paths))
	for route, item := range paths {
		ops, ok := asStringMap(item)
		if !ok {
			continue
		}

		methods := make(map[string]map[string]struct{})
		for method, op := range ops {
			method = strings.ToLower(strings.TrimSpace(method))
			if _, known := httpMethods[method]; !known {
				continue
			}

			codes := make(map[string]struct{})
			if opMap, ok := asStringMap(op); ok {
				if responses, ok := asStringMap(opMap["responses"]); ok {
					for code := range responses {
						codes[strings.TrimSpace(code)] = struct{}{}
					}
				}
			}
			methods[method] = codes
		}

		if len(methods) > 0 {
			surface[route] = methods
		}
	}

	return surface, nil
}

// asStringMap handles both map[string]any and the map[any]any form older
// yaml decoders produce.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func diffSurfaces(oldSurface, newSurface apiSurface) []string {
	var breaks []string

	for route, oldMethods := range oldSurface {
		newMethods, ok := newSurface[route]
		if !ok {
			breaks = append(breaks, "removed path: "+route)
			continue
		}

		for method, oldCodes := range oldMethods {
			newCodes, ok := newMethods[method]
			if !ok {
				breaks = append(breaks, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), route))
				continue
			}

			for code := range oldCodes {
				if _, ok := newCodes[code]; !ok {
					breaks = append(breaks, fmt.Sprintf("removed response: %s %s %s", strings.ToUpper(method), route, code))
				}
			}
		}
	}

	sort.Strings(breaks)
	return breaks
}
