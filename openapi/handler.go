package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// DocsUI selects which interactive documentation UI to serve.
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRapiDoc
	DocsRedoc
)

// HandleConfig configures the endpoints registered by Handle.
type HandleConfig struct {
	// UI selects the interactive docs UI (default: DocsSwaggerUI).
	UI DocsUI

	// Title overrides the HTML page title (default: document info.title).
	Title string

	// JSONFilename is the path for the JSON endpoint (default:
	// "openapi.json"). Set to "-" to disable. Relative paths are joined
	// with the base path, absolute paths are used as-is.
	JSONFilename string

	// YAMLFilename is the path for the YAML endpoint (default:
	// "openapi.yaml"). Set to "-" to disable.
	YAMLFilename string

	// DisableDocs disables the interactive HTML docs UI endpoint.
	DisableDocs bool

	// SwaggerUIConfig provides additional SwaggerUIBundle configuration
	// options, rendered as JavaScript object properties next to url and
	// dom_id. Only used with DocsSwaggerUI.
	//
	// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
	SwaggerUIConfig map[string]any
}

func (cfg HandleConfig) jsonFilename() string {
	if cfg.JSONFilename == "" {
		return "openapi.json"
	}
	return cfg.JSONFilename
}

func (cfg HandleConfig) yamlFilename() string {
	if cfg.YAMLFilename == "" {
		return "openapi.yaml"
	}
	return cfg.YAMLFilename
}

// resolvePath returns the full route path for a filename.
func resolvePath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}
	if basePath == "" {
		return "/" + filename
	}
	return basePath + "/" + filename
}

// Handle registers GET endpoints for the document under basePath:
//
//	<basePath>/            - interactive HTML docs (unless DisableDocs)
//	<JSONFilename path>    - document as JSON  (unless JSONFilename is "-")
//	<YAMLFilename path>    - document as YAML  (unless YAMLFilename is "-")
//
// Pass nil config for defaults:
//
//	openapi.Handle(mux, "/swagger", doc, nil)
//
// The document is serialized once on first request; register all routes
// before serving.
func Handle(mux *http.ServeMux, basePath string, doc *Document, cfg *HandleConfig) {
	if cfg == nil {
		cfg = &HandleConfig{}
	}
	basePath = strings.TrimRight(basePath, "/")

	var jsonPath, yamlPath string

	if name := cfg.jsonFilename(); name != "-" {
		jsonPath = resolvePath(basePath, name)
		registerDocument(mux, jsonPath, "application/json", "JSON", doc.EncodeJSON)
	}

	if name := cfg.yamlFilename(); name != "-" {
		yamlPath = resolvePath(basePath, name)
		registerDocument(mux, yamlPath, "application/x-yaml", "YAML", doc.EncodeYAML)
	}

	if cfg.DisableDocs {
		return
	}

	docURL := jsonPath
	if docURL == "" {
		docURL = yamlPath
	}
	if docURL == "" {
		return
	}

	title := cfg.Title
	if title == "" {
		title = doc.Info.Title
	}
	registerDocs(mux, basePath, cfg, title, docURL)
}

// registerDocument serves the document with a lazily built, cached encoding.
func registerDocument(mux *http.ServeMux, path, contentType, format string, encode func(w io.Writer) error) {
	var (
		once     sync.Once
		data     []byte
		buildErr error
	)
	mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			defer func() {
				if rv := recover(); rv != nil {
					buildErr = fmt.Errorf("%v", rv)
				}
			}()
			var buf bytes.Buffer
			buildErr = encode(&buf)
			data = buf.Bytes()
		})
		if buildErr != nil {
			http.Error(w, "failed to serialize OpenAPI document as "+format, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func registerDocs(mux *http.ServeMux, basePath string, cfg *HandleConfig, title, docURL string) {
	var page []byte
	switch cfg.UI {
	case DocsRapiDoc:
		page = []byte(rapidocTemplate(title, docURL))
	case DocsRedoc:
		page = []byte(redocTemplate(title, docURL))
	default:
		page = []byte(swaggerUITemplate(title, docURL, cfg.SwaggerUIConfig))
	}

	handler := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}

	if basePath == "" {
		mux.HandleFunc("GET /{$}", handler)
		return
	}
	mux.HandleFunc("GET "+basePath, handler)
	mux.HandleFunc("GET "+basePath+"/{$}", handler)
}

func swaggerUITemplate(title, docPath string, config map[string]any) string {
	var extra string
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf strings.Builder
		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&buf, ", %s: %s", k, v)
		}
		extra = buf.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), docPath, extra)
}

func rapidocTemplate(title, docPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q></rapi-doc>
</body>
</html>`, html.EscapeString(title), docPath)
}

func redocTemplate(title, docPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), docPath)
}
