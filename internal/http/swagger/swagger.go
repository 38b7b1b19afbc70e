// Package swagger serves the embedded OpenAPI contract and a Swagger UI page
// pointing at it.
package swagger

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/pos-station/api-contract"
)

const (
	DocsPath = "/docs"
	SpecPath = "/docs/openapi.yml"

	uiVersion = "5.29.3"
)

var uiTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>POS Station API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: {{.SpecPath}},
      dom_id: '#swagger-ui',
      deepLinking: true,
    });
  };
</script>
</body>
</html>
`))

// Register mounts the docs page and the raw contract on r.
func Register(r chi.Router) {
	page := mustRenderUI()
	spec := apicontract.GetSpecBytes()

	r.Get(DocsPath, staticHandler("text/html; charset=utf-8", page))
	r.Get(SpecPath, staticHandler("application/yaml", spec))
}

func mustRenderUI() []byte {
	var buf bytes.Buffer
	err := uiTemplate.Execute(&buf, struct {
		Version  string
		SpecPath string
	}{uiVersion, SpecPath})
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func staticHandler(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}
