package tabs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/bnema/tabshell/internal/domain/entity"
)

var errorPageTemplate = template.Must(template.New("error-page").Parse(`<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; background: #fafafa; color: #333; margin: 0; }
.error-page { max-width: 560px; margin: 15vh auto 0; padding: 0 20px; }
h1 { font-size: 22px; font-weight: 500; }
.url { color: #707070; word-break: break-all; }
.code { color: #999; font-family: monospace; font-size: 12px; }
</style>
</head>
<body>
<div class="error-page">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{if .URL}}<p class="url">{{.URL}}</p>{{end}}
<p class="code">{{.Description}} ({{.Code}})</p>
</div>
</body>`))

type errorPageData struct {
	Title       string
	Message     string
	URL         string
	Description string
	Code        int
}

func renderErrorPage(loadErr *entity.LoadError) (string, error) {
	data := errorPageData{
		Title:       "This site can't be reached",
		Message:     "The page failed to load.",
		URL:         loadErr.ValidatedURL,
		Description: loadErr.ErrorDescription,
		Code:        loadErr.ErrorCode,
	}
	if loadErr.IsInsecureResponse {
		data.Title = "This site could not be reached securely"
		data.Message = "The server refused the connection or presented an invalid certificate."
	}

	var buf bytes.Buffer
	if err := errorPageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render error page: %w", err)
	}
	return buf.String(), nil
}

// errorPageScript returns a script replacing the document with the error page.
func errorPageScript(loadErr *entity.LoadError) (string, error) {
	page, err := renderErrorPage(loadErr)
	if err != nil {
		return "", err
	}
	return sprintfJS("document.documentElement.innerHTML = %s; true", page), nil
}

// sprintfJS formats args into format as JavaScript string literals.
func sprintfJS(format string, args ...string) string {
	quoted := make([]any, len(args))
	for i, arg := range args {
		b, _ := json.Marshal(arg)
		quoted[i] = string(b)
	}
	return fmt.Sprintf(format, quoted...)
}
