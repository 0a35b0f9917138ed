package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestClassSelect(t *testing.T) {
	t.Run("marks selected class", func(t *testing.T) {
		html := render(t, ClassSelect("sel", "objclass", []string{"Article", "Author"}, "Author", ""))
		assert.Contains(t, html, `<select id="sel" data-bind="objclass">`)
		assert.Contains(t, html, `<option value="Article">Article</option>`)
		assert.Contains(t, html, `<option value="Author" selected>Author</option>`)
		assert.NotContains(t, html, "data-on:change")
	})

	t.Run("change handler", func(t *testing.T) {
		html := render(t, ClassSelect("sel", "browseclass", []string{"A"}, "A", "@get('/api/objects')"))
		assert.Contains(t, html, `data-on:change="@get(&#39;/api/objects&#39;)"`)
	})

	t.Run("no classes", func(t *testing.T) {
		html := render(t, ClassSelect("sel", "objclass", nil, "", ""))
		assert.Contains(t, html, `<option value="">No classes in schema</option>`)
	})

	t.Run("escapes class names", func(t *testing.T) {
		html := render(t, ClassSelect("sel", "objclass", []string{`"><script>`}, "", ""))
		assert.NotContains(t, html, "<script>")
		assert.Contains(t, html, `&#34;&gt;&lt;script&gt;`)
	})
}

func TestToast(t *testing.T) {
	html := render(t, Toast(ToastError, "<b>boom</b>"))
	assert.Contains(t, html, `class="toast toast--error"`)
	assert.Contains(t, html, `id="toast-`)
	assert.Contains(t, html, "🤦")
	assert.Contains(t, html, "&lt;b&gt;boom&lt;/b&gt;")

	html = render(t, Toast(ToastSuccess, "ok"))
	assert.Contains(t, html, `class="toast toast--success"`)
	assert.Contains(t, html, "👏")
}

func TestPage(t *testing.T) {
	html := render(t, Page(PageData{
		Title:      "Console",
		Ready:      true,
		Schema:     JSONView{Error: "schema unavailable"},
		ClassNames: []string{"Article"},
	}))

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "Connected to Weaviate")
	assert.Contains(t, html, `<p class="panel-error">schema unavailable</p>`)
	assert.Contains(t, html, `data-show="$tab === &#39;view-schema&#39;"`)
	assert.NotContains(t, html, "@get('/reload')")

	dev := render(t, Page(PageData{Title: "Console", IsDev: true}))
	assert.Contains(t, dev, "Not connected to Weaviate")
	assert.Contains(t, dev, `data-init="@get('/reload')"`)
}
