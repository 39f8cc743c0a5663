package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/changemaker/internal/domain"
)

func TestIndexRenders(t *testing.T) {
	var buf bytes.Buffer
	err := Templates().ExecuteTemplate(&buf, "index.tmpl", map[string]any{
		"Products": []domain.Product{{ID: "gum", Name: "Gum", Price: 150, Stock: 0}},
		"Register": domain.Register{{Denom: 25, Count: 4}},
		"Balance":  100,
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "$1.50")
	assert.Contains(t, out, "out of stock")
	assert.Contains(t, out, `data-denom="25"`)
	assert.Contains(t, out, "balance $1.00")
}

func TestStaticFS(t *testing.T) {
	f, err := StaticFS().Open("app.js")
	require.NoError(t, err)
	f.Close()
}
