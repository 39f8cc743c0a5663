package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"svw.info/changemaker/internal/money"
)

//go:embed templates/*.tmpl static/*
var Assets embed.FS

// StaticFS returns a file system for serving /static assets.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(Assets, "static")
	if err != nil {
		return http.FS(embed.FS{})
	}
	return http.FS(sub)
}

// Templates parses the embedded templates. Templates can render cents with
// the money helper.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"money": money.Format,
	}).ParseFS(Assets, "templates/*.tmpl"))
}
