package website

import "embed"

//go:embed templates/*.html templates/partials/*.html
var TemplateFS embed.FS

//go:embed static/*
var StaticFS embed.FS
