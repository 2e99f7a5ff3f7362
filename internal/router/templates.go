package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

var views = []string{"index.html", "report.html", "items.html", "account.html", "error.html"}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown": utils.RenderMarkdown,
		"imageURL": func(rel string) string {
			return UploadsPath + "/" + rel
		},
		"accountURL": accountURL,
		"kindLabel": func(k models.Kind) string {
			return k.Label()
		},
		"timeAgo": timeAgo,
	}
}

// accountURL 用户名作为单个路径段转义，名字里的 / # ? 不会破坏链接
func accountURL(name string) string {
	return "/account/" + url.PathEscape(name)
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%d min ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d h ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d days ago", seconds/86400)
	}
	return t.Format("2006-01-02")
}

// LoadTemplates 每个页面单独组装：layouts + includes + view
func LoadTemplates(templates fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	shared := []string{"layouts/*.html", "includes/*.html"}
	for _, view := range views {
		patterns := append(append([]string{}, shared...), "views/"+view)
		tmpl, err := template.New(view).Funcs(funcMap()).ParseFS(templates, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", view, err)
		}
		r.Add(view, tmpl.Lookup("base"))
	}
	return r, nil
}
