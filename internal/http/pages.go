package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soonhyok/accountd/internal/auth"
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><title>Home</title></head>
<body>
<h1>Welcome</h1>
{{if .Authenticated}}
<p>Signed in as <strong>{{.Username}}</strong> ({{.Role}})</p>
<form method="post" action="/logout">{{.CSRFField}}<button type="submit">Log out</button></form>
{{else}}
<p><a href="/login">Log in</a></p>
{{end}}
</body>
</html>`))

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head><title>Admin</title></head>
<body>
<h1>Admin</h1>
<p>Signed in as <strong>{{.Username}}</strong> ({{.Role}})</p>
</body>
</html>`))

// PagesController serves the demo pages. The home page is public; the admin
// page is only ever reached if the authorization policy lets the request
// through.
type PagesController struct{}

func NewPagesController() *PagesController {
	return &PagesController{}
}

// Home renders the landing page for everyone, anonymous or not.
func (p *PagesController) Home(c *gin.Context) {
	principal := auth.GetPrincipal(c)
	p.render(c, homeTemplate, gin.H{
		"Authenticated": principal.Authenticated,
		"Username":      principal.Username,
		"Role":          principal.Role,
		"CSRFField":     template.HTML(auth.CSRFTokenField(c)),
	})
}

// Admin renders the admin page.
func (p *PagesController) Admin(c *gin.Context) {
	principal := auth.GetPrincipal(c)
	p.render(c, adminTemplate, gin.H{
		"Username": principal.Username,
		"Role":     principal.Role,
	})
}

func (p *PagesController) render(c *gin.Context, tmpl *template.Template, data gin.H) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := tmpl.Execute(c.Writer, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
