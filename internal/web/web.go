// Package web holds the embedded HTML templates and static assets for the
// kiosk frontend.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"leaderboard-backend/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Templates renders the leaderboard and claim pages.
type Templates struct {
	leaderboard *template.Template
	claimList   *template.Template
	claimForm   *template.Template
}

// NewTemplates parses the embedded templates.
func NewTemplates() (*Templates, error) {
	t := &Templates{}
	for _, tpl := range []struct {
		name string
		dst  **template.Template
	}{
		{"index.html", &t.leaderboard},
		{"claim_list.html", &t.claimList},
		{"claim_form.html", &t.claimForm},
	} {
		parsed, err := template.ParseFS(templateFS, "templates/"+tpl.name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", tpl.name, err)
		}
		*tpl.dst = parsed
	}
	return t, nil
}

// placementView renders a leaderboard row. Nicknames were sanitized when the
// claim settled, so the template prints them without re-escaping.
type placementView struct {
	Placement int
	Nickname  template.HTML
	Score     int
}

// Leaderboard renders the ranked leaderboard page.
func (t *Templates) Leaderboard(w io.Writer, rows []model.PlacementRow) error {
	views := make([]placementView, 0, len(rows))
	for _, r := range rows {
		views = append(views, placementView{
			Placement: r.Placement,
			Nickname:  template.HTML(r.Nickname),
			Score:     r.Score,
		})
	}
	return t.leaderboard.Execute(w, views)
}

// ClaimList renders the unclaimed scores review list.
func (t *Templates) ClaimList(w io.Writer, scores []model.UnclaimedScore) error {
	return t.claimList.Execute(w, scores)
}

// ClaimFormData feeds the claim form template.
type ClaimFormData struct {
	ID           string
	Score        int
	ErrorMessage string
}

// ClaimForm renders the claim form, optionally with a validation message.
func (t *Templates) ClaimForm(w io.Writer, data ClaimFormData) error {
	return t.claimForm.Execute(w, data)
}

// Assets returns the embedded static asset tree.
func Assets() (fs.FS, error) {
	return fs.Sub(assetFS, "assets")
}
