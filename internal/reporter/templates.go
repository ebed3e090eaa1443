package reporter

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"html/template"
	"io"
	"slices"

	"github.com/aleister1102/artemis-extras/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

const emailTemplate = "email.html"

// Fragment is the e-mail template of one report type. Fragments with a
// higher priority are rendered first.
type Fragment struct {
	ReportType models.ReportType
	Priority   int
	Template   string
}

type fragmentData struct {
	ReportType models.ReportType
	Reports    []models.Report
	Language   string
}

type emailData struct {
	TopLevelTarget string
	Body           template.HTML
}

// Email is the rendered message for one top-level target.
type Email struct {
	TopLevelTarget string
	Body           string
}

// Renderer renders reports with the fragments of a set of reporters.
type Renderer struct {
	lang      Language
	templates *template.Template
	fragments []Fragment
}

// NewRenderer parses the embedded templates for lang.
func NewRenderer(lang Language, reporters []Reporter) (*Renderer, error) {
	tmpl, err := template.New("reports").Funcs(templateFunctions(lang)).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}

	var fragments []Fragment
	for _, r := range reporters {
		for _, f := range r.Fragments() {
			if tmpl.Lookup(f.Template) == nil {
				return nil, fmt.Errorf("reporter %s: template %s does not exist", r.Receiver(), f.Template)
			}
			fragments = append(fragments, f)
		}
	}
	slices.SortStableFunc(fragments, func(a, b Fragment) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	return &Renderer{lang: lang, templates: tmpl, fragments: fragments}, nil
}

// Fragments returns the fragments in render order.
func (r *Renderer) Fragments() []Fragment {
	return slices.Clone(r.fragments)
}

// Render writes one fragment per report type present in reports, highest
// priority first. Reports without a fragment are not rendered.
func (r *Renderer) Render(w io.Writer, reports []models.Report) error {
	byType := make(map[models.ReportType][]models.Report)
	for _, report := range reports {
		byType[report.ReportType] = append(byType[report.ReportType], report)
	}

	for _, fragment := range r.fragments {
		group := byType[fragment.ReportType]
		if len(group) == 0 {
			continue
		}
		slices.SortStableFunc(group, func(a, b models.Report) int {
			return cmp.Compare(a.Target, b.Target)
		})
		data := fragmentData{ReportType: fragment.ReportType, Reports: group, Language: r.lang.String()}
		if err := r.templates.ExecuteTemplate(w, fragment.Template, data); err != nil {
			return fmt.Errorf("failed to render %s: %w", fragment.ReportType, err)
		}
	}
	return nil
}

// RenderEmails renders one message per top-level target, ordered by
// target. Targets whose reports have no fragment produce no message.
func (r *Renderer) RenderEmails(reports []models.Report) ([]Email, error) {
	byTarget := make(map[string][]models.Report)
	for _, report := range reports {
		byTarget[report.TopLevelTarget] = append(byTarget[report.TopLevelTarget], report)
	}

	targets := make([]string, 0, len(byTarget))
	for target := range byTarget {
		targets = append(targets, target)
	}
	slices.Sort(targets)

	var emails []Email
	for _, target := range targets {
		var body bytes.Buffer
		if err := r.Render(&body, byTarget[target]); err != nil {
			return nil, err
		}
		if body.Len() == 0 {
			continue
		}

		var out bytes.Buffer
		// The body was produced by the escaping templates above.
		data := emailData{TopLevelTarget: target, Body: template.HTML(body.String())}
		if err := r.templates.ExecuteTemplate(&out, emailTemplate, data); err != nil {
			return nil, fmt.Errorf("failed to render e-mail for %s: %w", target, err)
		}
		emails = append(emails, Email{TopLevelTarget: target, Body: out.String()})
	}
	return emails, nil
}
