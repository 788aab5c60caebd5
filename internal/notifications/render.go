package notifications

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed templates
var templateFS embed.FS

const (
	// DefaultLanguage is used when a contact's language has no template.
	DefaultLanguage = "en"

	// SubjectTenderPublished is the subject key and message group of
	// tender publication emails.
	SubjectTenderPublished = "tender.published"

	templateTenderPublished = "tender_published"
	dateLayout              = "January 02, 2006"
)

// TenderPublished fills the tender_published templates.
type TenderPublished struct {
	RecipientName  string
	OfficerName    string
	Organization   string
	OfficerPhone   string
	TenderTitle    string
	SubmissionFrom string
	SubmissionTo   string
	TenderLink     string
	PlatformName   string
	PlatformLink   string
}

// FormatDate renders a submission date the way emails show it.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(dateLayout)
}

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\", "`", "\\`", "*", "\\*", "_", "\\_", "{", "\\{", "}", "\\}",
	"[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)", "#", "\\#", "+", "\\+",
	"-", "\\-", ".", "\\.", "!", "\\!", "|", "\\|", "<", "\\<", ">", "\\>",
	"~", "\\~", "&", "\\&", "\r", " ", "\n", " ",
)

// escapeMarkdown makes s render as literal text inside a markdown template.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// escaped returns data with every user-supplied field markdown-escaped.
func (d TenderPublished) escaped() TenderPublished {
	d.RecipientName = escapeMarkdown(d.RecipientName)
	d.OfficerName = escapeMarkdown(d.OfficerName)
	d.Organization = escapeMarkdown(d.Organization)
	d.OfficerPhone = escapeMarkdown(d.OfficerPhone)
	d.TenderTitle = escapeMarkdown(d.TenderTitle)
	return d
}

// Renderer turns markdown templates into HTML email bodies.
type Renderer struct {
	bodies   map[string]*template.Template
	layout   *htmltemplate.Template
	subjects map[string]map[string]string
	md       goldmark.Markdown
}

// NewRenderer parses the embedded templates and subject bundle.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		bodies: map[string]*template.Template{},
		md:     goldmark.New(),
	}

	files, err := fs.Glob(templateFS, "templates/*.md")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		raw, err := templateFS.ReadFile(file)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(path.Base(file), ".md")
		t, err := template.New(name).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.bodies[name] = t
	}

	r.layout, err = htmltemplate.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	raw, err := templateFS.ReadFile("templates/subjects.yaml")
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &r.subjects); err != nil {
		return nil, fmt.Errorf("parse subjects: %w", err)
	}
	return r, nil
}

// Language returns lang when a template exists for it, else DefaultLanguage.
func (r *Renderer) Language(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := r.bodies[templateTenderPublished+"_"+lang]; ok {
		return lang
	}
	return DefaultLanguage
}

// Subject returns the subject for key in lang, falling back to DefaultLanguage.
func (r *Renderer) Subject(key, lang string) string {
	if s, ok := r.subjects[r.Language(lang)][key]; ok {
		return s
	}
	if s, ok := r.subjects[DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// TenderPublished renders the subject and HTML body of a publication email.
func (r *Renderer) TenderPublished(lang string, data TenderPublished) (subject, body string, err error) {
	lang = r.Language(lang)
	var md bytes.Buffer
	if err := r.bodies[templateTenderPublished+"_"+lang].Execute(&md, data.escaped()); err != nil {
		return "", "", fmt.Errorf("render %s_%s: %w", templateTenderPublished, lang, err)
	}
	var content bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &content); err != nil {
		return "", "", fmt.Errorf("convert markdown: %w", err)
	}
	var page bytes.Buffer
	err = r.layout.Execute(&page, struct {
		Content      htmltemplate.HTML
		PlatformName string
	}{
		Content:      htmltemplate.HTML(content.String()),
		PlatformName: data.PlatformName,
	})
	if err != nil {
		return "", "", fmt.Errorf("render layout: %w", err)
	}
	return r.Subject(SubjectTenderPublished, lang), page.String(), nil
}
