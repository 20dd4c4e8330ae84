package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateWelcome corresponds to templates/welcome.html
	TemplateWelcome Template = "welcome"

	// TemplateParticipation corresponds to templates/participation.html
	TemplateParticipation Template = "participation"
)

// File is the template's file name inside the embedded templates directory.
func (t Template) File() string {
	return string(t) + ".html"
}
