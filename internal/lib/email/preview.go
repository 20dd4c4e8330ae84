package email

// PreviewData holds sample values for every template, keyed by template
// and then by template variable.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserFirstName": "John",
	},
	TemplateParticipation: {
		"UserFirstName": "John",
		"SessionName":   "Morning Yoga",
		"SessionDate":   "Monday 2 November 2026, 09:00 UTC",
	},
}
