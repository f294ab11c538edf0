package email

// PreviewData holds sample variables for every template, used to render
// previews while editing templates.
var PreviewData = map[Template]map[string]any{
	TemplateWelcome: {
		"FirstName": "Ada",
	},
	TemplateWaitlistConfirmation: {
		"Name": "Ada",
	},
	TemplateConsultingNotification: {
		"Name":    "Ada Lovelace",
		"Email":   "ada@example.com",
		"Company": "Analytical Engines Ltd",
		"Role":    "CTO",
		"Message": "We'd like help designing retry policies for our job runners.",
	},
	TemplateConsultingAck: {
		"Name": "Ada",
	},
}
