package email

// ConsultingNotification is the inquiry summary sent to the team.
type ConsultingNotification struct {
	Name    string
	Email   string
	Company string
	Role    string
	Message string
}

func (c *Client) SendWelcomeEmail(to, firstName string) error {
	return c.SendEmail(to, "Welcome to PatternHub!", TemplateWelcome, map[string]any{
		"FirstName": firstName,
	})
}

func (c *Client) SendWaitlistConfirmation(to, name string) error {
	return c.SendEmail(to, "You're on the PatternHub waitlist", TemplateWaitlistConfirmation, map[string]any{
		"Name": name,
	})
}

func (c *Client) SendConsultingNotification(to string, n ConsultingNotification) error {
	return c.SendEmail(to, "New consulting inquiry from "+n.Name, TemplateConsultingNotification, map[string]any{
		"Name":    n.Name,
		"Email":   n.Email,
		"Company": n.Company,
		"Role":    n.Role,
		"Message": n.Message,
	})
}

func (c *Client) SendConsultingAck(to, name string) error {
	return c.SendEmail(to, "We received your inquiry", TemplateConsultingAck, map[string]any{
		"Name": name,
	})
}
