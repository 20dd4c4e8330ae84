package email

import "time"

// DateLayout formats session dates in emails.
const DateLayout = "Monday 2 January 2006, 15:04 MST"

// SendWelcomeEmail greets a newly registered user.
func (c *Client) SendWelcomeEmail(to, firstName string) error {
	data := map[string]string{
		"UserFirstName": firstName,
	}

	return c.SendEmail(
		to,
		"Welcome to Gym Sessions!",
		TemplateWelcome,
		data,
	)
}

// SendParticipationEmail confirms that a user joined a session.
func (c *Client) SendParticipationEmail(to, firstName, sessionName string, sessionDate time.Time) error {
	data := map[string]string{
		"UserFirstName": firstName,
		"SessionName":   sessionName,
		"SessionDate":   sessionDate.Format(DateLayout),
	}

	return c.SendEmail(
		to,
		"You're in: "+sessionName,
		TemplateParticipation,
		data,
	)
}
