package email

const (
	subjectLeadNotificationFmt = "New quote request: %s %s (%s)"
	subjectFollowUp            = "Your insurance quote is waiting"
)
