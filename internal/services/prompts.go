package services

// LLM prompt constants

const (
	// INSIGHT_SYSTEM_PROMPT asks for a short bullet summary of a paper.
	INSIGHT_SYSTEM_PROMPT = `Read the following research paper text and provide 3–5 concise bullet-point insights summarizing its ideas and methods.`

	// REVIEWER_REMINDER_SUBJECT is formatted with the event title.
	REVIEWER_REMINDER_SUBJECT = "Pending Reviews Reminder — %s"

	// ACCEPTED_REPORT_SUBJECT is formatted with the event title.
	ACCEPTED_REPORT_SUBJECT = "Accepted Papers Report — %s"
)
