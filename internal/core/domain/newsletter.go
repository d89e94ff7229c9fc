package domain

// IssueContent holds both renderings of a newsletter issue body.
type IssueContent struct {
	HTML string
	Text string
}

// NewsletterIssue is a publishable newsletter edition.
type NewsletterIssue struct {
	Title   string
	Content IssueContent
}

// Operator is a stored account allowed to publish newsletter issues.
type Operator struct {
	UserID       string
	Username     string
	PasswordHash string
}
