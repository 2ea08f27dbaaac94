package git

import "strings"

// Commit types used for conventional commit headers.
const (
	CommitTypeFeat  = "feat"
	CommitTypeFix   = "fix"
	CommitTypeChore = "chore"
)

// Footer marks commits written by the store.
const Footer = "Managed-by: quicknotes"

// FormatMessage builds a conventional commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Managed-by: quicknotes
func FormatMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)
	return sb.String()
}
