// Package portfolio holds the site owner's profile data used to ground the
// chat assistant. Edit this file to change what the assistant knows.
package portfolio

import (
	"fmt"
	"strings"
)

// Profile describes the site owner.
type Profile struct {
	Name     string
	Title    string
	Location string
	Summary  string
	Skills   []string
	Projects []Project
	Contact  string
}

// Project is one portfolio entry the assistant can talk about.
type Project struct {
	Name        string
	Description string
	Tech        []string
	Link        string
}

// Default is the profile served by the assistant.
var Default = Profile{
	Name:     "Aryan",
	Title:    "Full-stack developer",
	Location: "India",
	Summary: "Full-stack developer building web applications end to end, " +
		"from database design through deployment. Open to freelance and " +
		"full-time opportunities.",
	Skills: []string{
		"Go", "TypeScript", "React", "Next.js", "PostgreSQL", "Redis",
		"Docker", "REST API design",
	},
	Projects: []Project{
		{
			Name:        "Client feedback widget",
			Description: "Embeddable script that lets clients pin feedback directly onto staging sites, with moderation and CSV export.",
			Tech:        []string{"Go", "PostgreSQL", "vanilla JS"},
		},
		{
			Name:        "Portfolio site",
			Description: "This site: blog, analytics dashboard and AI assistant.",
			Tech:        []string{"Go", "PostgreSQL", "OpenAI"},
		},
	},
	Contact: "Use the contact form on the site or the resume download.",
}

// SystemPrompt renders the profile into the assistant's system message.
// The assistant is told to stay on topic; anything not in the profile is
// out of scope.
func (p Profile) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the AI assistant on %s's portfolio website. ", p.Name)
	b.WriteString("Answer questions about the site owner using only the facts below. ")
	b.WriteString("If asked about anything unrelated, politely steer the conversation back to the portfolio. ")
	b.WriteString("Keep answers short and concrete.\n\n")

	fmt.Fprintf(&b, "Name: %s\nTitle: %s\nLocation: %s\nSummary: %s\n", p.Name, p.Title, p.Location, p.Summary)
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
	b.WriteString("Projects:\n")
	for _, proj := range p.Projects {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", proj.Name, proj.Description, strings.Join(proj.Tech, ", "))
	}
	fmt.Fprintf(&b, "Contact: %s\n", p.Contact)
	return b.String()
}
