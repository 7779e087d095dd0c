package auth

import (
	"github.com/Legolasan/legolasan-in/pkg/models"
)

// CallerKind tags the two authorization paths for feedback endpoints.
type CallerKind int

const (
	// CallerAdmin is an authenticated dashboard admin: full reads
	// everywhere plus moderation writes.
	CallerAdmin CallerKind = iota
	// CallerTokenHolder presented a valid slug + access token pair:
	// scoped to one project, redacted reads, submission writes.
	CallerTokenHolder
)

// Caller is the resolved authorization identity for a request. It is a
// tagged variant: exactly one of Admin or Project is set, per Kind.
// Resolving once and dispatching on Kind keeps the admin-vs-token split in
// one place instead of scattered boolean checks.
type Caller struct {
	Kind    CallerKind
	Admin   *SessionClaims
	Project *models.ClientProject
}

// AdminCaller wraps admin session claims as a Caller.
func AdminCaller(claims *SessionClaims) Caller {
	return Caller{Kind: CallerAdmin, Admin: claims}
}

// TokenCaller wraps a token-validated project as a Caller.
func TokenCaller(project *models.ClientProject) Caller {
	return Caller{Kind: CallerTokenHolder, Project: project}
}
