package auth

import (
	"strings"

	"github.com/yigit/examseating/internal/app/models"
)

// Classifier maps login emails onto roles by their domain suffix
type Classifier struct {
	FacultyDomain string
	StudentDomain string
}

// NewClassifier creates a Classifier for the given domain suffixes
func NewClassifier(facultyDomain, studentDomain string) *Classifier {
	return &Classifier{
		FacultyDomain: facultyDomain,
		StudentDomain: studentDomain,
	}
}

// Classify returns the role of email. Matching is a plain, case-sensitive
// suffix check; anything that matches neither domain is RoleInvalid.
func (c *Classifier) Classify(email string) models.RoleType {
	switch {
	case c.FacultyDomain != "" && strings.HasSuffix(email, c.FacultyDomain):
		return models.RoleFaculty
	case c.StudentDomain != "" && strings.HasSuffix(email, c.StudentDomain):
		return models.RoleStudent
	default:
		return models.RoleInvalid
	}
}
