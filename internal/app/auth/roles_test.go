package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/examseating/internal/app/models"
)

func TestClassify(t *testing.T) {
	c := NewClassifier("@cbit.ac.in", "@cbit.org.in")

	tests := []struct {
		email string
		want  models.RoleType
	}{
		{"prof@cbit.ac.in", models.RoleFaculty},
		{"21cs001@cbit.org.in", models.RoleStudent},
		{"someone@gmail.com", models.RoleInvalid},
		{"prof@CBIT.AC.IN", models.RoleInvalid},
		{"", models.RoleInvalid},
		{"cbit.ac.in", models.RoleInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.email))
		})
	}
}

func TestClassifyEmptyDomainsNeverMatch(t *testing.T) {
	c := NewClassifier("", "")
	assert.Equal(t, models.RoleInvalid, c.Classify("prof@cbit.ac.in"))
}
