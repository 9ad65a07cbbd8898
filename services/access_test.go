package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reportaxial/reportaxial-api/models"
)

func TestAuthorize(t *testing.T) {
	store := Identity{UserID: 1, Role: models.RoleStore}
	supplier := Identity{UserID: 2, Role: models.RoleSupplier}
	admin := Identity{UserID: 3, Role: models.RoleAdmin}
	ghost := Identity{UserID: 4, Role: "ghost"}

	tests := []struct {
		name           string
		caller         Identity
		op             Operation
		problemStoreID uint
		callerStoreID  uint
		wantCode       string
	}{
		{"store creates a problem", store, OpCreateProblem, 0, 0, ""},
		{"store views own problem", store, OpViewProblem, 10, 10, ""},
		{"store views foreign problem", store, OpViewProblem, 10, 11, CodeForbidden},
		{"store edits own problem", store, OpEditProblem, 10, 10, ""},
		{"store edits foreign problem", store, OpEditProblem, 10, 11, CodeForbidden},
		{"store posts on own problem", store, OpPostMessage, 10, 10, ""},
		{"store attaches on own problem", store, OpAttachFile, 10, 10, ""},
		{"store cannot respond", store, OpRespond, 10, 10, CodeForbidden},
		{"store cannot resolve", store, OpResolve, 10, 10, CodeForbidden},

		{"supplier views any problem", supplier, OpViewProblem, 10, 0, ""},
		{"supplier responds", supplier, OpRespond, 10, 0, ""},
		{"supplier resolves", supplier, OpResolve, 10, 0, ""},
		{"supplier posts messages", supplier, OpPostMessage, 10, 0, ""},
		{"supplier marks viewed", supplier, OpMarkViewed, 10, 0, ""},
		{"supplier cannot create", supplier, OpCreateProblem, 0, 0, CodeForbidden},
		{"supplier cannot edit", supplier, OpEditProblem, 10, 0, CodeForbidden},
		{"supplier cannot attach", supplier, OpAttachFile, 10, 0, CodeForbidden},

		{"admin denied everything", admin, OpViewProblem, 10, 0, CodeForbidden},
		{"admin cannot resolve", admin, OpResolve, 10, 0, CodeForbidden},

		{"unknown role unauthorized", ghost, OpViewProblem, 10, 0, CodeUnauthorized},
		{"unknown role cannot create", ghost, OpCreateProblem, 0, 0, CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorize(tt.caller, tt.op, tt.problemStoreID, tt.callerStoreID)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, CodeOf(err))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		caller   Identity
		role     string
		wantCode string
	}{
		{"matching role", Identity{Role: models.RoleStore}, models.RoleStore, ""},
		{"wrong role", Identity{Role: models.RoleSupplier}, models.RoleStore, CodeForbidden},
		{"admin is a wrong role too", Identity{Role: models.RoleAdmin}, models.RoleSupplier, CodeForbidden},
		{"unknown role", Identity{Role: "ghost"}, models.RoleStore, CodeUnauthorized},
		{"empty role", Identity{}, models.RoleStore, CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireRole(tt.caller, tt.role)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, CodeOf(err))
			}
		})
	}
}
