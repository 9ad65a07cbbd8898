package services

import (
	"github.com/reportaxial/reportaxial-api/models"
)

// Identity is the authenticated caller decoded from the session token.
type Identity struct {
	UserID uint
	Role   string
}

// Operation is a business action a caller can request on a problem.
type Operation string

const (
	OpCreateProblem Operation = "create_problem"
	OpViewProblem   Operation = "view_problem"
	OpEditProblem   Operation = "edit_problem"
	OpMarkViewed    Operation = "mark_viewed"
	OpResolve       Operation = "resolve"
	OpRespond       Operation = "respond"
	OpPostMessage   Operation = "post_message"
	OpListMessages  Operation = "list_messages"
	OpAttachFile    Operation = "attach_file"
)

// authorize decides whether the caller may perform op on a problem owned by
// problemStoreID. callerStoreID is the store profile belonging to the caller
// (zero for non-store roles). The check is pure: stores act only on their
// own problems, suppliers work the whole queue, admins have no business
// rights over problems.
func authorize(caller Identity, op Operation, problemStoreID, callerStoreID uint) error {
	switch caller.Role {
	case models.RoleStore:
		switch op {
		case OpCreateProblem:
			return nil
		case OpViewProblem, OpEditProblem, OpMarkViewed, OpPostMessage, OpListMessages, OpAttachFile:
			if problemStoreID != callerStoreID {
				return ErrForbidden("You do not have permission to access this problem")
			}
			return nil
		}
		return ErrForbidden("Your role is not permitted to perform this action")

	case models.RoleSupplier:
		switch op {
		case OpViewProblem, OpMarkViewed, OpResolve, OpRespond, OpPostMessage, OpListMessages:
			return nil
		}
		return ErrForbidden("Your role is not permitted to perform this action")

	case models.RoleAdmin:
		// Admin accounts manage provisioning only.
		return ErrForbidden("Admin accounts cannot act on problems")
	}

	return ErrUnauthorized("Caller identity is not recognized")
}

// requireRole checks that the caller holds exactly the given role. Used by
// the queue projections, which are scoped to one side of the portal.
func requireRole(caller Identity, role string) error {
	switch caller.Role {
	case models.RoleStore, models.RoleSupplier, models.RoleAdmin:
		if caller.Role != role {
			return ErrForbidden("Your role is not permitted to perform this action")
		}
		return nil
	}
	return ErrUnauthorized("Caller identity is not recognized")
}
