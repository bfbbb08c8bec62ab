package ports

import "context"

// ProvisionRequest is the payload of the create-user function.
type ProvisionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ProvisionResult is the function's response. A non-empty Error means the
// function ran and refused the request.
type ProvisionResult struct {
	UserID string `json:"user_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// UserProvisioner creates an account, profile and role assignment in one call.
type UserProvisioner interface {
	Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error)
}
