// Package security decides which centres a caller may see and change.
package security

import (
	"context"

	"centrebooks/internal/core/apperror"
	appctx "centrebooks/internal/core/context"
	"centrebooks/internal/core/id"
)

type principalKind uint8

const (
	kindAnonymous principalKind = iota
	kindUnrestricted
	kindCentreBound
)

// Principal is the resolved caller. It is either unrestricted (admin) or bound
// to exactly one centre. The zero value is anonymous and may access nothing.
type Principal struct {
	kind     principalKind
	userID   string
	centreID id.ID
}

// Unrestricted returns a principal that sees every centre.
func Unrestricted(userID string) Principal {
	return Principal{kind: kindUnrestricted, userID: userID}
}

// CentreBound returns a principal restricted to centreID.
func CentreBound(userID string, centreID id.ID) Principal {
	return Principal{kind: kindCentreBound, userID: userID, centreID: centreID}
}

// UserID returns the account id the principal was resolved from.
func (p Principal) UserID() string { return p.userID }

// IsUnrestricted reports whether the principal sees every centre.
func (p Principal) IsUnrestricted() bool { return p.kind == kindUnrestricted }

// CentreID returns the bound centre, ok is false for unrestricted and anonymous principals.
func (p Principal) CentreID() (centreID id.ID, ok bool) {
	if p.kind != kindCentreBound {
		return id.ID{}, false
	}
	return p.centreID, true
}

// CentreScope returns the centre every query must be restricted to, or nil
// when the principal sees all centres.
func (p Principal) CentreScope() (*id.ID, error) {
	switch p.kind {
	case kindUnrestricted:
		return nil, nil
	case kindCentreBound:
		c := p.centreID
		return &c, nil
	default:
		return nil, apperror.NewUnauthorized("authentication required")
	}
}

// CanAccessCentre checks if the principal may read or write centreID's data.
func (p Principal) CanAccessCentre(centreID id.ID) bool {
	switch p.kind {
	case kindUnrestricted:
		return true
	case kindCentreBound:
		return p.centreID == centreID
	default:
		return false
	}
}

// RequireCentre returns FORBIDDEN unless the principal may access centreID.
func (p Principal) RequireCentre(centreID id.ID) error {
	if p.kind == kindAnonymous {
		return apperror.NewUnauthorized("authentication required")
	}
	if !p.CanAccessCentre(centreID) {
		return apperror.NewForbidden("access to this centre is not allowed").
			WithDetail("centre_id", centreID.String())
	}
	return nil
}

// RequireUnrestricted returns FORBIDDEN for anyone but an admin.
func (p Principal) RequireUnrestricted() error {
	if p.kind == kindAnonymous {
		return apperror.NewUnauthorized("authentication required")
	}
	if !p.IsUnrestricted() {
		return apperror.NewForbidden("administrator access required")
	}
	return nil
}

// PrincipalFromUser resolves token claims into a Principal.
// A centre account whose centre reference is missing is refused.
func PrincipalFromUser(u *appctx.UserContext) (Principal, error) {
	if u == nil {
		return Principal{}, apperror.NewUnauthorized("authentication required")
	}

	switch u.Role {
	case appctx.RoleAdmin:
		return Unrestricted(u.UserID), nil
	case appctx.RoleCentre:
		if u.CentreID == "" {
			return Principal{}, apperror.NewForbidden("account is not bound to a centre").
				WithDetail("user_id", u.UserID)
		}
		centreID, err := id.Parse(u.CentreID)
		if err != nil {
			return Principal{}, apperror.NewForbidden("account is bound to an invalid centre").
				WithDetail("user_id", u.UserID)
		}
		return CentreBound(u.UserID, centreID), nil
	default:
		return Principal{}, apperror.NewForbidden("unknown role").WithDetail("role", u.Role)
	}
}

// --- Context-based access ---

type principalKey struct{}

// WithPrincipal adds the resolved principal to context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns the principal from context, anonymous when absent.
func GetPrincipal(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{}
}
