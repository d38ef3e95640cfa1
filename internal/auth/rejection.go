package auth

import (
	"errors"
	"net/http"
)

// ReasonCode is the stable machine-readable rejection reason.
type ReasonCode string

const (
	ReasonMissingCredential     ReasonCode = "missing_credential"
	ReasonMalformedCredential   ReasonCode = "malformed_credential"
	ReasonInvalidSignature      ReasonCode = "invalid_signature"
	ReasonExpiredCredential     ReasonCode = "expired_credential"
	ReasonInvalidIdentity       ReasonCode = "invalid_identity"
	ReasonStoreUnavailable      ReasonCode = "store_unavailable"
	ReasonNotAdmin              ReasonCode = "not_admin"
	ReasonInsufficientPrivilege ReasonCode = "insufficient_privilege"
	ReasonAlreadyAdmin          ReasonCode = "already_admin"
	ReasonInternal              ReasonCode = "internal_error"
)

// Rejection is a structured authentication/authorization failure. The guard
// and its callers never see raw verifier or store errors, only rejections.
//
// Status policy, applied uniformly: 401 for every credential failure and for
// not_admin; 403 only for insufficient_privilege (an admin record exists but
// lacks the required permission or role rank); 409 for a duplicate bootstrap;
// 503 when a backing store is unreachable; 500 when a persisted record is
// corrupt and retrying cannot help.
type Rejection struct {
	Code    ReasonCode
	Message string
	Status  int
}

func (r *Rejection) Error() string { return r.Message }

// StatusCode implements httpx.StatusCoder.
func (r *Rejection) StatusCode() int { return r.Status }

func reject(code ReasonCode, status int, message string) *Rejection {
	return &Rejection{Code: code, Message: message, Status: status}
}

// Rejection constructors for the fixed taxonomy.
var (
	errMissingCredential = reject(ReasonMissingCredential, http.StatusUnauthorized, "No token provided")
	errMalformed         = reject(ReasonMalformedCredential, http.StatusUnauthorized, "Malformed token")
	errInvalidSignature  = reject(ReasonInvalidSignature, http.StatusUnauthorized, "Invalid token signature")
	errExpired           = reject(ReasonExpiredCredential, http.StatusUnauthorized, "Token expired")
	errInvalidIdentity   = reject(ReasonInvalidIdentity, http.StatusUnauthorized, "Unknown or deleted user")
	errNotAdmin          = reject(ReasonNotAdmin, http.StatusUnauthorized, "Admin access required")
	errInsufficient      = reject(ReasonInsufficientPrivilege, http.StatusForbidden, "Insufficient privilege")
	errAlreadyAdmin      = reject(ReasonAlreadyAdmin, http.StatusConflict, "User is already an admin")
	errStoreUnavailable  = reject(ReasonStoreUnavailable, http.StatusServiceUnavailable, "Store unavailable")

	// A persisted record failed the closed-set role/permission parse.
	// Retrying cannot help, so it is not reported as a store outage.
	errCorruptRecord = reject(ReasonInternal, http.StatusInternalServerError, "Internal error")
)

// AsRejection extracts a *Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
