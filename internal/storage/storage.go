package storage

import (
	"context"
	"fmt"
)

// Storage key names. The two identity kinds use disjoint namespaces so that
// switching identity types never requires migration.
const (
	KeyToken = "token"
	KeyRole  = "role"
	KeyUser  = "user"

	KeyCorpToken   = "corp_token"
	KeyCorpAccount = "corp_account"
)

// VerifiedKey is the per-(user, company) OTP verification flag.
func VerifiedKey(email, companyID string) string {
	return fmt.Sprintf("public_access_verified:%s:%s", email, companyID)
}

// GlobalVerifiedKey supersedes all per-company flags for a user once set.
func GlobalVerifiedKey(email string) string {
	return fmt.Sprintf("public_access_verified_global:%s", email)
}

func LastCompanyKey(email string) string {
	return fmt.Sprintf("public_access_last_company:%s", email)
}

// VerifiedValue marks a verification flag as set.
const VerifiedValue = "1"

// Tier is one storage layer for portal session records. The durable tier
// survives restarts; the ephemeral tier lives only as long as the process.
// All keys are namespaced by a session scope ID.
type Tier interface {
	Get(ctx context.Context, scope, key string) (value string, ok bool, err error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
	// Clear wipes every key in the scope, not just auth keys.
	Clear(ctx context.Context, scope string) error
}
