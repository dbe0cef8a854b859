package services

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ostrauer/briefshelf-backend/internal/clients/identity"
)

// RoleAdmin is the only role the dashboard admits.
const RoleAdmin = "admin"

// RoleExtractor reads a role from one of the places history has left it.
// Returns "" when this source has nothing to say.
type RoleExtractor func(accessToken string, user *identity.User) string

// DefaultRoleExtractors is the authoritative precedence order. Different
// issuance paths populate the role in different locations; the first
// non-empty result wins and later sources are never consulted. Do not
// reorder.
var DefaultRoleExtractors = []RoleExtractor{
	RoleFromTokenClaims,
	RoleFromAppMetadata,
	RoleFromUserMetadata,
	RoleFromMetadataClaims,
}

// ResolveRole runs the extractor chain and returns the winning role, or ""
// when no source holds one.
func ResolveRole(accessToken string, user *identity.User) string {
	for _, extract := range DefaultRoleExtractors {
		if role := extract(accessToken, user); role != "" {
			return role
		}
	}
	return ""
}

// RoleFromTokenClaims decodes the JWT payload segment and reads its "role"
// claim. The signature is deliberately not verified here; the identity
// provider validated the token when the user was resolved, this only unpacks
// claims. Any decode failure means "no role from this source".
func RoleFromTokenClaims(accessToken string, _ *identity.User) string {
	if accessToken == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return ""
	}
	if role, ok := claims["role"].(string); ok {
		return strings.TrimSpace(role)
	}
	return ""
}

func RoleFromAppMetadata(_ string, user *identity.User) string {
	if user == nil {
		return ""
	}
	return stringField(user.AppMetadata, "role")
}

func RoleFromUserMetadata(_ string, user *identity.User) string {
	if user == nil {
		return ""
	}
	return stringField(user.UserMetadata, "role")
}

func RoleFromMetadataClaims(_ string, user *identity.User) string {
	if user == nil {
		return ""
	}
	nested, ok := user.UserMetadata["claims"].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(nested, "role")
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
