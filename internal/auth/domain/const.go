package domain

// Fixed process identifiers carried by every issued token.
const (
	// TokenIssuer is the iss claim on every issued token.
	TokenIssuer = "auth-api"

	// TokenAudience is the aud claim on every issued token.
	TokenAudience = "auth-api-users"

	// TokenType is the scheme under which tokens are presented.
	TokenType = "Bearer"
)

// Blacklist key scheme in the revocation store.
const (
	// BlacklistKeyPrefix namespaces every revocation entry.
	BlacklistKeyPrefix = "blacklist:token:"

	// BlacklistEntryValue is the marker stored under a revoked token's key.
	BlacklistEntryValue = "revoked"
)
