package entity

// Identity is a categorical label describing a lead's relationship to the company.
// Closed set, no runtime extensibility.
type Identity string

const (
	IdentityInvestor         Identity = "investor"
	IdentityDeveloper        Identity = "developer"
	IdentityStudent          Identity = "student"
	IdentityFounder          Identity = "founder"
	IdentityPotentialPartner Identity = "potential_partner"
	IdentityOther            Identity = "other"
)

var Identities = []Identity{
	IdentityInvestor,
	IdentityDeveloper,
	IdentityStudent,
	IdentityFounder,
	IdentityPotentialPartner,
	IdentityOther,
}

func IsValidIdentity(v string) bool {
	for _, id := range Identities {
		if string(id) == v {
			return true
		}
	}
	return false
}

// ParseIdentities drops anything outside the closed set. Used when ingesting
// AI-suggested tags, which come back as free strings.
func ParseIdentities(values []string) []Identity {
	var out []Identity
	for _, v := range values {
		if IsValidIdentity(v) {
			out = append(out, Identity(v))
		}
	}
	return out
}
