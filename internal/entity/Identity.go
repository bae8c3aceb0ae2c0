package entity

type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "voter"
)

type Capability string

const (
	CapVote            Capability = "vote"
	CapViewLiveResults Capability = "view_live_results"
	CapManagePolls     Capability = "manage_polls"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {CapViewLiveResults, CapManagePolls},
	RoleVoter: {CapVote},
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleVoter:
		return RoleVoter, true
	}
	return "", false
}

// Identity is the authenticated caller as asserted by the access token.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

func (i Identity) Can(c Capability) bool {
	for _, granted := range roleCapabilities[i.Role] {
		if granted == c {
			return true
		}
	}
	return false
}
