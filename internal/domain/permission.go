package domain

// Privilege is the capability level resolved for an actor within a guild.
type Privilege uint8

const (
	PNone      Privilege = 0
	PModerator Privilege = 50
	PAdmin     Privilege = 100
)

func (p Privilege) String() string {
	switch p {
	case PNone:
		return "none"
	case PModerator:
		return "moderator"
	case PAdmin:
		return "admin"
	default:
		return "unknown"
	}
}
