package chat

// Role is the closed set of marketplace roles carried in auth claims.
// Here it is used only for authorization context and display.
type Role string

const (
	RoleAdopter      Role = "ADOPTER"
	RoleShelterOwner Role = "SHELTER_OWNER"
	RoleAdmin        Role = "ADMIN"
)

// UserSummary is the display projection attached to messages and
// participants. The full profile lives outside the chat domain.
type UserSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
	Role   Role    `json:"role"`
}
