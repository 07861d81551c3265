package auth

const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleUser    = "user"
)

// Actor is the authenticated caller passed explicitly into services.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleTrainer
}

func ActorFromClaims(c *Claims) Actor {
	return Actor{UserID: c.UserID, Role: c.Role}
}
