package domain

type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// User carries the identity shared by all roles. The provider-specific
// aggregate fields are only meaningful when Role is RoleProvider and stay
// at their zero values otherwise.
type User struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Role        Role
	ServiceIDs  []string
	Rating      float64
	ReviewCount int
}

func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

// AddService links a service to a provider. Linking the same service twice
// is a no-op.
func (u *User) AddService(serviceID string) {
	for _, id := range u.ServiceIDs {
		if id == serviceID {
			return
		}
	}
	u.ServiceIDs = append(u.ServiceIDs, serviceID)
}

// ApplyRating folds a new review into the running average.
func (u *User) ApplyRating(rating float64) {
	u.ReviewCount++
	u.Rating = ((u.Rating * float64(u.ReviewCount-1)) + rating) / float64(u.ReviewCount)
}
