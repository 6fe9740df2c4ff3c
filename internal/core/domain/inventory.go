package domain

// UserStatus enumerates directory account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User mirrors a directory record served by the upstream fleet API.
type User struct {
	ID         string
	Name       string
	Email      string
	Department string
	Status     UserStatus
}

// PhoneStatus enumerates device inventory states.
type PhoneStatus string

const (
	PhoneStatusAvailable   PhoneStatus = "AVAILABLE"
	PhoneStatusAssigned    PhoneStatus = "ASSIGNED"
	PhoneStatusMaintenance PhoneStatus = "MAINTENANCE"
	PhoneStatusLost        PhoneStatus = "LOST"
)

// Phone mirrors a device inventory record. AssignedToID is a back-reference
// maintained by the upstream, not an ownership claim; it can disagree with the
// attribution table and both signals must be consulted.
type Phone struct {
	ID           string
	Brand        string
	Model        string
	SerialNumber string
	IMEI         string
	Color        string
	Storage      string
	Condition    string
	Status       PhoneStatus
	AssignedToID *string
}

// Label renders the short human-readable identity used in assignment views.
func (p Phone) Label() string {
	if p.Brand == "" {
		return p.Model
	}
	if p.Model == "" {
		return p.Brand
	}
	return p.Brand + " " + p.Model
}

// SimStatus enumerates SIM inventory states.
type SimStatus string

const (
	SimStatusAvailable SimStatus = "AVAILABLE"
	SimStatusAssigned  SimStatus = "ASSIGNED"
	SimStatusLost      SimStatus = "LOST"
	SimStatusBlocked   SimStatus = "BLOCKED"
)

// SimCard mirrors a SIM inventory record. AssignedToID carries the same
// caveat as Phone.AssignedToID.
type SimCard struct {
	ID           string
	Number       string
	Carrier      string
	Plan         string
	ICCID        string
	Status       SimStatus
	AssignedToID *string
}

// Label renders the SIM identity shown in assignment views.
func (s SimCard) Label() string {
	return s.Number
}
