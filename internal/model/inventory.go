package model

// Inventory entities managed by the referential collections.  They all share
// the same persistence contract as the grid: a keyed snapshot holding the
// item list plus a lastUpdated stamp, written through on every mutation.
// Each type implements collection.Item via ItemID/UniqueKey.

// Location is a named site (field, warehouse, office) other entities refer
// to.  A location cannot be deleted while supplies, tools or users still
// reference it.
type Location struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Area      string `json:"area,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

func (l Location) ItemID() string    { return l.ID }
func (l Location) UniqueKey() string { return l.Name }

// Activity is a scheduled or completed field task (spraying, pruning,
// scouting round).
type Activity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      int64  `json:"date"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

func (a Activity) ItemID() string    { return a.ID }
func (a Activity) UniqueKey() string { return a.Name }

// Supply is a consumable tracked by quantity, assigned to a location.
type Supply struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"unit,omitempty"`
	LocationID string `json:"locationId,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

func (s Supply) ItemID() string    { return s.ID }
func (s Supply) UniqueKey() string { return s.Name }

// Tool is a piece of equipment identified by its serial number.
type Tool struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Serial     string `json:"serial"`
	LocationID string `json:"locationId,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

func (t Tool) ItemID() string    { return t.ID }
func (t Tool) UniqueKey() string { return t.Serial }

// User is a scouting account record.  Only the bcrypt hash of the password
// is stored; issuing sessions and tokens is the identity provider's job,
// this service only manages the records.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash,omitempty"`
	LocationID   string `json:"locationId,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
}

func (u User) ItemID() string    { return u.ID }
func (u User) UniqueKey() string { return u.Email }
