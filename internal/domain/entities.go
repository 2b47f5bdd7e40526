package domain

// Place is a saved geo note. Latitude and Longitude are either both set or
// both nil; a place without coordinates is never location-filterable.
type Place struct {
	ID        int64    `db:"id"`
	UserID    int64    `db:"user_id"`
	Title     string   `db:"title"`
	Photo     []byte   `db:"photo"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

// HasLocation reports whether both coordinates are present.
func (p Place) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// PlaceRef is a lightweight (title, id) projection used to build selection lists.
type PlaceRef struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
}

// PlaceDraft accumulates add-place input across conversation steps.
// It is never persisted until the final confirmation succeeds.
type PlaceDraft struct {
	UserID    int64
	UserName  string
	Title     string
	Photo     []byte
	Latitude  *float64
	Longitude *float64
}

// UserSettings holds per-user tunables.
type UserSettings struct {
	UserID              int64   `db:"user_id"`
	ListSize            int     `db:"list_size"`
	Radius              float64 `db:"radius"`
	FriendPlacesVisible bool    `db:"friend_place_visible"`
}

// Friend is a directed edge entry with the friend's display name resolved.
type Friend struct {
	ID   int64  `db:"friend_id"`
	Name string `db:"user_name"`
}
