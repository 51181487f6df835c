package domain

// Rocket is a single catalog record as served by the remote endpoint
type Rocket struct {
	Name        string   `json:"rocket_name"`
	Description string   `json:"description"`
	Images      []string `json:"flickr_images"`
}

// Image returns the first image reference, or "" when the record has none
func (r Rocket) Image() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}

// ResultSet is the filtered catalog for one dispatched query.
// It is replaced wholesale on every settle, never merged.
type ResultSet struct {
	Seq     uint64 // dispatch sequence of the query that produced it (0 = nothing settled yet)
	Query   string
	Rockets []Rocket
}

// Empty reports whether there is nothing to show
func (rs ResultSet) Empty() bool {
	return len(rs.Rockets) == 0
}
