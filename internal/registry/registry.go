// Package registry holds the static city registry: the IMD station IDs for
// major Indian cities with their canonical coordinates. City-scoped queries
// resolve through it.
package registry

import "sort"

// City is one registry entry.
type City struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var cities = map[int]City{
	42182: {ID: 42182, Name: "Delhi", State: "Delhi", Latitude: 28.6139, Longitude: 77.2090},
	43003: {ID: 43003, Name: "Mumbai", State: "Maharashtra", Latitude: 19.0760, Longitude: 72.8777},
	43295: {ID: 43295, Name: "Bangalore", State: "Karnataka", Latitude: 12.9716, Longitude: 77.5946},
	43279: {ID: 43279, Name: "Chennai", State: "Tamil Nadu", Latitude: 13.0827, Longitude: 80.2707},
	42809: {ID: 42809, Name: "Kolkata", State: "West Bengal", Latitude: 22.5726, Longitude: 88.3639},
	43128: {ID: 43128, Name: "Hyderabad", State: "Telangana", Latitude: 17.3850, Longitude: 78.4867},
	43047: {ID: 43047, Name: "Pune", State: "Maharashtra", Latitude: 18.5204, Longitude: 73.8567},
	42647: {ID: 42647, Name: "Ahmedabad", State: "Gujarat", Latitude: 23.0225, Longitude: 72.5714},
	42328: {ID: 42328, Name: "Jaipur", State: "Rajasthan", Latitude: 26.9124, Longitude: 75.7873},
	42369: {ID: 42369, Name: "Lucknow", State: "Uttar Pradesh", Latitude: 26.8467, Longitude: 80.9462},
}

// List returns all cities ordered by name.
func List() []City {
	out := make([]City, 0, len(cities))
	for _, c := range cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup resolves a city ID.
func Lookup(id int) (City, bool) {
	c, ok := cities[id]
	return c, ok
}
