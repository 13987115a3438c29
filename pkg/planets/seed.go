package planets

// seed is the built-in catalog in order from the sun.
var seed = [...]Planet{
	{Name: "Mercury", Radius: 2439.7, DistanceToSun: 57.9},
	{Name: "Venus", Radius: 6051.8, DistanceToSun: 108.2},
	{Name: "Earth", Radius: 6371, DistanceToSun: 149.6},
	{Name: "Mars", Radius: 3389.5, DistanceToSun: 227.9},
	{Name: "Jupiter", Radius: 69911, DistanceToSun: 778.6},
	{Name: "Saturn", Radius: 58232, DistanceToSun: 1433.5},
	{Name: "Uranus", Radius: 25362, DistanceToSun: 2872.5},
	{Name: "Neptune", Radius: 24622, DistanceToSun: 4495.1},
}

// Seed returns a fresh copy of the eight built-in planets, Mercury through
// Neptune.
func Seed() []Planet {
	out := make([]Planet, len(seed))
	copy(out, seed[:])
	return out
}
