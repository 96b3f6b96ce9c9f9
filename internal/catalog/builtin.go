package catalog

// builtinTargets are popular imaging targets plus a few bright alignment
// stars. Coordinates are J2000.
var builtinTargets = []Target{
	// Nebulae
	{ID: "M1", Name: "Crab Nebula", RA: 83.633, Dec: 22.015, Type: "nebula", Mag: 8.4},
	{ID: "M8", Name: "Lagoon Nebula", RA: 270.925, Dec: -24.380, Type: "nebula", Mag: 6.0},
	{ID: "M16", Name: "Eagle Nebula", RA: 274.700, Dec: -13.807, Type: "nebula", Mag: 6.0},
	{ID: "M17", Name: "Omega Nebula", RA: 275.196, Dec: -16.171, Type: "nebula", Mag: 6.0},
	{ID: "M20", Name: "Trifid Nebula", RA: 270.596, Dec: -23.030, Type: "nebula", Mag: 6.3},
	{ID: "M27", Name: "Dumbbell Nebula", RA: 299.901, Dec: 22.721, Type: "nebula", Mag: 7.5},
	{ID: "M42", Name: "Orion Nebula", RA: 83.822, Dec: -5.391, Type: "nebula", Mag: 4.0},
	{ID: "M57", Name: "Ring Nebula", RA: 283.396, Dec: 33.029, Type: "nebula", Mag: 8.8},
	{ID: "M97", Name: "Owl Nebula", RA: 168.699, Dec: 55.019, Type: "nebula", Mag: 9.9},
	{ID: "NGC7000", Name: "North America Nebula", RA: 314.750, Dec: 44.330, Type: "nebula", Mag: 4.0},
	{ID: "NGC6960", Name: "Western Veil Nebula", RA: 311.420, Dec: 30.720, Type: "nebula", Mag: 7.0},
	{ID: "NGC7293", Name: "Helix Nebula", RA: 337.411, Dec: -20.837, Type: "nebula", Mag: 7.6},
	{ID: "NGC2237", Name: "Rosette Nebula", RA: 97.983, Dec: 4.950, Type: "nebula", Mag: 9.0},
	{ID: "NGC3372", Name: "Carina Nebula", RA: 161.265, Dec: -59.867, Type: "nebula", Mag: 1.0},
	{ID: "IC1805", Name: "Heart Nebula", RA: 38.200, Dec: 61.450, Type: "nebula", Mag: 6.5},
	{ID: "IC434", Name: "Horsehead Nebula", RA: 85.245, Dec: -2.458, Type: "nebula", Mag: 6.8},

	// Galaxies
	{ID: "M31", Name: "Andromeda Galaxy", RA: 10.685, Dec: 41.269, Type: "galaxy", Mag: 3.4},
	{ID: "M33", Name: "Triangulum Galaxy", RA: 23.462, Dec: 30.660, Type: "galaxy", Mag: 5.7},
	{ID: "M51", Name: "Whirlpool Galaxy", RA: 202.470, Dec: 47.195, Type: "galaxy", Mag: 8.4},
	{ID: "M63", Name: "Sunflower Galaxy", RA: 198.955, Dec: 42.029, Type: "galaxy", Mag: 8.6},
	{ID: "M64", Name: "Black Eye Galaxy", RA: 194.182, Dec: 21.683, Type: "galaxy", Mag: 8.5},
	{ID: "M81", Name: "Bode's Galaxy", RA: 148.888, Dec: 69.065, Type: "galaxy", Mag: 6.9},
	{ID: "M82", Name: "Cigar Galaxy", RA: 148.968, Dec: 69.680, Type: "galaxy", Mag: 8.4},
	{ID: "M101", Name: "Pinwheel Galaxy", RA: 210.802, Dec: 54.349, Type: "galaxy", Mag: 7.9},
	{ID: "M104", Name: "Sombrero Galaxy", RA: 189.998, Dec: -11.623, Type: "galaxy", Mag: 8.0},
	{ID: "NGC253", Name: "Sculptor Galaxy", RA: 11.888, Dec: -25.288, Type: "galaxy", Mag: 7.1},
	{ID: "LMC", Name: "Large Magellanic Cloud", RA: 80.894, Dec: -69.756, Type: "galaxy", Mag: 0.9},

	// Clusters
	{ID: "M13", Name: "Hercules Cluster", RA: 250.423, Dec: 36.461, Type: "cluster", Mag: 5.8},
	{ID: "M44", Name: "Beehive Cluster", RA: 130.100, Dec: 19.670, Type: "cluster", Mag: 3.7},
	{ID: "M45", Name: "Pleiades", RA: 56.750, Dec: 24.117, Type: "cluster", Mag: 1.6},
	{ID: "NGC5139", Name: "Omega Centauri", RA: 201.697, Dec: -47.480, Type: "cluster", Mag: 3.9},
	{ID: "NGC104", Name: "47 Tucanae", RA: 6.024, Dec: -72.081, Type: "cluster", Mag: 4.1},

	// Alignment stars
	{ID: "SIRIUS", Name: "Sirius", RA: 101.287, Dec: -16.716, Type: "star", Mag: -1.46},
	{ID: "CANOPUS", Name: "Canopus", RA: 95.988, Dec: -52.696, Type: "star", Mag: -0.74},
	{ID: "ARCTURUS", Name: "Arcturus", RA: 213.915, Dec: 19.182, Type: "star", Mag: -0.05},
	{ID: "VEGA", Name: "Vega", RA: 279.235, Dec: 38.784, Type: "star", Mag: 0.03},
	{ID: "CAPELLA", Name: "Capella", RA: 79.172, Dec: 45.998, Type: "star", Mag: 0.08},
	{ID: "ALTAIR", Name: "Altair", RA: 297.696, Dec: 8.868, Type: "star", Mag: 0.76},
	{ID: "DENEB", Name: "Deneb", RA: 310.358, Dec: 45.280, Type: "star", Mag: 1.25},
	{ID: "POLARIS", Name: "Polaris", RA: 37.954, Dec: 89.264, Type: "star", Mag: 2.02},
}

// Builtin returns a fresh catalog of the built-in targets.
func Builtin() *Catalog {
	c, err := New(builtinTargets...)
	if err != nil {
		panic("catalog: invalid built-in target: " + err.Error())
	}
	return c
}
