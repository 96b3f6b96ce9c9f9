package astro

import (
	"math"
	"testing"
	"time"
)

// testObservers for visibility testing
var testObservers = map[string]Observer{
	"goldstone":  {LatDeg: 35.4267, LonDeg: -116.8900, Name: "Goldstone"},
	"canberra":   {LatDeg: -35.4014, LonDeg: 148.9817, Name: "Canberra"},
	"madrid":     {LatDeg: 40.4314, LonDeg: -4.2481, Name: "Madrid"},
	"north_pole": {LatDeg: 89.0, LonDeg: 0.0, Name: "North Pole"},
}

// Well-known star positions (J2000)
var testStars = map[string]struct {
	RAdeg  float64
	DecDeg float64
}{
	"vega":     {RAdeg: 279.2347, DecDeg: 38.7837},  // Alpha Lyrae
	"sirius":   {RAdeg: 101.2875, DecDeg: -16.7161}, // Alpha CMa
	"polaris":  {RAdeg: 37.9542, DecDeg: 89.2641},   // North star
	"canopus":  {RAdeg: 95.9879, DecDeg: -52.6957},  // Alpha Car
	"arcturus": {RAdeg: 213.9150, DecDeg: 19.1825},  // Alpha Boo
}

func TestCurrentElevation(t *testing.T) {
	tests := []struct {
		name     string
		observer string
		star     string
		time     time.Time
		wantMin  float64 // minimum expected elevation
		wantMax  float64 // maximum expected elevation
	}{
		{
			name:     "Vega from Goldstone - should have positive elevation at some times",
			observer: "goldstone",
			star:     "vega",
			time:     time.Date(2024, 7, 15, 4, 0, 0, 0, time.UTC), // Summer night
			wantMin:  -90,
			wantMax:  90,
		},
		{
			name:     "Polaris from North Pole - always near zenith",
			observer: "north_pole",
			star:     "polaris",
			time:     time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
			wantMin:  85,
			wantMax:  90,
		},
		{
			name:     "Canopus from Canberra - visible in southern sky",
			observer: "canberra",
			star:     "canopus",
			time:     time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), // Summer in Australia
			wantMin:  -90,
			wantMax:  90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := testObservers[tt.observer]
			star := testStars[tt.star]

			el := CurrentElevation(obs, star.RAdeg, star.DecDeg, tt.time)

			if el < tt.wantMin || el > tt.wantMax {
				t.Errorf("CurrentElevation() = %.2f°, want between %.2f° and %.2f°",
					el, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		dec  float64
		lat  float64
		want VisibilityClass
	}{
		{"polaris from mid north", 89.26, 40, Circumpolar},
		{"far south from mid north", -60, 40, NeverRisesClass},
		{"equator star", 0, 40, NormalRiseSet},
		{"boundary is not circumpolar", 50, 40, NormalRiseSet},
		{"canopus from canberra", -52.7, -35.4, Circumpolar},
		{"polaris from canberra", 89.26, -35.4, NeverRisesClass},
		{"equator observer", 89, 0, NormalRiseSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.dec, tt.lat); got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.dec, tt.lat, got, tt.want)
			}
		})
	}
}

func TestVisibility_TransitAltitude(t *testing.T) {
	now := time.Date(2024, 9, 1, 20, 0, 0, 0, time.UTC)
	for lat := -80.0; lat <= 80; lat += 20 {
		for dec := -80.0; dec <= 80; dec += 20 {
			v := CalculateTargetVisibility(120, dec, Observer{LatDeg: lat, LonDeg: 10}, DefaultMinAltitude, now)
			want := 90 - math.Abs(lat-dec)
			if math.Abs(v.TransitAltitude-want) > 1e-9 {
				t.Errorf("lat=%v dec=%v: transit altitude %v, want %v", lat, dec, v.TransitAltitude, want)
			}
		}
	}
}

func TestVisibility_Circumpolar(t *testing.T) {
	obs := testObservers["madrid"]
	now := time.Date(2024, 11, 20, 18, 0, 0, 0, time.UTC)
	star := testStars["polaris"]

	v := CalculateTargetVisibility(star.RAdeg, star.DecDeg, obs, 0, now)
	if !v.IsCircumpolar || v.NeverRises {
		t.Fatalf("flags: circumpolar=%v neverRises=%v", v.IsCircumpolar, v.NeverRises)
	}
	if v.ImagingHours != 24 {
		t.Errorf("ImagingHours = %v, want 24", v.ImagingHours)
	}
	if v.HoursAboveHorizon != 24 {
		t.Errorf("HoursAboveHorizon = %v, want 24", v.HoursAboveHorizon)
	}
	if v.Rise != nil || v.Set != nil {
		t.Error("circumpolar target should have no rise/set")
	}
	if v.Transit == nil {
		t.Error("circumpolar target still transits")
	}

	// A long November night lies entirely inside the synthetic window
	night, ok := Twilight(obs, now).Night()
	if !ok {
		t.Fatal("expected an astronomical night in Madrid in November")
	}
	if math.Abs(v.DarkHours-night.Hours()) > 1e-6 {
		t.Errorf("DarkHours = %v, want full night %v", v.DarkHours, night.Hours())
	}
}

func TestVisibility_NeverRises(t *testing.T) {
	obs := testObservers["goldstone"]
	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)

	v := CalculateTargetVisibility(95, -80, obs, 0, now)
	if !v.NeverRises || v.IsCircumpolar {
		t.Fatalf("flags: circumpolar=%v neverRises=%v", v.IsCircumpolar, v.NeverRises)
	}
	if v.ImagingHours != 0 || v.DarkHours != 0 {
		t.Errorf("hours = %v/%v, want 0/0", v.ImagingHours, v.DarkHours)
	}
	if v.Rise != nil || v.Transit != nil || v.Set != nil || v.ImagingWindow != nil || v.DarkWindow != nil {
		t.Error("never-rises target should have no times or windows")
	}
	if v.IsVisible {
		t.Error("never-rises target cannot be visible")
	}
}

func TestVisibility_RiseTransitSetOrder(t *testing.T) {
	now := time.Date(2024, 7, 15, 4, 0, 0, 0, time.UTC)

	for name, obs := range testObservers {
		for starName, star := range testStars {
			v := CalculateTargetVisibility(star.RAdeg, star.DecDeg, obs, DefaultMinAltitude, now)
			if v.Class != NormalRiseSet || v.Rise == nil || v.Set == nil {
				continue
			}
			if !v.Rise.Before(*v.Transit) || !v.Transit.Before(*v.Set) {
				t.Errorf("%s/%s: rise %v, transit %v, set %v out of order",
					name, starName, v.Rise, v.Transit, v.Set)
			}
			if v.HoursAboveHorizon <= 0 || v.HoursAboveHorizon >= 24 {
				t.Errorf("%s/%s: HoursAboveHorizon = %v", name, starName, v.HoursAboveHorizon)
			}

			// Altitude at rise and set is the horizon
			for _, ev := range []time.Time{*v.Rise, *v.Set} {
				if alt := CurrentElevation(obs, star.RAdeg, star.DecDeg, ev); math.Abs(alt) > 0.1 {
					t.Errorf("%s/%s: altitude at rise/set = %.3f°", name, starName, alt)
				}
			}
		}
	}
}

func TestVisibility_ImagingWindowEdges(t *testing.T) {
	obs := testObservers["goldstone"]
	star := testStars["vega"]
	now := time.Date(2024, 7, 15, 1, 0, 0, 0, time.UTC)

	v := CalculateTargetVisibility(star.RAdeg, star.DecDeg, obs, 40, now)
	if v.ImagingWindow == nil {
		t.Fatal("expected an imaging window for Vega from Goldstone")
	}
	for _, edge := range []time.Time{v.ImagingWindow.Start, v.ImagingWindow.End} {
		if alt := CurrentElevation(obs, star.RAdeg, star.DecDeg, edge); math.Abs(alt-40) > 0.1 {
			t.Errorf("altitude at window edge = %.3f°, want 40°", alt)
		}
	}
	mid := v.ImagingWindow.Start.Add(v.ImagingWindow.Duration() / 2)
	if alt := CurrentElevation(obs, star.RAdeg, star.DecDeg, mid); math.Abs(alt-v.TransitAltitude) > 0.1 {
		t.Errorf("altitude at window centre = %.3f°, want transit altitude %.3f°", alt, v.TransitAltitude)
	}
}

func TestVisibility_EarlierCulminationMovesTransit(t *testing.T) {
	obs := Observer{LatDeg: 40, LonDeg: 0}
	now := time.Date(2024, 1, 10, 22, 0, 0, 0, time.UTC)

	// Transited two hours before now; the next transit is after dawn.
	ra := NormalizeDegrees(LocalSiderealTime(obs.LonDeg, now) - 30)
	v := CalculateTargetVisibility(ra, 20, obs, DefaultMinAltitude, now)

	if v.ImagingWindow == nil || v.Transit == nil || v.Rise == nil || v.Set == nil {
		t.Fatalf("missing times: %+v", v)
	}
	if !v.ImagingWindow.Contains(*v.Transit) {
		t.Errorf("imaging window %v does not contain transit %v", v.ImagingWindow, v.Transit)
	}
	if !v.Transit.Before(now) {
		t.Errorf("transit %v should be the culmination earlier this evening", v.Transit)
	}
	if want := now.Add(-2 * time.Hour); v.Transit.Sub(want).Abs() > 2*time.Minute {
		t.Errorf("transit = %v, want about %v", v.Transit, want)
	}
	if !v.Rise.Before(*v.Transit) || !v.Transit.Before(*v.Set) {
		t.Errorf("rise %v, transit %v, set %v out of order", v.Rise, v.Transit, v.Set)
	}
	mid := v.ImagingWindow.Start.Add(v.ImagingWindow.Duration() / 2)
	if d := mid.Sub(*v.Transit).Abs(); d > time.Second {
		t.Errorf("window centre is %v from transit", d)
	}
	if v.DarkHours <= 0 {
		t.Error("expected dark hours after dusk")
	}
}

func TestVisibility_DarkWithinImagingAndNight(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 10, 22, 0, 0, 0, time.UTC),
		time.Date(2024, 10, 10, 9, 0, 0, 0, time.UTC),
	}

	for _, now := range dates {
		for _, obs := range testObservers {
			night, hasNight := Twilight(obs, now).Night()
			for ra := 0.0; ra < 360; ra += 45 {
				for dec := -75.0; dec <= 75; dec += 25 {
					v := CalculateTargetVisibility(ra, dec, obs, DefaultMinAltitude, now)
					if v.DarkHours > v.ImagingHours+1e-9 {
						t.Errorf("%s %v ra=%v dec=%v: dark %v > imaging %v",
							obs.Name, now, ra, dec, v.DarkHours, v.ImagingHours)
					}
					if v.ImagingHours > 24 {
						t.Errorf("imaging hours %v > 24", v.ImagingHours)
					}
					if v.DarkWindow == nil {
						if v.DarkHours != 0 {
							t.Errorf("nil dark window with %v hours", v.DarkHours)
						}
						continue
					}
					if !hasNight || v.DarkWindow.Start.Before(night.Start) || v.DarkWindow.End.After(night.End) {
						t.Errorf("%s ra=%v dec=%v: dark window %v outside night %v",
							obs.Name, ra, dec, v.DarkWindow, night)
					}
				}
			}
		}
	}
}

func TestVisibility_MinAltitudeMonotonic(t *testing.T) {
	obs := testObservers["canberra"]
	now := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)

	for _, star := range testStars {
		prev := math.Inf(1)
		for minAlt := 0.0; minAlt <= 80; minAlt += 5 {
			v := CalculateTargetVisibility(star.RAdeg, star.DecDeg, obs, minAlt, now)
			if v.ImagingHours > prev+1e-9 {
				t.Errorf("ra=%v: imaging hours rose from %v to %v at minAlt %v",
					star.RAdeg, prev, v.ImagingHours, minAlt)
			}
			prev = v.ImagingHours
		}
	}
}

func TestVisibility_IsVisible(t *testing.T) {
	obs := testObservers["north_pole"]
	star := testStars["polaris"]
	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

	v := CalculateTargetVisibility(star.RAdeg, star.DecDeg, obs, DefaultMinAltitude, now)
	if !v.IsVisible {
		t.Errorf("Polaris at %.1f° should be visible above %v°", v.CurrentAltitude, DefaultMinAltitude)
	}
	if v.CurrentAzimuth < 0 || v.CurrentAzimuth >= 360 {
		t.Errorf("azimuth out of range: %v", v.CurrentAzimuth)
	}
}

func TestVisibility_NoNightMeansNoDarkWindow(t *testing.T) {
	// Polar summer: the Sun never gets below -18°
	obs := Observer{LatDeg: 65, LonDeg: 25, Name: "Rovaniemi"}
	now := time.Date(2024, 6, 21, 22, 0, 0, 0, time.UTC)

	vega := testStars["vega"]

	v := CalculateTargetVisibility(vega.RAdeg, vega.DecDeg, obs, 20, now)
	if v.ImagingHours == 0 {
		t.Error("Vega should have an imaging window at 65°N")
	}
	if v.DarkWindow != nil || v.DarkHours != 0 {
		t.Errorf("dark window %v (%v h), want none", v.DarkWindow, v.DarkHours)
	}
}

func TestGetElevationTier(t *testing.T) {
	tests := []struct {
		elDeg float64
		want  ElevationTier
	}{
		{-10, ElevationNone},
		{0, ElevationNone},
		{5, ElevationLow},
		{14.9, ElevationLow},
		{15, ElevationMedium},
		{30, ElevationMedium},
		{44.9, ElevationMedium},
		{45, ElevationHigh},
		{70, ElevationHigh},
		{90, ElevationHigh},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := GetElevationTier(tt.elDeg)
			if got != tt.want {
				t.Errorf("GetElevationTier(%.1f) = %v, want %v", tt.elDeg, got, tt.want)
			}
		})
	}
}
