package astro

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// UnitVector returns the unit vector for spherical coordinates in degrees
// (longitude/RA, latitude/Dec).
func UnitVector(lonDeg, latDeg float64) Vec3 {
	lon := DegToRad(lonDeg)
	lat := DegToRad(latDeg)
	return Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// Spherical returns the longitude [0, 360) and latitude [-90, 90] of v in degrees.
func (v Vec3) Spherical() (lonDeg, latDeg float64) {
	r := v.Norm()
	if r == 0 {
		return 0, 0
	}
	lonDeg = NormalizeDegrees(RadToDeg(math.Atan2(v.Y, v.X)))
	latDeg = RadToDeg(math.Asin(clampUnit(v.Z / r)))
	return lonDeg, latDeg
}

// EclipticToEquatorial rotates an ecliptic vector into the equatorial frame
// for the given obliquity in degrees.
func EclipticToEquatorial(ecl Vec3, obliquityDeg float64) Vec3 {
	cosE := math.Cos(DegToRad(obliquityDeg))
	sinE := math.Sin(DegToRad(obliquityDeg))

	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// EquatorialToEcliptic rotates an equatorial vector into the ecliptic frame.
func EquatorialToEcliptic(eq Vec3, obliquityDeg float64) Vec3 {
	cosE := math.Cos(DegToRad(obliquityDeg))
	sinE := math.Sin(DegToRad(obliquityDeg))

	return Vec3{
		X: eq.X,
		Y: eq.Y*cosE + eq.Z*sinE,
		Z: -eq.Y*sinE + eq.Z*cosE,
	}
}

// eqToGal rotates J2000 equatorial vectors into the IAU galactic frame.
var eqToGal = mat.NewDense(3, 3, []float64{
	-0.0548755604162154, -0.8734370902348850, -0.4838350155487132,
	+0.4941094278755837, -0.4448296299600112, +0.7469822444972189,
	-0.8676661490190047, -0.1980763734312015, +0.4559837761750669,
})

func rotate(m mat.Matrix, v Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return Vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// EquatorialToGalactic converts J2000 RA/Dec to galactic longitude and
// latitude, all in degrees.
func EquatorialToGalactic(raDeg, decDeg float64) (lDeg, bDeg float64) {
	return rotate(eqToGal, UnitVector(raDeg, decDeg)).Spherical()
}

// GalacticToEquatorial is the inverse of EquatorialToGalactic.
func GalacticToEquatorial(lDeg, bDeg float64) (raDeg, decDeg float64) {
	return rotate(eqToGal.T(), UnitVector(lDeg, bDeg)).Spherical()
}
