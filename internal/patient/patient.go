// Package patient holds the request record and its mapping onto the model feature layout.
package patient

// PatientData is the validated input of a prediction request. Pointer fields let the
// binder tell a missing value apart from a legitimate zero.
type PatientData struct {
	Name          string   `json:"name"`
	Pregnancies   *float64 `json:"pregnancies" binding:"required"`
	Glucose       *float64 `json:"glucose" binding:"required"`
	BloodPressure *float64 `json:"bloodPressure" binding:"required"`
	SkinThickness *float64 `json:"skinThickness" binding:"required"`
	Insulin       *float64 `json:"insulin" binding:"required"`
	BMI           *float64 `json:"bmi" binding:"required"`
	DPF           *float64 `json:"dpf" binding:"required"`
	Age           *float64 `json:"age" binding:"required"`
}

// Vitals is PatientData after binding, with every field known to be present.
type Vitals struct {
	Pregnancies   float64
	Glucose       float64
	BloodPressure float64
	SkinThickness float64
	Insulin       float64
	BMI           float64
	DPF           float64
	Age           float64
}

// FeatureCount is the width of every model input row.
const FeatureCount = 8

// FeatureVector is one model input row in training-time column order.
type FeatureVector [FeatureCount]float64

// Columns are the training-time column names, index-aligned with FeatureVector.
var Columns = [FeatureCount]string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DPF",
	"Age",
}

// Vitals dereferences the bound fields. Callers must only use it after binding succeeded;
// a nil field reads as zero.
func (p PatientData) Vitals() Vitals {
	return Vitals{
		Pregnancies:   deref(p.Pregnancies),
		Glucose:       deref(p.Glucose),
		BloodPressure: deref(p.BloodPressure),
		SkinThickness: deref(p.SkinThickness),
		Insulin:       deref(p.Insulin),
		BMI:           deref(p.BMI),
		DPF:           deref(p.DPF),
		Age:           deref(p.Age),
	}
}

// MapFeatures copies the vitals into model column order without scaling or imputation.
func MapFeatures(v Vitals) FeatureVector {
	return FeatureVector{
		v.Pregnancies,
		v.Glucose,
		v.BloodPressure,
		v.SkinThickness,
		v.Insulin,
		v.BMI,
		v.DPF,
		v.Age,
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
