// Package explain produces the heuristic risk-factor explanation attached to predictions.
//
// The rules read the raw vitals only. They do not look at model output, so an explanation
// can list risk factors for a patient every model scored 0 (and the reverse).
package explain

import "github.com/Skufu/healthrisk/internal/patient"

// NormalMessage is the sole explanation when no rule fires.
const NormalMessage = "All vital parameters are within normal range"

type Rule struct {
	ID        string
	Threshold float64
	Note      string
	value     func(patient.Vitals) float64
}

// Triggered reports whether the vitals strictly exceed the rule threshold.
func (r Rule) Triggered(v patient.Vitals) bool {
	return r.value(v) > r.Threshold
}

// ruleDB is evaluated in order; output order follows it.
var ruleDB = []Rule{
	{ID: "glucose", Threshold: 140, Note: "High glucose level detected", value: func(v patient.Vitals) float64 { return v.Glucose }},
	{ID: "bmi", Threshold: 30, Note: "High BMI (obesity risk)", value: func(v patient.Vitals) float64 { return v.BMI }},
	{ID: "age", Threshold: 45, Note: "Age is a significant risk factor", value: func(v patient.Vitals) float64 { return v.Age }},
	{ID: "bloodPressure", Threshold: 90, Note: "Elevated blood pressure", value: func(v patient.Vitals) float64 { return v.BloodPressure }},
	{ID: "insulin", Threshold: 150, Note: "Abnormal insulin level", value: func(v patient.Vitals) float64 { return v.Insulin }},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(ruleDB))
	copy(out, ruleDB)
	return out
}

// Explain returns the notes of every triggered rule, or NormalMessage alone.
func Explain(v patient.Vitals) []string {
	reasons := []string{}
	for _, rule := range ruleDB {
		if rule.Triggered(v) {
			reasons = append(reasons, rule.Note)
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, NormalMessage)
	}
	return reasons
}
