package burnscore

import (
	"time"
)

// AlertSeverity grades alert urgency.
type AlertSeverity string

const (
	SeverityAdvisory AlertSeverity = "advisory"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert codes raised by EvaluateVitals.
const (
	AlertTachycardia       = "sustained-tachycardia"
	AlertHypotension       = "hypotension"
	AlertHypoxia           = "hypoxia"
	AlertFever             = "fever"
	AlertHypothermia       = "hypothermia"
	AlertOliguria          = "oliguria"
	AlertOverResuscitation = "over-resuscitation"
)

// VitalsSample is one time-stamped observation set. UrineOutputML is the
// volume collected over IntervalHours ending at Time; a zero interval skips
// urine evaluation for that sample.
type VitalsSample struct {
	Time          time.Time `json:"time"`
	HeartRate     int       `json:"heart_rate"`
	SystolicBP    int       `json:"systolic_bp"`
	DiastolicBP   int       `json:"diastolic_bp"`
	SpO2          int       `json:"spo2"`
	TempC         float64   `json:"temp_c"`
	UrineOutputML float64   `json:"urine_output_ml"`
	IntervalHours float64   `json:"interval_hours"`
}

// MAP returns the mean arterial pressure derived from systolic and diastolic.
func (s VitalsSample) MAP() float64 {
	return (float64(s.SystolicBP) + 2*float64(s.DiastolicBP)) / 3
}

// Alert is one threshold breach found in a vitals series.
type Alert struct {
	Code     string        `json:"code"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
	At       time.Time     `json:"at"`
}

// Clinical thresholds for burn-unit monitoring.
const (
	tachycardiaBPM       = 130 // burn patients run 100-120; sustained above this is abnormal
	hypotensionMAP       = 65.0
	hypoxiaWarnSpO2      = 92
	hypoxiaCritSpO2      = 88
	feverC               = 39.0
	hypothermiaWarnC     = 36.0
	hypothermiaCritC     = 35.0
	adultUrineMLKgHr     = 0.5
	pediatricUrineMLKgHr = 1.0
)

// EvaluateVitals scans a vitals series in time order and returns threshold
// alerts. "Sustained" findings (tachycardia, oliguria escalation) require two
// consecutive qualifying samples. Samples with zero heart rate or blood
// pressure are treated as not recorded for that channel.
func EvaluateVitals(samples []VitalsSample, weightKg float64, ageYears int) []Alert {
	var alerts []Alert

	urineTarget := adultUrineMLKgHr
	if ageYears < PediatricAgeCutoff {
		urineTarget = pediatricUrineMLKgHr
	}

	prevTachy := false
	prevOliguric := false
	for _, s := range samples {
		if s.HeartRate > 0 {
			tachy := s.HeartRate > tachycardiaBPM
			if tachy && prevTachy {
				alerts = append(alerts, Alert{
					Code:     AlertTachycardia,
					Severity: SeverityWarning,
					Message:  "heart rate above 130 bpm on consecutive observations",
					At:       s.Time,
				})
			}
			prevTachy = tachy
		}

		if s.SystolicBP > 0 && s.DiastolicBP > 0 && s.MAP() < hypotensionMAP {
			alerts = append(alerts, Alert{
				Code:     AlertHypotension,
				Severity: SeverityCritical,
				Message:  "mean arterial pressure below 65 mmHg",
				At:       s.Time,
			})
		}

		if s.SpO2 > 0 {
			switch {
			case s.SpO2 < hypoxiaCritSpO2:
				alerts = append(alerts, Alert{
					Code:     AlertHypoxia,
					Severity: SeverityCritical,
					Message:  "SpO2 below 88%",
					At:       s.Time,
				})
			case s.SpO2 < hypoxiaWarnSpO2:
				alerts = append(alerts, Alert{
					Code:     AlertHypoxia,
					Severity: SeverityWarning,
					Message:  "SpO2 below 92%",
					At:       s.Time,
				})
			}
		}

		if s.TempC > 0 {
			switch {
			case s.TempC >= feverC:
				alerts = append(alerts, Alert{
					Code:     AlertFever,
					Severity: SeverityWarning,
					Message:  "temperature at or above 39.0 C",
					At:       s.Time,
				})
			case s.TempC < hypothermiaCritC:
				alerts = append(alerts, Alert{
					Code:     AlertHypothermia,
					Severity: SeverityCritical,
					Message:  "temperature below 35.0 C",
					At:       s.Time,
				})
			case s.TempC < hypothermiaWarnC:
				alerts = append(alerts, Alert{
					Code:     AlertHypothermia,
					Severity: SeverityWarning,
					Message:  "temperature below 36.0 C",
					At:       s.Time,
				})
			}
		}

		if s.IntervalHours > 0 && weightKg > 0 {
			rate := s.UrineOutputML / s.IntervalHours / weightKg
			oliguric := rate < urineTarget
			switch {
			case oliguric && prevOliguric:
				alerts = append(alerts, Alert{
					Code:     AlertOliguria,
					Severity: SeverityCritical,
					Message:  "urine output below target on consecutive observations",
					At:       s.Time,
				})
			case oliguric:
				alerts = append(alerts, Alert{
					Code:     AlertOliguria,
					Severity: SeverityWarning,
					Message:  "urine output below target",
					At:       s.Time,
				})
			case rate > 2*urineTarget:
				alerts = append(alerts, Alert{
					Code:     AlertOverResuscitation,
					Severity: SeverityAdvisory,
					Message:  "urine output more than twice target; review fluid rate",
					At:       s.Time,
				})
			}
			prevOliguric = oliguric
		}
	}

	return alerts
}
