package documents

// Built-in template bodies, seeded into document_template by migration and
// used as parse-validation fixtures in tests. Sites can replace them through
// the template endpoints.
const (
	DefaultBurnSummaryBody = `BURN ASSESSMENT SUMMARY
Patient: {{.Patient.GivenName}} {{.Patient.FamilyName}} (MRN {{.Patient.MRN}})
Age at injury: {{.Assessment.AgeYearsAtInjury}} years
Mechanism: {{.Case.Mechanism}}
TBSA: {{printf "%.1f" .Assessment.TBSAPct}}%
Baux: {{printf "%.0f" .Assessment.Baux}}  Revised Baux: {{printf "%.0f" .Assessment.RevisedBaux}}
ABSI: {{.Assessment.ABSI.Score}} ({{.Assessment.ABSI.Band}})
Estimated caloric need: {{printf "%.0f" .Assessment.CurreriKcalDay}} kcal/day
{{- if .Assessment.FullThickness}}
Full-thickness involvement present.
{{- end}}
Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}
`

	DefaultDischargeSummaryBody = `DISCHARGE SUMMARY
Patient: {{.Patient.GivenName}} {{.Patient.FamilyName}} (MRN {{.Patient.MRN}})
Admitted following {{.Case.Mechanism}} burn, TBSA {{printf "%.1f" .Case.TBSAPct}}%.
Status at discharge: {{.Case.Status}}
Estimated caloric need: {{printf "%.0f" .Assessment.CurreriKcalDay}} kcal/day
Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}
`
)

// DefaultTemplateBody returns the built-in body for a template kind, or ""
// when the kind has no default.
func DefaultTemplateBody(kind string) string {
	switch kind {
	case KindBurnSummary:
		return DefaultBurnSummaryBody
	case KindDischargeSummary:
		return DefaultDischargeSummaryBody
	}
	return ""
}
