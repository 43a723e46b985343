package model

// SymptomAssessmentData is the aggregate record emitted on every change to
// the symptom selection or the answer map. Red flags are clinician-facing
// only; callers building patient-facing responses must strip them.
type SymptomAssessmentData struct {
	PrimarySymptom   string    `json:"primary_symptom"`
	SelectedSymptoms []string  `json:"selected_symptoms"`
	FollowUpAnswers  AnswerMap `json:"follow_up_answers"`
	PainScore        float64   `json:"pain_score"`
	RedFlags         []string  `json:"red_flags,omitempty"`
}

// PatientView returns a copy with the clinician-only fields removed.
func (d SymptomAssessmentData) PatientView() SymptomAssessmentData {
	out := d
	out.RedFlags = nil
	return out
}
