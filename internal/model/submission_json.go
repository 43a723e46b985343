package model

import "encoding/json"

// MarshalJSONFields serializes the structured fields into their JSON
// column mirrors before a database write.
func (s *TriageSubmission) MarshalJSONFields() error {
	var err error
	if s.MedicalHistoryJSON, err = marshalList(s.MedicalHistory); err != nil {
		return err
	}
	if s.RedFlagsJSON, err = marshalList(s.RedFlags); err != nil {
		return err
	}
	if s.RiskSignalsJSON, err = marshalList(s.RiskSignals); err != nil {
		return err
	}
	if s.MissingQsJSON, err = marshalList(s.MissingQuestions); err != nil {
		return err
	}
	if s.TriggeredByJSON, err = marshalList(s.TriggeredBy); err != nil {
		return err
	}
	if s.Vitals != nil {
		data, err := json.Marshal(s.Vitals)
		if err != nil {
			return err
		}
		s.VitalsJSON = string(data)
	}
	if s.Assessment != nil {
		data, err := json.Marshal(s.Assessment)
		if err != nil {
			return err
		}
		s.AssessmentJSON = string(data)
	}
	return nil
}

// UnmarshalJSONFields restores the structured fields from their JSON
// column mirrors after a database read.
func (s *TriageSubmission) UnmarshalJSONFields() error {
	var err error
	if s.MedicalHistory, err = unmarshalList(s.MedicalHistoryJSON); err != nil {
		return err
	}
	if s.RedFlags, err = unmarshalList(s.RedFlagsJSON); err != nil {
		return err
	}
	if s.RiskSignals, err = unmarshalList(s.RiskSignalsJSON); err != nil {
		return err
	}
	if s.MissingQuestions, err = unmarshalList(s.MissingQsJSON); err != nil {
		return err
	}
	if s.TriggeredBy, err = unmarshalList(s.TriggeredByJSON); err != nil {
		return err
	}
	if s.VitalsJSON != "" {
		var v VitalSigns
		if err := json.Unmarshal([]byte(s.VitalsJSON), &v); err != nil {
			return err
		}
		s.Vitals = &v
	}
	if s.AssessmentJSON != "" {
		var a SymptomAssessmentData
		if err := json.Unmarshal([]byte(s.AssessmentJSON), &a); err != nil {
			return err
		}
		s.Assessment = &a
	}
	return nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		return "[]", nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}
