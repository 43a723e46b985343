package catalog

import "github.com/jwalitptl/triage-api/pkg/logger"

var painScale = SliderRange{Min: 0, Max: 10, Step: 1}

// Definitions is the built-in symptom knowledge base: category names,
// search aliases and per-category follow-up questionnaires.
func Definitions() []Category {
	return []Category{
		{
			Name:         "Chest pain",
			Aliases:      []string{"chest tightness", "heart pain", "chest pressure", "angina"},
			InvolvesPain: true,
			FollowUps: []FollowUp{
				{ID: "chest_pain_score", Label: "Pain intensity", Type: FieldSlider, Range: painScale, IsPainScale: true},
				{ID: "chest_type", Label: "Type of pain", Type: FieldChoice, Options: []string{"Pressure", "Sharp", "Burning", "Tightness", "Aching"}},
				{ID: "chest_radiation", Label: "Does pain radiate to?", Type: FieldMulti, Options: []string{"Left arm", "Right arm", "Jaw", "Back", "Neck", "None"}},
				{ID: "chest_breathing", Label: "Worse with breathing?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "chest_onset", Label: "Onset", Type: FieldChoice, Options: []string{"Sudden", "Gradual", "Intermittent"}},
			},
		},
		{
			Name:         "Headache",
			Aliases:      []string{"migraine", "head pain", "head pressure"},
			InvolvesPain: true,
			FollowUps: []FollowUp{
				{ID: "headache_pain_score", Label: "Pain intensity", Type: FieldSlider, Range: painScale, IsPainScale: true},
				{ID: "headache_onset", Label: "Onset type", Type: FieldChoice, Options: []string{"Sudden (thunderclap)", "Gradual", "Chronic / recurring"}},
				{ID: "headache_worst", Label: "Worst headache of your life?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "headache_visual", Label: "Visual changes?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "headache_nausea", Label: "Nausea or vomiting?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "headache_stiff_neck", Label: "Stiff neck?", Type: FieldChoice, Options: []string{"Yes", "No"}},
			},
		},
		{
			Name:         "Shortness of breath",
			Aliases:      []string{"difficulty breathing", "dyspnea", "can't breathe", "breathless", "sob"},
			InvolvesPain: false,
			FollowUps: []FollowUp{
				{ID: "sob_severity", Label: "Severity", Type: FieldChoice, Options: []string{"Mild", "Moderate", "Severe"}},
				{ID: "sob_trigger", Label: "When does it occur?", Type: FieldChoice, Options: []string{"At rest", "With exertion", "Both"}},
				{ID: "sob_history", Label: "History of asthma/COPD?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "sob_chest_tight", Label: "Chest tightness?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "sob_chest_pain_score", Label: "Chest pain intensity", Type: FieldSlider, Range: painScale, IsPainScale: true,
					ShowWhen: &ShowWhen{Key: "sob_chest_tight", Values: []string{"Yes"}}},
				{ID: "sob_onset", Label: "How quickly did it start?", Type: FieldChoice, Options: []string{"Suddenly", "Over hours", "Over days"}},
			},
		},
		{
			Name:         "Fever",
			Aliases:      []string{"high temperature", "feel hot", "chills", "feverish"},
			InvolvesPain: false,
			FollowUps: []FollowUp{
				{ID: "fever_temp", Label: "Measured temperature (°C)", Type: FieldText},
				{ID: "fever_duration", Label: "How long?", Type: FieldChoice, Options: []string{"< 24 hours", "1–3 days", "3–7 days", "> 1 week"}},
				{ID: "fever_chills", Label: "Chills or rigors?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "fever_exposure", Label: "Recent infection exposure?", Type: FieldChoice, Options: []string{"Yes", "No", "Not sure"}},
				{ID: "fever_rash", Label: "Associated rash?", Type: FieldChoice, Options: []string{"Yes", "No"}},
			},
		},
		{
			Name:         "Abdominal pain",
			Aliases:      []string{"stomach pain", "belly pain", "stomach ache", "cramps", "abdominal cramps"},
			InvolvesPain: true,
			FollowUps: []FollowUp{
				{ID: "abdominal_pain_score", Label: "Pain intensity", Type: FieldSlider, Range: painScale, IsPainScale: true},
				{ID: "abdominal_location", Label: "Location", Type: FieldChoice, Options: []string{"Upper right", "Upper left", "Lower right", "Lower left", "Diffuse / all over", "Around navel"}},
				{ID: "abdominal_type", Label: "Type", Type: FieldChoice, Options: []string{"Cramping", "Sharp", "Burning", "Dull / aching"}},
				{ID: "abdominal_nausea", Label: "Nausea or vomiting?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "abdominal_bowel", Label: "Changes in bowel movements?", Type: FieldChoice, Options: []string{"Diarrhea", "Constipation", "Blood in stool", "Normal"}},
			},
		},
		{
			Name:         "Dizziness",
			Aliases:      []string{"vertigo", "lightheaded", "faint", "feeling faint", "room spinning"},
			InvolvesPain: false,
			FollowUps: []FollowUp{
				{ID: "dizzy_type", Label: "What does it feel like?", Type: FieldChoice, Options: []string{"Room spinning (vertigo)", "Lightheaded / faint", "Off balance", "Foggy"}},
				{ID: "dizzy_position", Label: "Related to position changes?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "dizzy_hearing", Label: "Hearing loss or ringing?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "dizzy_fainted", Label: "Did you faint / lose consciousness?", Type: FieldChoice, Options: []string{"Yes", "No"}},
			},
		},
		{
			Name:         "Numbness",
			Aliases:      []string{"tingling", "pins and needles", "weakness", "can't feel"},
			InvolvesPain: false,
			FollowUps: []FollowUp{
				{ID: "numb_location", Label: "Where?", Type: FieldMulti, Options: []string{"Face", "Left arm", "Right arm", "Left leg", "Right leg", "Both sides"}},
				{ID: "numb_onset", Label: "Onset", Type: FieldChoice, Options: []string{"Sudden (minutes)", "Gradual (hours)", "Days / weeks"}},
				{ID: "numb_speech", Label: "Difficulty speaking or slurred speech?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "numb_vision", Label: "Vision changes?", Type: FieldChoice, Options: []string{"Yes", "No"}},
			},
		},
		{
			Name:         "Trauma",
			Aliases:      []string{"injury", "fall", "accident", "hurt", "wound", "cut", "fracture", "broken"},
			InvolvesPain: true,
			FollowUps: []FollowUp{
				{ID: "trauma_pain_score", Label: "Pain intensity", Type: FieldSlider, Range: painScale, IsPainScale: true},
				{ID: "trauma_mechanism", Label: "How did it happen?", Type: FieldChoice, Options: []string{"Fall", "Motor vehicle accident", "Assault", "Sports injury", "Other"}},
				{ID: "trauma_location", Label: "Body area affected", Type: FieldMulti, Options: []string{"Head", "Neck / spine", "Chest", "Abdomen", "Arm / hand", "Leg / foot"}},
				{ID: "trauma_bleeding", Label: "Active bleeding?", Type: FieldChoice, Options: []string{"Yes, severe", "Yes, minor", "No"}},
				{ID: "trauma_consciousness", Label: "Lost consciousness?", Type: FieldChoice, Options: []string{"Yes", "No"}},
			},
		},
		{
			Name:         "Vomiting",
			Aliases:      []string{"throwing up", "nausea", "feeling sick", "emesis"},
			InvolvesPain: false,
			FollowUps: []FollowUp{
				{ID: "vomit_frequency", Label: "How often?", Type: FieldChoice, Options: []string{"Once", "Several times", "Can't keep anything down"}},
				{ID: "vomit_blood", Label: "Blood in vomit?", Type: FieldChoice, Options: []string{"Yes", "No"}},
				{ID: "vomit_duration", Label: "How long?", Type: FieldChoice, Options: []string{"< 6 hours", "6–24 hours", "> 24 hours"}},
				{ID: "vomit_diarrhea", Label: "Diarrhea as well?", Type: FieldChoice, Options: []string{"Yes", "No"}},
			},
		},
		{
			Name:         "Pain",
			Aliases:      []string{"ache", "soreness", "hurting", "pain", "sore", "general pain"},
			InvolvesPain: true,
			FollowUps: []FollowUp{
				{ID: "pain_score", Label: "Pain intensity", Type: FieldSlider, Range: painScale, IsPainScale: true},
				{ID: "pain_location", Label: "Where is the pain?", Type: FieldText},
				{ID: "pain_type", Label: "Type of pain", Type: FieldChoice, Options: []string{"Sharp", "Dull / aching", "Burning", "Throbbing", "Cramping"}},
				{ID: "pain_onset", Label: "When did it start?", Type: FieldChoice, Options: []string{"Today", "1–3 days ago", "This week", "> 1 week"}},
				{ID: "pain_constant", Label: "Is it constant or intermittent?", Type: FieldChoice, Options: []string{"Constant", "Comes and goes"}},
			},
		},
	}
}

// Default builds the catalog from the built-in definitions.
func Default(log *logger.Logger) (*Catalog, error) {
	return New(Definitions(), log)
}
