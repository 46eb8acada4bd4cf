package ui

import (
	"testing"

	"trainingdocs/internal/domain"
)

func TestParticipantRows(t *testing.T) {
	p := domain.Project{Participants: []domain.Participant{
		{FullName: "Jan Kowalski", BirthDate: "01.02.1980 r.", BirthPlace: "Kraków", Email: domain.StrPtr("jan@example.com"), SerialID: domain.StrPtr("7/2025/1")},
		{FullName: "Anna Nowak", Email: domain.StrPtr("  ")},
	}}
	rows := participantRows(p)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if len(rows[0]) != len(participantColumns) {
		t.Fatalf("columns = %d, want %d", len(rows[0]), len(participantColumns))
	}
	if rows[0][0] != "1" || rows[0][4] != "jan@example.com" || rows[0][5] != "7/2025/1" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1][4] != "" || rows[1][5] != "" {
		t.Fatalf("blank email and serial expected: %v", rows[1])
	}
}

func TestApplyTrainingForm_KeepsUnknownKeys(t *testing.T) {
	tr := domain.Training{"extra": "x", domain.KeyName: "old"}
	out := applyTrainingForm(tr, map[string]string{domain.KeyName: "BHP", domain.KeyPlace: ""})
	if out["extra"] != "x" || out[domain.KeyName] != "BHP" {
		t.Fatalf("unexpected training: %v", out)
	}
	if v, ok := out[domain.KeyPlace]; !ok || v != "" {
		t.Fatalf("empty value should be stored as present: %v", out)
	}
	if _, ok := out[domain.KeyTrainer]; ok {
		t.Fatal("keys not in the form values must stay absent")
	}
}

func TestApplyTrainingForm_NilTraining(t *testing.T) {
	out := applyTrainingForm(nil, map[string]string{domain.KeyNumber: "3/2025"})
	if out.Get(domain.KeyNumber) != "3/2025" {
		t.Fatalf("got %v", out)
	}
}

func TestFormValue(t *testing.T) {
	tr := domain.Training{domain.KeyName: "BHP"}
	if formValue(tr, domain.KeyName) != "BHP" || formValue(tr, domain.KeyPlace) != "" {
		t.Fatal("unexpected form values")
	}
}

func TestWindowTitle(t *testing.T) {
	if got := windowTitle("", false); got != "Dokumentacja szkoleń" {
		t.Fatalf("got %q", got)
	}
	if got := windowTitle("/tmp/szkolenia/bhp", true); got != "Dokumentacja szkoleń - bhp *" {
		t.Fatalf("got %q", got)
	}
}

func TestTrainingFieldsCoverKeys(t *testing.T) {
	if len(trainingFields) != len(domain.TrainingKeys) {
		t.Fatalf("form has %d fields, record has %d keys", len(trainingFields), len(domain.TrainingKeys))
	}
	for i, f := range trainingFields {
		if f.Key != domain.TrainingKeys[i] {
			t.Fatalf("field %d = %s, want %s", i, f.Key, domain.TrainingKeys[i])
		}
	}
}
