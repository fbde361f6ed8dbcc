package profile

import "testing"

func TestNew_BuiltinTemplate(t *testing.T) {
	p := New("electricista", Options{Locale: "Lanús", RadiusKm: 15})

	if p.Title != "Electricista de Mantenimiento Industrial" {
		t.Errorf("unexpected title: %s", p.Title)
	}
	if p.ExperienceField != "experiencia_electricista_confirmada" {
		t.Errorf("unexpected experience field: %s", p.ExperienceField)
	}
	if p.Locale != "Lanús" || p.RadiusKm != 15 {
		t.Errorf("locale/radius not applied: %s/%d", p.Locale, p.RadiusKm)
	}
	if p.ScoreCriteria != DefaultScoreCriteria {
		t.Error("expected default score criteria")
	}
}

func TestNew_UnknownSpecialtyFallsBackToCustom(t *testing.T) {
	p := New("astronauta", Options{})
	if p.ExperienceField != "experiencia_confirmada" {
		t.Errorf("expected generic experience field, got %s", p.ExperienceField)
	}
	if p.RadiusKm != 10 {
		t.Errorf("expected default radius 10, got %d", p.RadiusKm)
	}
}

func TestNew_CustomOverrides(t *testing.T) {
	p := New("personalizado", Options{
		Overrides: map[string]string{
			"titulo":            "Operario CNC",
			"experiencia_campo": "experiencia_cnc_confirmada",
			"rango_edad":        "20-55",
		},
	})

	if p.Title != "Operario CNC" {
		t.Errorf("title override not applied: %s", p.Title)
	}
	if p.ExperienceField != "experiencia_cnc_confirmada" {
		t.Errorf("experience field override not applied: %s", p.ExperienceField)
	}
	if p.AgeRange != "20-55" {
		t.Errorf("age range override not applied: %s", p.AgeRange)
	}
}

func TestNew_OverridesIgnoredForBuiltin(t *testing.T) {
	p := New("mecanico", Options{
		Overrides: map[string]string{"titulo": "Otro"},
	})
	if p.Title != "Mecánico Industrial" {
		t.Errorf("builtin template must not be overridden, got %s", p.Title)
	}
}

func TestSpecialties(t *testing.T) {
	got := Specialties()
	if len(got) != 4 {
		t.Fatalf("expected 4 specialties, got %d", len(got))
	}
	for _, s := range got {
		if s == "personalizado" {
			t.Error("custom specialty must not be listed")
		}
	}
}
