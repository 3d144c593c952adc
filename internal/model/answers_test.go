package model

import (
	"encoding/json"
	"testing"
)

func TestAnswers_UnmarshalKeepsOrderAndKinds(t *testing.T) {
	var a Answers
	raw := `{"z":"text","a":3.5,"m":true,"l":["x",2,null,false],"n":null}`
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	keys := a.Keys()
	want := []string{"z", "a", "m", "l", "n"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key order: got=%v want=%v", keys, want)
		}
	}

	if v, _ := a.Get("a"); v.Kind != AnswerNumber || v.String() != "3.5" {
		t.Fatalf("number: %+v", v)
	}
	if v, _ := a.Get("m"); v.Kind != AnswerBool || v.String() != "true" {
		t.Fatalf("bool: %+v", v)
	}
	if v, _ := a.Get("l"); v.Kind != AnswerList || v.String() != "x, 2, false" {
		t.Fatalf("list: %+v", v)
	}
	if v, _ := a.Get("n"); !v.IsBlank() {
		t.Fatalf("null should be blank: %+v", v)
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"z":"text","a":3.5,"m":true,"l":["x","2","false"],"n":null}` {
		t.Fatalf("unexpected encoding %s", out)
	}
}

func TestAnswers_RejectsObjects(t *testing.T) {
	var a Answers
	if err := json.Unmarshal([]byte(`{"q":{"nested":1}}`), &a); err == nil {
		t.Fatalf("expected error for object value")
	}
	if err := json.Unmarshal([]byte(`["q"]`), &a); err == nil {
		t.Fatalf("expected error for non-object answers")
	}
}

func TestAnswers_MergeLaterKeysWin(t *testing.T) {
	base := NewAnswers()
	base.Set("q1", StringAnswer("old"))
	base.Set("q2", NumberAnswer(1))

	update := NewAnswers()
	update.Set("q3", BoolAnswer(false))
	update.Set("q1", StringAnswer("new"))

	merged := base.Merge(update)
	keys := merged.Keys()
	if len(keys) != 3 || keys[0] != "q1" || keys[1] != "q2" || keys[2] != "q3" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if v, _ := merged.Get("q1"); v.Str != "new" {
		t.Fatalf("expected later value to win, got %q", v.Str)
	}
	if v, _ := base.Get("q1"); v.Str != "old" {
		t.Fatalf("merge must not mutate receiver")
	}
}

func TestDiagnosisResult_NormalizedOnDecode(t *testing.T) {
	s := &Submission{}
	d, err := s.DiagnosisResult()
	if err != nil || d != nil {
		t.Fatalf("expected no diagnosis, got %+v err=%v", d, err)
	}

	s.Diagnosis = []byte(`{"summary":"s"}`)
	d, err = s.DiagnosisResult()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Strengths == nil || d.PillarRecommendations == nil || d.FollowupWorksheets.Pillars == nil {
		t.Fatalf("expected empty lists, got %+v", d)
	}
}
