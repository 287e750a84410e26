package profile

import (
	"strings"
	"testing"
)

func TestGet_AllNamedProfiles(t *testing.T) {
	names := []string{Baseline, BeginnerZeroShot, StrictFormat}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q): %v", name, err)
			}
			if p.Name != name {
				t.Errorf("expected name %q, got %q", name, p.Name)
			}
		})
	}
}

func TestGet_EmptyNameReturnsBaseline(t *testing.T) {
	p, err := Get("")
	if err != nil {
		t.Fatalf("Get(''): %v", err)
	}
	if p.Name != Baseline {
		t.Errorf("expected baseline, got %q", p.Name)
	}
}

func TestGet_UnknownName(t *testing.T) {
	if _, err := Get("nonexistent-policy"); err == nil {
		t.Error("expected error for unknown policy, got nil")
	}
}

func TestForPersona(t *testing.T) {
	cases := []struct {
		persona, mode, want string
	}{
		{"beginner", "", BeginnerZeroShot},
		{" Beginner ", "", BeginnerZeroShot},
		{"experienced", "", Baseline},
		{"major", "", Baseline},
		{"beginner", StrictFormat, StrictFormat},
	}
	for _, c := range cases {
		p, err := ForPersona(c.persona, c.mode)
		if err != nil {
			t.Fatalf("ForPersona(%q,%q): %v", c.persona, c.mode, err)
		}
		if p.Name != c.want {
			t.Errorf("ForPersona(%q,%q) = %q, want %q", c.persona, c.mode, p.Name, c.want)
		}
	}
}

func TestRewritePositive(t *testing.T) {
	out, changed := RewritePositive("Do not simply paraphrase the user vibe.")
	if !changed {
		t.Fatal("expected rewrite")
	}
	if out != "Translate the user vibe into concrete implementation steps instead of paraphrasing it." {
		t.Errorf("unexpected rewrite: %q", out)
	}
	if _, changed := RewritePositive("Keep it short."); changed {
		t.Error("unrelated line should not change")
	}
}

func TestBeginnerRewriteCount(t *testing.T) {
	p, _ := Get(BeginnerZeroShot)
	if p.RewriteCount != 2 {
		t.Errorf("expected 2 rewrites, got %d", p.RewriteCount)
	}
	for _, c := range p.Constraints {
		if strings.HasPrefix(c, "Do not") {
			t.Errorf("constraint still negative: %q", c)
		}
	}
	b, _ := Get(Baseline)
	if b.RewriteCount != 0 {
		t.Errorf("baseline should not rewrite, got %d", b.RewriteCount)
	}
}

func TestSections_Order(t *testing.T) {
	in := SectionInput{SystemPrompt: "sys", SchemaHint: "{}", Vibe: "a cafe app", ShowThinking: true}

	p, _ := Get(Baseline)
	got := p.Sections(in)
	if len(got) != 6 {
		t.Fatalf("expected 6 sections, got %d", len(got))
	}
	for i, id := range defaultSectionOrder {
		if got[i].ID != id {
			t.Errorf("section %d: expected %q, got %q", i, id, got[i].ID)
		}
	}
	if got[1].Content != "- Return JSON only, preserve the fixed schema, and keep the output concrete." {
		t.Errorf("baseline constraints should use the fallback bullet: %q", got[1].Content)
	}
	if got[4].Content != "- showThinking=ON." {
		t.Errorf("unexpected runtime section: %q", got[4].Content)
	}

	s, _ := Get(StrictFormat)
	got = s.Sections(in)
	if len(got) != 7 || got[6].ID != SectionExamples {
		t.Fatalf("strict_format should end with examples: %+v", got)
	}
}

func TestFormatForPrompt(t *testing.T) {
	out := FormatForPrompt([]Section{{ID: "a", Label: "A", Content: "x"}, {ID: "b", Label: "B", Content: "y"}})
	if out != "A:\nx\n\nB:\ny" {
		t.Errorf("unexpected format: %q", out)
	}
}
